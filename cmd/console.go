package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ogerman/ordersplit"
	"github.com/shopspring/decimal"
)

// consolePrompter resolves verification mismatches by asking the user on
// the terminal.
type consolePrompter struct {
	r *bufio.Reader
}

func newConsolePrompter(r io.Reader) *consolePrompter {
	return &consolePrompter{r: bufio.NewReader(r)}
}

func (p *consolePrompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ResolveMismatch implements ordersplit.Prompter with a small menu. The
// mismatch context itself was already printed by the verification pass.
func (p *consolePrompter) ResolveMismatch(m ordersplit.Mismatch) (ordersplit.Resolution, error) {
	fmt.Printf("Transaction %s is off by %s.\n", m.Update.ID, m.Difference)
	fmt.Println("  1) add a missing item")
	fmt.Println("  2) enter a manual adjustment")
	fmt.Println("  3) skip this transaction")
	fmt.Print("> ")

	choice, err := p.readLine()
	if err != nil {
		return ordersplit.Resolution{}, err
	}

	switch choice {
	case "1":
		return p.askItem()
	case "2":
		return p.askAdjustment()
	default:
		return ordersplit.Resolution{Action: ordersplit.ResolveSkip}, nil
	}
}

func (p *consolePrompter) askItem() (ordersplit.Resolution, error) {
	fmt.Print("Item title: ")
	title, err := p.readLine()
	if err != nil {
		return ordersplit.Resolution{}, err
	}

	fmt.Print("Unit price (e.g. 12.99): ")
	raw, err := p.readLine()
	if err != nil {
		return ordersplit.Resolution{}, err
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Printf("Not a valid price: %q\n", raw)
		return ordersplit.Resolution{Action: ordersplit.ResolveSkip}, nil
	}

	fmt.Print("Quantity (default 1): ")
	raw, err = p.readLine()
	if err != nil {
		return ordersplit.Resolution{}, err
	}
	qty := 1
	if raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &qty); err != nil || qty < 1 {
			fmt.Printf("Not a valid quantity: %q\n", raw)
			return ordersplit.Resolution{Action: ordersplit.ResolveSkip}, nil
		}
	}

	return ordersplit.Resolution{
		Action:   ordersplit.ResolveAddItem,
		Title:    title,
		Price:    price,
		Quantity: qty,
	}, nil
}

func (p *consolePrompter) askAdjustment() (ordersplit.Resolution, error) {
	fmt.Print("Adjustment amount, negative for credits (e.g. -2.00): ")
	raw, err := p.readLine()
	if err != nil {
		return ordersplit.Resolution{}, err
	}
	delta, err := decimal.NewFromString(strings.TrimPrefix(raw, "+"))
	if err != nil {
		fmt.Printf("Not a valid amount: %q\n", raw)
		return ordersplit.Resolution{Action: ordersplit.ResolveSkip}, nil
	}

	fmt.Print("Memo (default \"Manual Adjustment\"): ")
	memo, err := p.readLine()
	if err != nil {
		return ordersplit.Resolution{}, err
	}

	return ordersplit.Resolution{
		Action: ordersplit.ResolveAdjust,
		Delta:  delta,
		Memo:   memo,
	}, nil
}

// Confirm asks a yes/no question and returns true only on an explicit yes.
func (p *consolePrompter) Confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := p.readLine()
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
