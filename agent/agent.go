// Package agent implements the interactive assistant behind the assist
// subcommand: a Gemini chat wired to function tools that read the local
// snapshots and plan reconciliations.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"google.golang.org/genai"
)

// Agent runs the chat session between the user and the bookkeeper.
type Agent struct {
	w      io.Writer
	r      *bufio.Reader
	Expert *Expert
}

// New creates an Agent writing to w and reading user input from r.
func New(w io.Writer, r io.Reader, expert *Expert) *Agent {
	return &Agent{w: w, r: bufio.NewReader(r), Expert: expert}
}

const prompt = "osp> "

// Run starts the interactive REPL session. Initial prompts are consumed
// before reading from the user, so a question can be passed on the
// command line.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if err := a.Expert.Start(ctx, client); err != nil {
		return err
	}

	fmt.Fprintln(a.w, "Welcome to osp assist. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		content, err := a.Expert.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		a.print(content.Parts[0].Text)
	}
}

// print renders the assistant's markdown reply for the terminal, falling
// back to the raw text when rendering fails.
func (a *Agent) print(text string) {
	rendered, err := glamour.Render(text, "auto")
	if err != nil {
		fmt.Fprintln(a.w, text)
		return
	}
	fmt.Fprintln(a.w, rendered)
}
