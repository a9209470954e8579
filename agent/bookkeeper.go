package agent

import (
	"context"
	"fmt"

	"github.com/ogerman/ordersplit"
	"github.com/ogerman/ordersplit/docs"
	"github.com/ogerman/ordersplit/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// NewBookkeeper returns the expert answering questions about the local
// snapshots. Its tools read the given files on every call, so edits made
// between questions are picked up.
func NewBookkeeper(ordersFile, transactionsFile string) *Expert {
	lib := []Function{
		ordersTool(ordersFile),
		transactionsTool(transactionsFile),
		planTool(ordersFile, transactionsFile),
		topicTool(),
	}

	return &Expert{
		Name:      "Bookkeeper",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclarations(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the bookkeeper of the user's order history and ledger.
				The user downloads ledger transactions and scraped orders into two
				local snapshot files, then reconciles them: each card charge gets
				split into one line per purchased item.

				Use the tools to read the snapshots, to plan a reconciliation run,
				and to look up the documentation. Amounts are in milliunits, one
				thousandth of a dollar, negative for expenses. Answer with compact
				markdown and never invent figures: everything you state must come
				from a tool call.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// errResponse wraps a tool failure so the model can report it.
func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func okResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

func ordersTool(path string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Orders",
			Description: "List the scraped orders in the local snapshot with their date, number, total, item count and how many items have no readable price.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the orders.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			orders, err := ordersplit.LoadOrders(path)
			if err != nil {
				return errResponse(id, "Orders", err)
			}
			return okResponse(id, "Orders", renderer.Orders(orders))
		},
	}
}

func transactionsTool(path string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Transactions",
			Description: "List the ledger transactions in the local snapshot with their date, payee, amount, number of split lines and memo.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the transactions.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			txns, err := ordersplit.LoadTransactions(path)
			if err != nil {
				return errResponse(id, "Transactions", err)
			}
			return okResponse(id, "Transactions", renderer.Transactions(txns))
		},
	}
}

func planTool(ordersFile, transactionsFile string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "PlanReconcile",
			Description: `Match the snapshot transactions against the snapshot orders and report the planned splits.
			This is a dry run: nothing is uploaded. Use it to answer what a reconcile run would do,
			which transactions have no matching order, and which items have no price.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown reconciliation report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			orders, err := ordersplit.LoadOrders(ordersFile)
			if err != nil {
				return errResponse(id, "PlanReconcile", err)
			}
			txns, err := ordersplit.LoadTransactions(transactionsFile)
			if err != nil {
				return errResponse(id, "PlanReconcile", err)
			}
			rec := ordersplit.NewReconciler(ordersplit.DefaultConfig(), orders)
			rep := rec.Run(txns)
			return okResponse(id, "PlanReconcile", renderer.Report(rep, 0))
		},
	}
}

func topicTool() Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Documentation",
			Description: "Read one documentation topic, or all of them with the name '*'. Use the name 'readme' to list the available topics.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        genai.TypeString,
						Description: "The topic name.",
					},
				},
				Required: []string{"name"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The topic content in markdown.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			name, ok := args["name"].(string)
			if !ok {
				return errResponse(id, "Documentation", fmt.Errorf("argument 'name' is not a string but %T", args["name"]))
			}
			content, err := docs.Topic(name)
			if err != nil {
				return errResponse(id, "Documentation", err)
			}
			return okResponse(id, "Documentation", content)
		},
	}
}
