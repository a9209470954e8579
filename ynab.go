package ordersplit

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/ogerman/ordersplit/date"
)

// This file contains functions to access the YNAB API.

const ynab_api_key = "YNAB_API_KEY"

var ynabAPIFlag = flag.String("ynab-api-key", "", "YNAB API key used for reading and writing transactions.\n If missing it will read from the environment variable \""+ynab_api_key+"\". You can get one at https://app.ynab.com/settings/developer")

func ynabAPIKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *ynabAPIFlag == "" {
		*ynabAPIFlag = os.Getenv(ynab_api_key)
	}
	return *ynabAPIFlag
}

// ynabBase is a variable so tests can point the client at a local server.
var ynabBase = "https://api.ynab.com/v1"

// ynabDo performs one authenticated request and returns the status and
// raw body. Transport faults are the only errors; HTTP-level failures are
// the caller's to interpret.
func ynabDo(method, addr string, payload io.Reader) (int, []byte, error) {
	req, err := http.NewRequest(method, addr, payload)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+ynabAPIKey())
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	log.Printf("%v %v%v %v", method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// FetchTransactions returns the budget's transactions since the given
// date (all of them when since is the zero date).
func FetchTransactions(budgetID string, since date.Date) ([]LedgerTransaction, error) {
	addr := fmt.Sprintf("%s/budgets/%s/transactions", ynabBase, url.PathEscape(budgetID))
	if !since.IsZero() {
		addr += "?since_date=" + since.String()
	}

	status, body, err := ynabDo(http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch transactions: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("cannot fetch transactions: status %d: %s", status, body)
	}

	// The payload is an envelope {"data":{"transactions":[...]}} with
	// unrelated siblings; jsonpath keeps the extraction tolerant.
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return nil, fmt.Errorf("cannot fetch transactions: invalid JSON: %w", err)
	}
	jval, err := jsonpath.Get("$.data.transactions", jobj)
	if err != nil {
		return nil, fmt.Errorf("unexpected transactions response shape: %w", err)
	}
	raw, err := json.Marshal(jval)
	if err != nil {
		return nil, err
	}
	var txns []LedgerTransaction
	if err := json.Unmarshal(raw, &txns); err != nil {
		return nil, fmt.Errorf("cannot decode transactions: %w", err)
	}
	return txns, nil
}

// PatchTransactions sends all accepted updates as a single batched write.
// The only success signal is a 200 with a data body; anything else is a
// full-batch failure reported with its status and body, never retried.
func PatchTransactions(budgetID string, updates []*Update) error {
	payload, err := json.Marshal(struct {
		Transactions []*Update `json:"transactions"`
	}{Transactions: updates})
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s/budgets/%s/transactions", ynabBase, url.PathEscape(budgetID))
	status, body, err := ynabDo(http.MethodPatch, addr, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("cannot update transactions: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("failed to update transactions: status %d: %s", status, body)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data) == 0 {
		return fmt.Errorf("failed to update transactions: status %d without a data body: %s", status, body)
	}
	return nil
}
