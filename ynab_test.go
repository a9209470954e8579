package ordersplit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ogerman/ordersplit/date"
)

// withYNABServer points the client at a local server for the duration of
// one test.
func withYNABServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	oldBase, oldKey := ynabBase, *ynabAPIFlag
	ynabBase = srv.URL
	*ynabAPIFlag = "test-key"
	t.Cleanup(func() { ynabBase, *ynabAPIFlag = oldBase, oldKey })
}

func TestFetchTransactions(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	withYNABServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"data":{"transactions":[
			{"id":"t1","account_id":"a1","date":"2025-03-05","payee_name":"Amazon.com","amount":-25980},
			{"id":"t2","account_id":"a1","date":"2025-03-06","payee_name":"Amazon Prime","amount":-14990,
			 "subtransactions":[{"amount":-14990,"memo":"split"}]}
		],"server_knowledge":12345}}`)
	})

	txns, err := FetchTransactions("budget-1", date.New(2025, 3, 1))
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/budgets/budget-1/transactions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "since_date=2025-03-01" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txns))
	}
	if txns[0].ID != "t1" || txns[0].Amount != -25980 {
		t.Errorf("t1 = %+v", txns[0])
	}
	if len(txns[1].Subtransactions) != 1 {
		t.Errorf("t2 should keep its subtransactions")
	}
}

func TestFetchTransactions_ZeroDateOmitsQuery(t *testing.T) {
	var gotQuery string
	withYNABServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"data":{"transactions":[]}}`)
	})

	if _, err := FetchTransactions("budget-1", date.Date{}); err != nil {
		t.Fatal(err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want none", gotQuery)
	}
}

func TestFetchTransactions_HTTPError(t *testing.T) {
	withYNABServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"id":"401"}}`, http.StatusUnauthorized)
	})

	_, err := FetchTransactions("budget-1", date.Date{})
	if err == nil {
		t.Fatal("want an error for a 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q should carry the status", err)
	}
}

func TestPatchTransactions(t *testing.T) {
	var gotMethod string
	var gotBody []byte
	withYNABServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"data":{"transactions":[]}}`)
	})

	updates := []*Update{{
		AccountID: "a1", ID: "t1", Amount: -25980,
		Memo:            "Widget - link",
		Subtransactions: Allocation{{Amount: -25980, Memo: "Widget... (Qty: 2)", PayeeName: "Amazon"}},
		NumItems:        1,
	}}
	if err := PatchTransactions("budget-1", updates); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}

	var sent struct {
		Transactions []map[string]any `json:"transactions"`
	}
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatal(err)
	}
	if len(sent.Transactions) != 1 {
		t.Fatalf("sent %d transactions, want 1", len(sent.Transactions))
	}
	if _, leaked := sent.Transactions[0]["NumItems"]; leaked {
		t.Error("NumItems is bookkeeping and must not go on the wire")
	}
	if sent.Transactions[0]["id"] != "t1" {
		t.Errorf("payload = %s", gotBody)
	}
}

func TestPatchTransactions_ErrorCarriesStatusAndBody(t *testing.T) {
	withYNABServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"detail":"bad subtransaction"}}`, http.StatusBadRequest)
	})

	err := PatchTransactions("budget-1", []*Update{{ID: "t1"}})
	if err == nil {
		t.Fatal("want an error for a 400")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "bad subtransaction") {
		t.Errorf("error %q should carry the status and body", err)
	}
}

func TestPatchTransactions_OKWithoutDataIsFailure(t *testing.T) {
	withYNABServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"accepted"}`)
	})

	if err := PatchTransactions("budget-1", []*Update{{ID: "t1"}}); err == nil {
		t.Error("a 200 without a data body is not a success")
	}
}
