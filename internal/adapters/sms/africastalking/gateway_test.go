package africastalking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Gateway) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	gw, err := New(Config{
		BaseURL:  ts.URL,
		APIKey:   "test-key",
		Username: "sandbox",
		SenderID: "VETCONNECT",
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return ts, gw
}

func TestSendBulk_ReattributesByNumber(t *testing.T) {
	_, gw := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/version1/messaging" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("apiKey") != "test-key" {
			t.Fatalf("missing apiKey header")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("to"); got != "+250788000001,+250788000002,+250788000003" {
			t.Fatalf("to field wrong: %q", got)
		}
		if got := r.PostForm.Get("from"); got != "VETCONNECT" {
			t.Fatalf("from field wrong: %q", got)
		}

		// el proveedor responde fuera de orden y omite el tercero
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"SMSMessageData": map[string]any{
				"Message": "Sent to 1/3",
				"Recipients": []map[string]any{
					{"number": "+250788000002", "status": "UserInBlacklist", "statusCode": 406},
					{"number": "+250788000001", "status": "Success", "statusCode": 101},
				},
			},
		})
	})

	// entrada con formatos locales: el gateway normaliza antes de enviar
	results := gw.SendBulk(context.Background(), []string{
		"0788 000 001",
		"788000002",
		"+250788000003",
	}, "hello")

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Success || results[0].Phone != "+250788000001" {
		t.Fatalf("result 0 wrong: %#v", results[0])
	}
	if results[1].Success || results[1].Error != "UserInBlacklist" {
		t.Fatalf("result 1 wrong: %#v", results[1])
	}
	if results[2].Success || results[2].Error != "no delivery report" {
		t.Fatalf("result 2 wrong: %#v", results[2])
	}
}

func TestSendBulk_TransportErrorFailsAll(t *testing.T) {
	_, gw := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	results := gw.SendBulk(context.Background(), []string{"0788000001", "0788000002"}, "hello")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Success {
			t.Fatalf("result %d should fail on transport error", i)
		}
	}
}

func TestSendBulk_NotConfigured(t *testing.T) {
	gw, err := New(Config{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if gw.IsConfigured() {
		t.Fatalf("gateway without credentials must not report configured")
	}

	results := gw.SendBulk(context.Background(), []string{"0788000001"}, "hello")
	if len(results) != 1 || results[0].Success {
		t.Fatalf("expected single failed result, got %#v", results)
	}
	if results[0].Error != ErrNotConfigured.Error() {
		t.Fatalf("expected not-configured error, got %q", results[0].Error)
	}
}
