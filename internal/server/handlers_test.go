package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ostlog/go-freightgate/internal/config"
	"github.com/ostlog/go-freightgate/internal/types"
)

// fakeEngine replays a canned outcome and records the body it was handed.
type fakeEngine struct {
	quoteOut   *types.Outcome
	collectOut *types.Outcome
	gotBody    string
}

func (f *fakeEngine) Quote(_ context.Context, body []byte) *types.Outcome {
	f.gotBody = string(body)
	return f.quoteOut
}

func (f *fakeEngine) RequestCollection(_ context.Context, body []byte) *types.Outcome {
	f.gotBody = string(body)
	return f.collectOut
}

func newTestServer(t *testing.T, cfg *config.ServerConfig, eng quotationEngine) *httptest.Server {
	t.Helper()
	if cfg == nil {
		cfg = &config.ServerConfig{Timeout: 5 * time.Second}
	}
	s := New(cfg)
	s.engine = eng
	ts := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return doc
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, &fakeEngine{})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if doc := decodeBody(t, resp); doc["status"] != "ok" {
		t.Errorf("body = %v", doc)
	}
}

func TestQuoteStatusMapping(t *testing.T) {
	freight := 159.77
	days := 5
	tests := []struct {
		name       string
		out        *types.Outcome
		wantStatus int
		wantOK     bool
	}{
		{
			"success",
			&types.Outcome{State: types.StateSuccess, Success: &types.Success{FreightValue: &freight, DeadlineDays: &days, QuotationNumber: "123", Message: "OK"}},
			http.StatusOK, true,
		},
		{
			"rejected",
			&types.Outcome{State: types.StateRejected, Violations: []string{"cepOrigem é obrigatório"}},
			http.StatusBadRequest, false,
		},
		{
			"business failure",
			&types.Outcome{State: types.StateBusinessFailure, OutcomeCode: 9, Message: "CEP não atendido"},
			http.StatusUnprocessableEntity, false,
		},
		{
			"transport failure",
			&types.Outcome{State: types.StateTransportFailed, Reason: "remote call failed: connection refused"},
			http.StatusBadGateway, false,
		},
		{
			"protocol failure",
			&types.Outcome{State: types.StateProtocolFailed, Reason: "reply carried no recognizable result payload"},
			http.StatusBadGateway, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &fakeEngine{quoteOut: tt.out}
			ts := newTestServer(t, nil, eng)

			resp, err := http.Post(ts.URL+"/api/quote", "application/json", strings.NewReader(`{"cepOrigem":"01310100"}`))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			doc := decodeBody(t, resp)
			if doc["ok"] != tt.wantOK {
				t.Errorf("ok = %v, want %v", doc["ok"], tt.wantOK)
			}
			if eng.gotBody != `{"cepOrigem":"01310100"}` {
				t.Errorf("engine received body %q", eng.gotBody)
			}
		})
	}
}

func TestQuoteSuccessBodyShape(t *testing.T) {
	freight := 159.77
	days := 5
	eng := &fakeEngine{quoteOut: &types.Outcome{
		State:   types.StateSuccess,
		Success: &types.Success{FreightValue: &freight, DeadlineDays: &days, QuotationNumber: "123", Token: "tok-1", Message: "OK"},
	}}
	ts := newTestServer(t, nil, eng)

	resp, err := http.Post(ts.URL+"/api/quote", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	doc := decodeBody(t, resp)

	if doc["freightValue"] != 159.77 {
		t.Errorf("freightValue = %v", doc["freightValue"])
	}
	if doc["deadlineDays"] != float64(5) {
		t.Errorf("deadlineDays = %v", doc["deadlineDays"])
	}
	if doc["quotationNumber"] != "123" {
		t.Errorf("quotationNumber = %v", doc["quotationNumber"])
	}
}

func TestCollectRoute(t *testing.T) {
	eng := &fakeEngine{collectOut: &types.Outcome{
		State:   types.StateSuccess,
		Success: &types.Success{CollectionProtocol: "PC-77", Message: "Coleta agendada"},
	}}
	ts := newTestServer(t, nil, eng)

	resp, err := http.Post(ts.URL+"/api/collect", "application/json", strings.NewReader(`{"cotacao":"12345"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if doc := decodeBody(t, resp); doc["collectionProtocol"] != "PC-77" {
		t.Errorf("body = %v", doc)
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.ServerConfig{Timeout: 5 * time.Second, AccessToken: "sk-test"}
	eng := &fakeEngine{quoteOut: &types.Outcome{State: types.StateRejected, Violations: []string{"x"}}}
	ts := newTestServer(t, cfg, eng)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"malformed header", "sk-test", http.StatusUnauthorized},
		{"valid token", "Bearer sk-test", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/quote", strings.NewReader(`{}`))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	// Health stays open even with a token configured.
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}
}

func TestPreflight(t *testing.T) {
	cfg := &config.ServerConfig{Timeout: 5 * time.Second, AccessToken: "sk-test"}
	ts := newTestServer(t, cfg, &fakeEngine{})

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/quote", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
