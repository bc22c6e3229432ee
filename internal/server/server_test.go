package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"bond-rv-analyzer/internal/config"
	"bond-rv-analyzer/internal/marketdata"
	"bond-rv-analyzer/internal/metrics"
	"bond-rv-analyzer/internal/service"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Addr: ":0"},
		Analysis: config.AnalysisConfig{CheapThresholdBps: 5, RichThresholdBps: -5},
	}
	resolver := marketdata.NewResolver(marketdata.Defaults(), marketdata.SourceConfig, zerolog.Nop())
	m := metrics.New()
	analyzer := service.New(cfg, resolver, m, zerolog.Nop())
	return New(cfg.Server, analyzer, resolver, m, zerolog.Nop())
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

func TestHandleAnalyzeBatch(t *testing.T) {
	srv := testServer(t)
	body := `{"bonds":[
		{"name":"ACME 5Y","coupon_type":"FIXED","ccy":"CAD","tenor":5,"rating":"BBB","sector":"TECH","spread":"T+50bps"},
		{"name":"BAD","coupon_type":"FIXED","ccy":"USD","tenor":5,"rating":"A","sector":"TECH","spread":"garbage"}
	]}`
	rr := postJSON(t, srv, "/api/v1/analyze", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Results    []map[string]any `json:"results"`
		DataSource string           `json:"data_source"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("想要 2 个结果, got %d", len(resp.Results))
	}
	if resp.DataSource != marketdata.SourceConfig {
		t.Fatalf("data_source = %q", resp.DataSource)
	}
	if resp.Results[0]["assessment"] != "Rich (PASS)" {
		t.Fatalf("first bond assessment = %v", resp.Results[0]["assessment"])
	}
	if resp.Results[1]["assessment"] != "Error/N/A" {
		t.Fatalf("second bond should be an error record, got %v", resp.Results[1])
	}
}

func TestHandleAnalyzeRequestBundle(t *testing.T) {
	srv := testServer(t)
	body := `{
		"bonds":[{"name":"ACME 5Y","coupon_type":"FIXED","ccy":"USD","tenor":5,"rating":"BBB","sector":"TECH","spread":"T+50bps"}],
		"market_data":{"benchmark_rates":{"T":"0.0400"}}
	}`
	rr := postJSON(t, srv, "/api/v1/analyze", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"data_source":"request"`) {
		t.Fatalf("request-supplied tables should be tagged: %s", rr.Body.String())
	}
}

func TestHandleAnalyzeRejectsBadPayloads(t *testing.T) {
	srv := testServer(t)
	for name, body := range map[string]string{
		"malformed json": `{"bonds":`,
		"empty batch":    `{"bonds":[]}`,
		"unknown field":  `{"bonds":[],"junk":1}`,
	} {
		rr := postJSON(t, srv, "/api/v1/analyze", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", name, rr.Code)
		}
	}
}

func TestHandleValidateBond(t *testing.T) {
	srv := testServer(t)

	rr := postJSON(t, srv, "/api/v1/bonds", `{"name":"ACME 5Y","coupon_type":"FIXED","ccy":"USD","tenor":5,"rating":"A","sector":"TECH","spread":"T+75bps"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp validateBondResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Benchmark != "T" || resp.SpreadBps != "75" {
		t.Fatalf("unexpected validation: %+v", resp)
	}

	rr = postJSON(t, srv, "/api/v1/bonds", `{"name":"BAD","coupon_type":"FIXED","ccy":"USD","tenor":5,"rating":"A","sector":"TECH","spread":"T?75"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid spread should 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid spread format") {
		t.Fatalf("error body should name the format violation: %s", rr.Body.String())
	}

	rr = postJSON(t, srv, "/api/v1/bonds", `{"name":"FRN","coupon_type":"FLOAT","ccy":"USD","tenor":5,"rating":"A","sector":"TECH","spread":"sofr equivalent"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("marker quote should be accepted, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health body: %s", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t)
	postJSON(t, srv, "/api/v1/analyze", `{"bonds":[{"name":"ACME 5Y","coupon_type":"FIXED","ccy":"USD","tenor":5,"rating":"BBB","sector":"TECH","spread":"T+50bps"}]}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "bondrv_batches_total") {
		t.Fatal("batch counter not exported")
	}
}
