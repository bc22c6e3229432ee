package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestLiveFetcherMissingBaseURL(t *testing.T) {
	f := NewLiveFetcher(LiveOptions{}, noopLogger())
	if _, err := f.FetchBundle(context.Background()); err == nil {
		t.Fatal("缺少 base url 应报错")
	}
}

func TestLiveFetcherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != bundlePath {
			t.Fatalf("path = %s, want %s", r.URL.Path, bundlePath)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"benchmark_rates": map[string]string{"T": "0.0344"},
			"funding_rates":   map[string]string{"USD": "0.05", "CAD": "0.045"},
			"sofr_spread_data": map[string]any{
				"1": map[string]string{"t_rate": "0.0344", "t_sofr_spread": "0.0025"},
			},
		})
	}))
	defer srv.Close()

	f := NewLiveFetcher(LiveOptions{BaseURL: srv.URL, Timeout: time.Second, RetryMax: 1, UserAgent: "test"}, noopLogger())
	bundle, err := f.FetchBundle(context.Background())
	if err != nil {
		t.Fatalf("FetchBundle: %v", err)
	}
	if !bundle.BenchmarkRates["T"].Equal(d("0.0344")) {
		t.Fatalf("T rate = %s", bundle.BenchmarkRates["T"])
	}
	if !bundle.SofrSpreads["1"].TSofrSpread.Equal(d("0.0025")) {
		t.Fatalf("sofr spread = %s", bundle.SofrSpreads["1"].TSofrSpread)
	}
}

func TestLiveFetcherHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewLiveFetcher(LiveOptions{BaseURL: srv.URL, Timeout: time.Second, RetryMax: 1}, noopLogger())
	if _, err := f.FetchBundle(context.Background()); err == nil {
		t.Fatal("HTTP 500 应报错")
	}
}

func TestLiveFetcherEmptyBundle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	f := NewLiveFetcher(LiveOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := f.FetchBundle(context.Background()); err == nil {
		t.Fatal("empty bundles should be rejected")
	}
}
