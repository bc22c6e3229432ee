package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const bundlePath = "/v1/market-data"

// LiveOptions parameterise the live market-data fetcher.
type LiveOptions struct {
	BaseURL   string
	Timeout   time.Duration
	RetryMax  int
	UserAgent string
}

// LiveFetcher pulls a full bundle from an HTTP JSON endpoint with
// bounded retries.
type LiveFetcher struct {
	opts    LiveOptions
	client  *retryablehttp.Client
	baseURL string
	logger  zerolog.Logger
}

// NewLiveFetcher constructs a live fetcher.
func NewLiveFetcher(opts LiveOptions, logger zerolog.Logger) *LiveFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	if client.RetryMax <= 0 {
		client.RetryMax = 3
	}
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 3 * time.Second
	client.Logger = nil

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client.HTTPClient.Timeout = timeout

	return &LiveFetcher{
		opts:    opts,
		client:  client,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		logger:  logger.With().Str("component", "marketdata_live").Logger(),
	}
}

// FetchBundle retrieves the current market-data bundle.
func (f *LiveFetcher) FetchBundle(ctx context.Context) (Bundle, error) {
	if f.baseURL == "" {
		return Bundle{}, fmt.Errorf("live market data base url not configured")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+bundlePath, nil)
	if err != nil {
		return Bundle{}, fmt.Errorf("create market data request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(f.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Bundle{}, fmt.Errorf("fetch market data: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Bundle{}, fmt.Errorf("read market data response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Bundle{}, fmt.Errorf("market data endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var bundle Bundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return Bundle{}, fmt.Errorf("decode market data response: %w", err)
	}
	if bundle.Empty() {
		return Bundle{}, fmt.Errorf("market data endpoint returned an empty bundle")
	}

	f.logger.Debug().
		Int("benchmarks", len(bundle.BenchmarkRates)).
		Int("funding_rates", len(bundle.FundingRates)).
		Int("sofr_tenors", len(bundle.SofrSpreads)).
		Int("fair_curves", len(bundle.FairValueCurves)).
		Msg("fetched live market data bundle")

	return bundle, nil
}
