package marketdata

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bond-rv-analyzer/internal/engine"
)

// Provenance tags recorded in each resolved context.
const (
	SourceConfig   = "config"
	SourceCSV      = "csv"
	SourceLive     = "live"
	SourceFallback = "config (fallback)"
	SourceRequest  = "request"
)

// Resolver turns a classified bond into the immutable MarketContext the
// engine consumes. The underlying bundle is only swapped between
// batches; within a batch every bond sees the same snapshot.
type Resolver struct {
	mu     sync.RWMutex
	bundle Bundle
	source string
	logger zerolog.Logger
}

// NewResolver wraps a bundle with its provenance tag.
func NewResolver(bundle Bundle, source string, logger zerolog.Logger) *Resolver {
	return &Resolver{
		bundle: bundle,
		source: source,
		logger: logger.With().Str("component", "marketdata_resolver").Logger(),
	}
}

// Swap replaces the bundle, e.g. after a live refresh tick.
func (r *Resolver) Swap(bundle Bundle, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bundle = bundle
	r.source = source
}

// Snapshot returns the current bundle and its provenance.
func (r *Resolver) Snapshot() (Bundle, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bundle, r.source
}

// Context resolves the numeric environment for one classified bond:
// the benchmark rate (derived as the SOFR swap rate for SOFR-quoted
// bonds), the funding and SOFR tables, and the fair local YTM from the
// {CCY_SECTOR} curve.
func (r *Resolver) Context(b engine.Bond, cls engine.Classification) (engine.MarketContext, error) {
	bundle, source := r.Snapshot()
	return ResolveContext(bundle, source, b, cls)
}

// ResolveContext resolves a context against an explicit bundle. Used
// directly when a request supplies its own market data.
func ResolveContext(bundle Bundle, source string, b engine.Bond, cls engine.Classification) (engine.MarketContext, error) {
	var (
		benchmarkRate decimal.Decimal
		err           error
	)
	if cls.Benchmark == engine.BenchmarkSOFR {
		// SOFR has no quoted benchmark rate; derive the swap rate.
		benchmarkRate, err = engine.SofrSwapRate(b.Tenor, bundle.SofrSpreads)
	} else {
		benchmarkRate, err = bundle.BenchmarkRate(cls.Benchmark)
	}
	if err != nil {
		return engine.MarketContext{}, err
	}

	fairYTM, err := bundle.FairYTM(b.Currency, b.Sector, b.Rating, b.Tenor)
	if err != nil {
		return engine.MarketContext{}, err
	}

	return engine.MarketContext{
		BenchmarkRate: benchmarkRate,
		FundingRates:  bundle.FundingRates,
		SofrSpreads:   bundle.SofrSpreads,
		FairYTMLocal:  fairYTM,
		Currency:      b.Currency,
		Tenor:         b.Tenor,
		DataSource:    source,
	}, nil
}
