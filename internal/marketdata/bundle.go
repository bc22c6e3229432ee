// Package marketdata supplies the rate tables the normalisation engine
// consumes: benchmark rates, funding rates, SOFR spread rows, and
// fair-value curves. Bundles can come from packaged defaults, a CSV
// file, a live endpoint, or the analyze request itself; resolution
// records which.
package marketdata

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bond-rv-analyzer/internal/engine"
)

// WildcardTenor keys fair-value entries that apply to every tenor.
const WildcardTenor = "*"

// FairValueCurves maps "CCY_SECTOR" -> rating -> tenor -> fair local YTM.
type FairValueCurves map[string]map[string]map[string]decimal.Decimal

// Bundle is one batch's worth of market data. Once handed to the
// analysis layer it is treated as read-only.
type Bundle struct {
	BenchmarkRates  map[string]decimal.Decimal        `json:"benchmark_rates"`
	FundingRates    map[string]decimal.Decimal        `json:"funding_rates"`
	SofrSpreads     map[string]engine.SofrSpreadEntry `json:"sofr_spread_data"`
	FairValueCurves FairValueCurves                   `json:"fair_value_curves"`
}

// Empty reports whether no section carries data.
func (b Bundle) Empty() bool {
	return len(b.BenchmarkRates) == 0 &&
		len(b.FundingRates) == 0 &&
		len(b.SofrSpreads) == 0 &&
		len(b.FairValueCurves) == 0
}

// MergedWith fills each empty section of b from the fallback bundle.
// Sections are taken wholesale, never mixed key by key.
func (b Bundle) MergedWith(fallback Bundle) Bundle {
	merged := b
	if len(merged.BenchmarkRates) == 0 {
		merged.BenchmarkRates = fallback.BenchmarkRates
	}
	if len(merged.FundingRates) == 0 {
		merged.FundingRates = fallback.FundingRates
	}
	if len(merged.SofrSpreads) == 0 {
		merged.SofrSpreads = fallback.SofrSpreads
	}
	if len(merged.FairValueCurves) == 0 {
		merged.FairValueCurves = fallback.FairValueCurves
	}
	return merged
}

// BenchmarkRate looks up the rate for a benchmark code.
func (b Bundle) BenchmarkRate(code engine.BenchmarkCode) (decimal.Decimal, error) {
	rate, ok := b.BenchmarkRates[string(code)]
	if !ok {
		return decimal.Decimal{}, &engine.MissingBenchmarkRateError{Benchmark: code}
	}
	return rate, nil
}

// FairYTM looks up the fair local yield for a bond profile. An exact
// tenor entry wins; a wildcard entry covers single-tenor curves.
func (b Bundle) FairYTM(ccy, sector, rating string, tenor int) (decimal.Decimal, error) {
	curveKey := strings.ToUpper(ccy) + "_" + strings.ToUpper(sector)
	missing := &engine.MissingFairValueError{CurveKey: curveKey, Rating: strings.ToUpper(rating), Tenor: tenor}

	curve, ok := b.FairValueCurves[curveKey]
	if !ok {
		return decimal.Decimal{}, missing
	}
	byTenor, ok := curve[strings.ToUpper(rating)]
	if !ok {
		return decimal.Decimal{}, missing
	}
	if ytm, ok := byTenor[strconv.Itoa(tenor)]; ok {
		return ytm, nil
	}
	if ytm, ok := byTenor[WildcardTenor]; ok {
		return ytm, nil
	}
	return decimal.Decimal{}, missing
}
