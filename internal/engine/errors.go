package engine

import "fmt"

// FormatError reports a spread string that does not match the quote
// grammar. It is always surfaced to the caller, never defaulted away.
type FormatError struct {
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid spread format: %q (expected 'BENCHMARK+/-XXbps', e.g. 'T+50bps', 'S+25bps')", e.Text)
}

// MissingTenorDataError reports an absent SOFR spread table entry.
// Tenors are never extrapolated or interpolated.
type MissingTenorDataError struct {
	Tenor int
}

func (e *MissingTenorDataError) Error() string {
	return fmt.Sprintf("SOFR spread data not available for tenor: %d year(s)", e.Tenor)
}

// MissingBenchmarkRateError reports an absent benchmark rate.
type MissingBenchmarkRateError struct {
	Benchmark BenchmarkCode
}

func (e *MissingBenchmarkRateError) Error() string {
	return fmt.Sprintf("benchmark rate not found for: %s", e.Benchmark)
}

// MissingFundingRateError reports an absent funding rate for a currency.
type MissingFundingRateError struct {
	Currency string
}

func (e *MissingFundingRateError) Error() string {
	return fmt.Sprintf("funding rate missing for currency: %s", e.Currency)
}

// MissingFairValueError reports an absent fair-value curve entry.
type MissingFairValueError struct {
	CurveKey string
	Rating   string
	Tenor    int
}

func (e *MissingFairValueError) Error() string {
	return fmt.Sprintf("fair value YTM not found for %s/%s tenor %d", e.CurveKey, e.Rating, e.Tenor)
}

// CalculationError is the catch-all for failures outside the typed
// taxonomy above.
type CalculationError struct {
	Bond string
	Err  error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation failed for %s: %v", e.Bond, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }
