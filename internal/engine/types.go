// Package engine normalises heterogeneous bond quotes onto a single
// USD-hedged yield basis and assesses each bond as rich, cheap, or fair
// against a fair-value reference. It performs no I/O; all market data is
// supplied by the caller.
package engine

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// CouponType distinguishes fixed and floating rate bonds.
type CouponType string

const (
	CouponFixed CouponType = "FIXED"
	CouponFloat CouponType = "FLOAT"
)

// BenchmarkCode identifies the reference rate a spread is quoted over.
// Any upper-case letter sequence parses, but only Treasury and SOFR
// receive special normalisation treatment.
type BenchmarkCode string

const (
	BenchmarkTreasury   BenchmarkCode = "T"
	BenchmarkGovernment BenchmarkCode = "G"
	BenchmarkMidSwap    BenchmarkCode = "MS"
	BenchmarkSOFR       BenchmarkCode = "S"
)

// Bond is a quoted instrument under evaluation.
type Bond struct {
	Name       string     `json:"name"`
	CouponType CouponType `json:"coupon_type"`
	Currency   string     `json:"ccy"`
	Tenor      int        `json:"tenor"`
	Rating     string     `json:"rating"`
	Sector     string     `json:"sector"`
	SpreadText string     `json:"spread"`
}

// TenorKey renders the tenor the way rate tables are keyed.
func (b Bond) TenorKey() string {
	return strconv.Itoa(b.Tenor)
}

// SofrSpreadEntry is a per-tenor Treasury rate and Treasury-SOFR spread
// pair. The spread may be negative. The SOFR swap rate is always derived
// as TRate - TSofrSpread.
type SofrSpreadEntry struct {
	TRate       decimal.Decimal `json:"t_rate"`
	TSofrSpread decimal.Decimal `json:"t_sofr_spread"`
}

// MarketContext is the resolved numeric environment for one bond at one
// point in time. It is constructed fresh per bond and never mutated.
type MarketContext struct {
	BenchmarkRate decimal.Decimal
	FundingRates  map[string]decimal.Decimal
	SofrSpreads   map[string]SofrSpreadEntry
	FairYTMLocal  decimal.Decimal
	Currency      string
	Tenor         int
	DataSource    string
}

// Assessment is the rich/cheap/fair verdict with its recommended action.
type Assessment string

const (
	AssessmentCheap Assessment = "Cheap (BUY)"
	AssessmentFair  Assessment = "Fair (HOLD)"
	AssessmentRich  Assessment = "Rich (PASS)"
	// AssessmentError marks bonds whose analysis aborted.
	AssessmentError Assessment = "Error/N/A"
)

// CalculationSteps retains every intermediate value for audit. SOFR
// fields are populated only when the SOFR paths were exercised.
type CalculationSteps struct {
	BenchmarkCode        BenchmarkCode    `json:"benchmark_code"`
	BenchmarkRate        decimal.Decimal  `json:"benchmark_rate"`
	CouponType           CouponType       `json:"coupon_type"`
	SpreadDecimal        decimal.Decimal  `json:"spread_decimal"`
	SpreadBps            decimal.Decimal  `json:"spread_bps"`
	QuotedSpread         string           `json:"quoted_spread,omitempty"`
	OfferedYieldLocal    decimal.Decimal  `json:"offered_yield_local"`
	FairYTMLocal         decimal.Decimal  `json:"fair_ytm_local"`
	FXHedgeCost          decimal.Decimal  `json:"fx_hedge_cost"`
	SofrSwapRate         *decimal.Decimal `json:"sofr_swap_rate,omitempty"`
	TSofrSpread          *decimal.Decimal `json:"t_sofr_spread,omitempty"`
	SofrEquivalentSpread *decimal.Decimal `json:"sofr_equivalent_spread,omitempty"`
}

// CalculationResult is the full per-bond yield decomposition.
type CalculationResult struct {
	Name                  string           `json:"name"`
	Currency              string           `json:"ccy"`
	Rating                string           `json:"rating"`
	Sector                string           `json:"sector"`
	OfferedSpread         string           `json:"offered_spread"`
	OfferedHedgedYieldBps decimal.Decimal  `json:"offered_hedged_yield_bps"`
	FairHedgedYieldBps    decimal.Decimal  `json:"fair_hedged_yield_bps"`
	ExcessYieldBps        decimal.Decimal  `json:"excess_yield_bps"`
	FXHedgeCostBps        decimal.Decimal  `json:"fx_hedge_cost_bps"`
	Assessment            Assessment       `json:"assessment"`
	Steps                 CalculationSteps `json:"calculation_steps"`
	DataSource            string           `json:"data_source"`
}
