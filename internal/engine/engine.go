package engine

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// bpsPerUnit converts decimal fractions to basis points.
var bpsPerUnit = decimal.NewFromInt(10000)

// Thresholds are the excess-yield cut-offs, in basis points, separating
// cheap and rich from fair. Both comparisons are strict; an excess yield
// sitting exactly on a threshold is fair.
type Thresholds struct {
	CheapBps decimal.Decimal
	RichBps  decimal.Decimal
}

// DefaultThresholds returns the standard +5/-5 bps cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CheapBps: decimal.NewFromInt(5),
		RichBps:  decimal.NewFromInt(-5),
	}
}

// ThresholdsFromBps builds thresholds from configured bps values.
func ThresholdsFromBps(cheap, rich float64) Thresholds {
	return Thresholds{
		CheapBps: decimal.NewFromFloat(cheap),
		RichBps:  decimal.NewFromFloat(rich),
	}
}

// Assess maps an excess yield in bps to a rich/cheap/fair verdict.
func Assess(excessBps decimal.Decimal, th Thresholds) Assessment {
	switch {
	case excessBps.GreaterThan(th.CheapBps):
		return AssessmentCheap
	case excessBps.LessThan(th.RichBps):
		return AssessmentRich
	default:
		return AssessmentFair
	}
}

// sofrEntry looks up the SOFR spread table row for a tenor. Tenors are
// never interpolated.
func sofrEntry(tenor int, table map[string]SofrSpreadEntry) (SofrSpreadEntry, error) {
	entry, ok := table[strconv.Itoa(tenor)]
	if !ok {
		return SofrSpreadEntry{}, &MissingTenorDataError{Tenor: tenor}
	}
	return entry, nil
}

// SofrSwapRate derives the tenor-specific SOFR swap rate:
// S(t) = T_RATE(t) - T_SOFR_SPREAD(t).
func SofrSwapRate(tenor int, table map[string]SofrSpreadEntry) (decimal.Decimal, error) {
	entry, err := sofrEntry(tenor, table)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return entry.TRate.Sub(entry.TSofrSpread), nil
}

// LocalOfferedYield is the additive spread-over-benchmark approximation
// of a newly issued bond's yield to maturity.
func LocalOfferedYield(benchmarkRate, spread decimal.Decimal) decimal.Decimal {
	return benchmarkRate.Add(spread)
}

// SofrEquivalentSpread converts a Treasury spread x into its floating
// spread over SOFR: z = x + T_SOFR_SPREAD.
func SofrEquivalentSpread(treasurySpread, tSofrSpread decimal.Decimal) decimal.Decimal {
	return treasurySpread.Add(tSofrSpread)
}

// HedgeToUSD applies covered interest parity in its additive
// approximation: the hedged yield is the local yield plus the USD/local
// funding differential. Returns the hedged yield and the FX hedge cost.
func HedgeToUSD(localYield decimal.Decimal, currency string, fundingRates map[string]decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	rUSD, ok := fundingRates["USD"]
	if !ok {
		return decimal.Decimal{}, decimal.Decimal{}, &MissingFundingRateError{Currency: "USD"}
	}
	rLocal, ok := fundingRates[strings.ToUpper(currency)]
	if !ok {
		return decimal.Decimal{}, decimal.Decimal{}, &MissingFundingRateError{Currency: strings.ToUpper(currency)}
	}

	fxCost := rUSD.Sub(rLocal)
	return localYield.Add(fxCost), fxCost, nil
}

// Normalize produces the full USD-hedged yield decomposition for one
// bond given its resolved classification and market context. It is a
// pure function: identical inputs yield identical results.
func Normalize(b Bond, cls Classification, ctx MarketContext, th Thresholds) (CalculationResult, error) {
	steps := CalculationSteps{
		BenchmarkCode: cls.Benchmark,
		BenchmarkRate: ctx.BenchmarkRate,
		CouponType:    b.CouponType,
		SpreadDecimal: cls.Spread,
		SpreadBps:     cls.Spread.Mul(bpsPerUnit).Round(0),
	}
	if cls.SpreadOverridden {
		steps.QuotedSpread = b.SpreadText
	}

	var local decimal.Decimal
	switch {
	case cls.SofrEquivalent:
		// Treasury-anchored floating equivalence: Y = S(t) + z where
		// z = x + T_SOFR_SPREAD(t).
		entry, err := sofrEntry(b.Tenor, ctx.SofrSpreads)
		if err != nil {
			return CalculationResult{}, err
		}
		swap := entry.TRate.Sub(entry.TSofrSpread)
		z := SofrEquivalentSpread(cls.Spread, entry.TSofrSpread)
		local = swap.Add(z)
		steps.SofrSwapRate = &swap
		steps.TSofrSpread = &entry.TSofrSpread
		steps.SofrEquivalentSpread = &z
	case cls.Benchmark == BenchmarkSOFR:
		// SOFR-quoted bond expressed as a fixed equivalent.
		swap, err := SofrSwapRate(b.Tenor, ctx.SofrSpreads)
		if err != nil {
			return CalculationResult{}, err
		}
		local = LocalOfferedYield(swap, cls.Spread)
		steps.SofrSwapRate = &swap
	default:
		local = LocalOfferedYield(ctx.BenchmarkRate, cls.Spread)
	}
	steps.OfferedYieldLocal = local

	offeredHedged, fxCost, err := HedgeToUSD(local, ctx.Currency, ctx.FundingRates)
	if err != nil {
		return CalculationResult{}, err
	}

	fairHedged, _, err := HedgeToUSD(ctx.FairYTMLocal, ctx.Currency, ctx.FundingRates)
	if err != nil {
		return CalculationResult{}, err
	}

	steps.FairYTMLocal = ctx.FairYTMLocal
	steps.FXHedgeCost = fxCost

	excessBps := offeredHedged.Sub(fairHedged).Mul(bpsPerUnit)

	return CalculationResult{
		Name:                  b.Name,
		Currency:              b.Currency,
		Rating:                b.Rating,
		Sector:                b.Sector,
		OfferedSpread:         b.SpreadText,
		OfferedHedgedYieldBps: offeredHedged.Mul(bpsPerUnit).Round(2),
		FairHedgedYieldBps:    fairHedged.Mul(bpsPerUnit).Round(2),
		ExcessYieldBps:        excessBps.Round(2),
		FXHedgeCostBps:        fxCost.Mul(bpsPerUnit).Round(2),
		Assessment:            Assess(excessBps, th),
		Steps:                 steps,
		DataSource:            ctx.DataSource,
	}, nil
}
