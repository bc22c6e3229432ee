package marketdata

import (
	"github.com/shopspring/decimal"

	"bond-rv-analyzer/internal/engine"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic("marketdata: bad default rate " + s)
	}
	return v
}

// Defaults returns the packaged fallback tables. Each call builds a
// fresh bundle so callers can never alias or mutate shared state.
func Defaults() Bundle {
	return Bundle{
		BenchmarkRates: map[string]decimal.Decimal{
			"T":  d("0.0344"), // 1Y US Treasury
			"G":  d("0.0320"), // 1Y Canadian Government
			"MS": d("0.0350"), // Mid-Swap
		},
		FundingRates: map[string]decimal.Decimal{
			"USD": d("0.0500"),
			"CAD": d("0.0450"),
			"EUR": d("0.0400"),
			"GBP": d("0.0425"),
		},
		SofrSpreads: map[string]engine.SofrSpreadEntry{
			"1":  {TRate: d("0.0344"), TSofrSpread: d("0.0025")},
			"5":  {TRate: d("0.0400"), TSofrSpread: d("0.0030")},
			"10": {TRate: d("0.0420"), TSofrSpread: d("0.0035")},
		},
		FairValueCurves: FairValueCurves{
			"USD_TECH": {
				"AAA": {WildcardTenor: d("0.0380")},
				"AA":  {WildcardTenor: d("0.0400")},
				"A":   {WildcardTenor: d("0.0420")},
				"BBB": {WildcardTenor: d("0.0450")},
			},
			"USD_ENERGY": {
				"AAA": {WildcardTenor: d("0.0375")},
				"AA":  {WildcardTenor: d("0.0395")},
				"A":   {WildcardTenor: d("0.0415")},
				"BBB": {WildcardTenor: d("0.0445")},
			},
			"USD_FINANCIALS": {
				"AAA": {WildcardTenor: d("0.0385")},
				"AA":  {WildcardTenor: d("0.0405")},
				"A":   {WildcardTenor: d("0.0425")},
				"BBB": {WildcardTenor: d("0.0455")},
			},
			"CAD_TECH": {
				"AAA": {WildcardTenor: d("0.0360")},
				"AA":  {WildcardTenor: d("0.0380")},
				"A":   {WildcardTenor: d("0.0400")},
				"BBB": {WildcardTenor: d("0.0430")},
			},
			"CAD_ENERGY": {
				"AAA": {WildcardTenor: d("0.0355")},
				"AA":  {WildcardTenor: d("0.0375")},
				"A":   {WildcardTenor: d("0.0395")},
				"BBB": {WildcardTenor: d("0.0425")},
			},
			"CAD_FINANCIALS": {
				"AAA": {WildcardTenor: d("0.0365")},
				"AA":  {WildcardTenor: d("0.0385")},
				"A":   {WildcardTenor: d("0.0405")},
				"BBB": {WildcardTenor: d("0.0435")},
			},
			"EUR_TECH": {
				"AAA": {WildcardTenor: d("0.0350")},
				"AA":  {WildcardTenor: d("0.0370")},
				"A":   {WildcardTenor: d("0.0390")},
				"BBB": {WildcardTenor: d("0.0420")},
			},
			"EUR_ENERGY": {
				"AAA": {WildcardTenor: d("0.0345")},
				"AA":  {WildcardTenor: d("0.0365")},
				"A":   {WildcardTenor: d("0.0385")},
				"BBB": {WildcardTenor: d("0.0415")},
			},
			"EUR_FINANCIALS": {
				"AAA": {WildcardTenor: d("0.0355")},
				"AA":  {WildcardTenor: d("0.0375")},
				"A":   {WildcardTenor: d("0.0395")},
				"BBB": {WildcardTenor: d("0.0425")},
			},
		},
	}
}
