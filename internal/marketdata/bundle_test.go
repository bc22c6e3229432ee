package marketdata

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bond-rv-analyzer/internal/engine"
)

func TestFairYTMExactTenorWinsOverWildcard(t *testing.T) {
	bundle := Bundle{
		FairValueCurves: FairValueCurves{
			"CAD_TECH": {
				"AA": {
					"5":           d("0.0410"),
					WildcardTenor: d("0.0380"),
				},
			},
		},
	}

	ytm, err := bundle.FairYTM("cad", "tech", "aa", 5)
	if err != nil {
		t.Fatalf("FairYTM: %v", err)
	}
	if !ytm.Equal(d("0.0410")) {
		t.Fatalf("ytm = %s, want exact-tenor 0.0410", ytm)
	}

	ytm, err = bundle.FairYTM("CAD", "TECH", "AA", 7)
	if err != nil {
		t.Fatalf("FairYTM wildcard: %v", err)
	}
	if !ytm.Equal(d("0.0380")) {
		t.Fatalf("ytm = %s, want wildcard 0.0380", ytm)
	}
}

func TestFairYTMMissingEntry(t *testing.T) {
	bundle := Defaults()
	_, err := bundle.FairYTM("JPY", "TECH", "AA", 1)
	var missing *engine.MissingFairValueError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingFairValueError", err)
	}
	if missing.CurveKey != "JPY_TECH" {
		t.Fatalf("curve key = %s, want JPY_TECH", missing.CurveKey)
	}
}

func TestBenchmarkRateMissing(t *testing.T) {
	_, err := Defaults().BenchmarkRate("X")
	var missing *engine.MissingBenchmarkRateError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingBenchmarkRateError", err)
	}
}

func TestMergedWithFillsEmptySections(t *testing.T) {
	partial := Bundle{
		FundingRates: map[string]decimal.Decimal{"USD": d("0.052"), "CAD": d("0.046")},
	}
	merged := partial.MergedWith(Defaults())

	if !merged.FundingRates["USD"].Equal(d("0.052")) {
		t.Fatal("非空 section 不应被覆盖")
	}
	if len(merged.BenchmarkRates) == 0 || len(merged.SofrSpreads) == 0 || len(merged.FairValueCurves) == 0 {
		t.Fatal("empty sections should fall back wholesale")
	}
}

func TestDefaultsAreIndependentCopies(t *testing.T) {
	first := Defaults()
	first.FundingRates["USD"] = d("0.99")
	second := Defaults()
	if second.FundingRates["USD"].Equal(d("0.99")) {
		t.Fatal("Defaults must return fresh maps")
	}
}

func TestResolveContextSofrBenchmark(t *testing.T) {
	b := engine.Bond{Name: "x", CouponType: engine.CouponFloat, Currency: "USD", Tenor: 1, Rating: "AA", Sector: "TECH", SpreadText: "S+25bps"}
	cls := engine.Classification{Benchmark: engine.BenchmarkSOFR, Spread: d("0.0025")}

	ctx, err := ResolveContext(Defaults(), SourceConfig, b, cls)
	if err != nil {
		t.Fatalf("ResolveContext: %v", err)
	}
	// Benchmark rate for S is the derived swap rate: 0.0344-0.0025.
	if !ctx.BenchmarkRate.Equal(d("0.0319")) {
		t.Fatalf("benchmark rate = %s, want 0.0319", ctx.BenchmarkRate)
	}
	if ctx.DataSource != SourceConfig {
		t.Fatalf("data source = %s, want %s", ctx.DataSource, SourceConfig)
	}
}

func TestResolveContextMissingBenchmark(t *testing.T) {
	b := engine.Bond{Name: "x", CouponType: engine.CouponFixed, Currency: "USD", Tenor: 1, Rating: "AA", Sector: "TECH", SpreadText: "Q+10bps"}
	cls := engine.Classification{Benchmark: "Q", Spread: d("0.0010")}

	_, err := ResolveContext(Defaults(), SourceConfig, b, cls)
	var missing *engine.MissingBenchmarkRateError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingBenchmarkRateError", err)
	}
}
