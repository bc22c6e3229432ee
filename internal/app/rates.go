package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
)

// ShowRates prints the market data tables currently in effect.
func (a *App) ShowRates(ctx context.Context) error {
	resolver, err := a.newResolver(ctx)
	if err != nil {
		return err
	}
	bundle, source := resolver.Snapshot()

	fmt.Fprintf(os.Stdout, "data source: %s\n\n", source)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(writer, "Benchmark\tRate")
	for _, code := range sortedKeys(bundle.BenchmarkRates) {
		fmt.Fprintf(writer, "%s\t%s\n", code, bundle.BenchmarkRates[code].StringFixed(4))
	}
	fmt.Fprintln(writer, "\nCurrency\tFunding Rate")
	for _, ccy := range sortedKeys(bundle.FundingRates) {
		fmt.Fprintf(writer, "%s\t%s\n", ccy, bundle.FundingRates[ccy].StringFixed(4))
	}
	fmt.Fprintln(writer, "\nTenor\tT Rate\tT-SOFR Spread")
	for _, tenor := range sortedKeys(bundle.SofrSpreads) {
		entry := bundle.SofrSpreads[tenor]
		fmt.Fprintf(writer, "%sY\t%s\t%s\n", tenor, entry.TRate.StringFixed(4), entry.TSofrSpread.StringFixed(4))
	}
	fmt.Fprintln(writer, "\nCurve\tRating\tTenor\tFair YTM")
	for _, curveKey := range sortedKeys(bundle.FairValueCurves) {
		curve := bundle.FairValueCurves[curveKey]
		for _, rating := range sortedKeys(curve) {
			for _, tenor := range sortedKeys(curve[rating]) {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", curveKey, rating, tenor, curve[rating][tenor].StringFixed(4))
			}
		}
	}

	return writer.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
