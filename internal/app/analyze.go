package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	chart "github.com/wcharczuk/go-chart/v2"

	"bond-rv-analyzer/internal/engine"
	"bond-rv-analyzer/internal/service"
)

// AnalyzeOptions configure a one-shot batch run.
type AnalyzeOptions struct {
	InputPath string
	CSVPath   string
	PNGPath   string
}

// Analyze runs a bond batch from a JSON file and prints the results as
// a table, optionally exporting them as CSV and/or a PNG chart.
func (a *App) Analyze(ctx context.Context, opts AnalyzeOptions) error {
	if opts.InputPath == "" {
		return errors.New("input file is required")
	}

	raw, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var bonds []engine.Bond
	if err := json.Unmarshal(raw, &bonds); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if len(bonds) == 0 {
		return errors.New("input contains no bonds")
	}

	resolver, err := a.newResolver(ctx)
	if err != nil {
		return err
	}
	analyzer := service.New(a.Config, resolver, nil, a.Logger)

	outcomes := analyzer.AnalyzeBatch(ctx, bonds, nil)
	printOutcomes(os.Stdout, outcomes)

	if opts.CSVPath != "" {
		if err := writeResultsCSV(opts.CSVPath, outcomes); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("results exported as CSV")
	}
	if opts.PNGPath != "" {
		if err := writeResultsPNG(opts.PNGPath, outcomes); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.PNGPath).Msg("results exported as PNG")
	}
	return nil
}

func printOutcomes(out *os.File, outcomes []service.Outcome) {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Name\tCcy\tRating\tSector\tOffered(bps)\tFair(bps)\tExcess(bps)\tAssessment\tSource")

	for _, o := range outcomes {
		if o.Failed() {
			fmt.Fprintf(writer, "%s\t-\t-\t-\t-\t-\t-\t%s\t%s\n", o.Err.Name, o.Err.Assessment, o.Err.Error)
			continue
		}
		r := o.Result
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name,
			r.Currency,
			r.Rating,
			r.Sector,
			r.OfferedHedgedYieldBps.StringFixed(2),
			r.FairHedgedYieldBps.StringFixed(2),
			r.ExcessYieldBps.StringFixed(2),
			r.Assessment,
			r.DataSource,
		)
	}

	writer.Flush()
}

func writeResultsCSV(path string, outcomes []service.Outcome) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"name", "ccy", "rating", "sector", "offered_spread", "offered_hedged_yield_bps", "fair_hedged_yield_bps", "excess_yield_bps", "fx_hedge_cost_bps", "assessment", "data_source", "error"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, o := range outcomes {
		var record []string
		if o.Failed() {
			record = []string{o.Err.Name, "", "", "", "", "", "", "", "", string(o.Err.Assessment), "", o.Err.Error}
		} else {
			r := o.Result
			record = []string{
				r.Name,
				r.Currency,
				r.Rating,
				r.Sector,
				r.OfferedSpread,
				r.OfferedHedgedYieldBps.String(),
				r.FairHedgedYieldBps.String(),
				r.ExcessYieldBps.String(),
				r.FXHedgeCostBps.String(),
				string(r.Assessment),
				r.DataSource,
				"",
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// writeResultsPNG renders the excess yields as a bar chart, one bar per
// successfully analyzed bond.
func writeResultsPNG(path string, outcomes []service.Outcome) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var bars []chart.Value
	for _, o := range outcomes {
		if o.Failed() {
			continue
		}
		bars = append(bars, chart.Value{
			Label: o.Result.Name,
			Value: o.Result.ExcessYieldBps.InexactFloat64(),
		})
	}
	if len(bars) == 0 {
		return errors.New("no successful results to chart")
	}

	graph := chart.BarChart{
		Title:  "Excess Yield vs Fair Value (bps)",
		Width:  1280,
		Height: 720,
		Bars:   bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
