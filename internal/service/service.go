// Package service orchestrates batch bond analysis: it builds the
// pairing index, classifies each bond, resolves its market context, and
// runs the normalisation engine, isolating each bond's failure from its
// siblings.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"bond-rv-analyzer/internal/config"
	"bond-rv-analyzer/internal/engine"
	"bond-rv-analyzer/internal/marketdata"
	"bond-rv-analyzer/internal/metrics"
)

// ErrorRecord is the bond-scoped failure shape surfaced to callers.
type ErrorRecord struct {
	Name       string            `json:"name"`
	Error      string            `json:"error"`
	Assessment engine.Assessment `json:"assessment"`
}

// Outcome is one bond's analysis: exactly one of Result or Err is set.
type Outcome struct {
	Result *engine.CalculationResult
	Err    *ErrorRecord
}

// Failed reports whether this bond's analysis aborted.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// MarshalJSON renders whichever side of the outcome is populated, so a
// batch serialises as a heterogeneous list of results and error records.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != nil {
		return json.Marshal(o.Err)
	}
	if o.Result != nil {
		return json.Marshal(o.Result)
	}
	return nil, fmt.Errorf("outcome has neither result nor error")
}

// Analyzer runs batches through the normalisation engine.
type Analyzer struct {
	resolver   *marketdata.Resolver
	thresholds engine.Thresholds
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// New constructs the batch analyzer.
func New(cfg *config.Config, resolver *marketdata.Resolver, m *metrics.Metrics, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		resolver:   resolver,
		thresholds: cfg.Analysis.Thresholds(),
		metrics:    m,
		logger:     logger.With().Str("component", "analyzer").Logger(),
	}
}

type contextFunc func(engine.Bond, engine.Classification) (engine.MarketContext, error)

// AnalyzeBatch processes bonds sequentially, one outcome per bond in
// input order. A non-empty override bundle replaces the resolver's
// tables for this batch only; its empty sections fall back to the
// resolver's snapshot.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, bonds []engine.Bond, override *marketdata.Bundle) []Outcome {
	resolve := a.resolver.Context
	if override != nil && !override.Empty() {
		base, _ := a.resolver.Snapshot()
		merged := override.MergedWith(base)
		resolve = func(b engine.Bond, cls engine.Classification) (engine.MarketContext, error) {
			return marketdata.ResolveContext(merged, marketdata.SourceRequest, b, cls)
		}
	}

	// The pairing index needs the full batch before any bond resolves.
	idx := engine.BuildPairingIndex(bonds)

	outcomes := make([]Outcome, 0, len(bonds))
	for i := range bonds {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, errorOutcome(bonds[i], err))
			continue
		}
		outcome := a.analyzeOne(bonds[i], idx, resolve)
		if outcome.Failed() {
			a.metrics.RecordError()
			a.logger.Warn().Str("bond", outcome.Err.Name).Str("error", outcome.Err.Error).Msg("bond analysis failed")
		} else {
			a.metrics.RecordOutcome(string(outcome.Result.Assessment))
			a.logger.Info().
				Str("bond", outcome.Result.Name).
				Str("assessment", string(outcome.Result.Assessment)).
				Str("excess_yield_bps", outcome.Result.ExcessYieldBps.String()).
				Msg("bond analyzed")
		}
		outcomes = append(outcomes, outcome)
	}

	a.metrics.RecordBatch()
	return outcomes
}

func (a *Analyzer) analyzeOne(b engine.Bond, idx *engine.PairingIndex, resolve contextFunc) Outcome {
	if b.Tenor <= 0 {
		return errorOutcome(b, &engine.CalculationError{Bond: b.Name, Err: fmt.Errorf("tenor must be a positive number of years, got %d", b.Tenor)})
	}

	cls, err := engine.Classify(b, idx)
	if err != nil {
		return errorOutcome(b, err)
	}

	mc, err := resolve(b, cls)
	if err != nil {
		return errorOutcome(b, err)
	}

	result, err := engine.Normalize(b, cls, mc, a.thresholds)
	if err != nil {
		return errorOutcome(b, err)
	}

	return Outcome{Result: &result}
}

func errorOutcome(b engine.Bond, err error) Outcome {
	name := b.Name
	if name == "" {
		name = "N/A"
	}
	return Outcome{Err: &ErrorRecord{
		Name:       name,
		Error:      err.Error(),
		Assessment: engine.AssessmentError,
	}}
}
