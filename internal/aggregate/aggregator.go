// Package aggregate implements the Aggregator: the single-writer reduction
// of source records into per-coordinate accumulators, including the
// zero-policy denominator bookkeeping for percentage means.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ozwilder/xlconsolidate/internal/model"
	"github.com/ozwilder/xlconsolidate/internal/source"
)

// Aggregator owns the reduction over a single run. It is not safe for
// concurrent use — callers funnel records through a single goroutine while
// source workers run in parallel ahead of it.
type Aggregator struct {
	tmpl               *model.TemplateModel
	excludeZeroPercent bool
	totalSources       int

	accumulators map[model.Coordinate]*model.Accumulator
	sourceLabels map[string]struct{}
}

// New returns an Aggregator for a run with totalSources source files,
// consulting tmpl for each coordinate's aggregation method.
func New(tmpl *model.TemplateModel, excludeZeroPercent bool, totalSources int) *Aggregator {
	return &Aggregator{
		tmpl:               tmpl,
		excludeZeroPercent: excludeZeroPercent,
		totalSources:       totalSources,
		accumulators:       make(map[model.Coordinate]*model.Accumulator),
		sourceLabels:       make(map[string]struct{}),
	}
}

// Add folds a single record into its coordinate's accumulator. A caller must
// not emit two records for the same (coord, source-label) from a single
// source file; additive merging across sources that happen to share a label
// is intended and handled here.
func (a *Aggregator) Add(rec source.Record) {
	a.sourceLabels[rec.Source] = struct{}{}

	acc, ok := a.accumulators[rec.Coord]
	if !ok {
		method := a.tmpl.FormatFor(rec.Coord).Category.AggregationMethod()
		acc = model.NewAccumulator(method)
		if method == model.Mean && !a.excludeZeroPercent {
			acc.Denominator = a.totalSources
		}
		a.accumulators[rec.Coord] = acc
	}

	acc.Total = acc.Total.Add(rec.Value)
	acc.Contributors[rec.Source] = acc.Contributors[rec.Source].Add(rec.Value)

	if acc.Method == model.Mean && a.excludeZeroPercent && !rec.Value.IsZero() {
		acc.Denominator++
	}
}

// Result is the read-only view of an accumulator the OutputWriter consumes.
type Result struct {
	Coord model.Coordinate
	Acc   *model.Accumulator
}

// Results returns every coordinate that received at least one contribution,
// in no particular order; callers needing Excel-natural ordering sort
// separately.
func (a *Aggregator) Results() []Result {
	out := make([]Result, 0, len(a.accumulators))
	for coord, acc := range a.accumulators {
		out = append(out, Result{Coord: coord, Acc: acc})
	}
	return out
}

// SourceLabels returns the full universe of distinct source labels seen
// across the run, sorted. The Contributions sheet iterates this universe
// for every coordinate group, not just actual contributors.
func (a *Aggregator) SourceLabels() []string {
	labels := make([]string, 0, len(a.sourceLabels))
	for label := range a.sourceLabels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Average computes total/denominator for a Mean accumulator. A zero
// denominator (no non-zero contribution under the exclude-zero policy)
// yields decimal.Zero rather than a division by zero.
func Average(acc *model.Accumulator) decimal.Decimal {
	if acc.Denominator == 0 {
		return decimal.Zero
	}
	return acc.Total.Div(decimal.NewFromInt(int64(acc.Denominator)))
}
