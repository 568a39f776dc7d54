package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozwilder/xlconsolidate/internal/model"
	"github.com/ozwilder/xlconsolidate/internal/source"
)

func newTemplate(coord model.Coordinate, category model.FormatCategory) *model.TemplateModel {
	return &model.TemplateModel{
		Coords:   map[model.Coordinate]struct{}{coord: {}},
		FormatOf: map[model.Coordinate]model.FormatInfo{coord: {Category: category}},
	}
}

func TestAggregator_Sum(t *testing.T) {
	coord := model.Coordinate{Col: 1, Row: 1}
	tmpl := newTemplate(coord, model.Currency)
	agg := New(tmpl, false, 2)

	agg.Add(source.Record{Coord: coord, Value: decimal.NewFromInt(10), Source: "a"})
	agg.Add(source.Record{Coord: coord, Value: decimal.NewFromInt(20), Source: "b"})

	results := agg.Results()
	require.Len(t, results, 1)
	assert.True(t, results[0].Acc.Total.Equal(decimal.NewFromInt(30)))
}

func TestAggregator_MeanIncludeZeros(t *testing.T) {
	coord := model.Coordinate{Col: 1, Row: 1}
	tmpl := newTemplate(coord, model.Percentage)
	agg := New(tmpl, false, 4)

	agg.Add(source.Record{Coord: coord, Value: decimal.NewFromInt(50), Source: "a"})
	agg.Add(source.Record{Coord: coord, Value: decimal.NewFromInt(100), Source: "b"})

	results := agg.Results()
	require.Len(t, results, 1)
	acc := results[0].Acc
	assert.Equal(t, 4, acc.Denominator)
	avg := Average(acc)
	assert.True(t, avg.Equal(decimal.NewFromFloat(37.5)), avg.String())
}

func TestAggregator_MeanExcludeZeros(t *testing.T) {
	coord := model.Coordinate{Col: 1, Row: 1}
	tmpl := newTemplate(coord, model.Percentage)
	agg := New(tmpl, true, 4)

	agg.Add(source.Record{Coord: coord, Value: decimal.Zero, Source: "a"})
	agg.Add(source.Record{Coord: coord, Value: decimal.NewFromInt(50), Source: "b"})
	agg.Add(source.Record{Coord: coord, Value: decimal.NewFromInt(100), Source: "c"})

	results := agg.Results()
	require.Len(t, results, 1)
	acc := results[0].Acc
	assert.Equal(t, 2, acc.Denominator)
	avg := Average(acc)
	assert.True(t, avg.Equal(decimal.NewFromFloat(75)), avg.String())
}

func TestAggregator_SourceLabelsAndAdditiveMerge(t *testing.T) {
	coord := model.Coordinate{Col: 1, Row: 1}
	tmpl := newTemplate(coord, model.Currency)
	agg := New(tmpl, false, 1)

	agg.Add(source.Record{Coord: coord, Value: decimal.NewFromInt(5), Source: "report"})
	agg.Add(source.Record{Coord: coord, Value: decimal.NewFromInt(7), Source: "report"})

	results := agg.Results()
	require.Len(t, results, 1)
	assert.True(t, results[0].Acc.Contributors["report"].Equal(decimal.NewFromInt(12)))
	assert.Equal(t, []string{"report"}, agg.SourceLabels())
}
