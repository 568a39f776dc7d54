package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinateLess(t *testing.T) {
	a := Coordinate{Col: 1, Row: 5}
	b := Coordinate{Col: 2, Row: 1}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))

	c := Coordinate{Col: 1, Row: 1}
	assert.True(t, c.Less(a))
}

func TestRectMasterAndContains(t *testing.T) {
	r := Rect{MinCol: 2, MinRow: 2, MaxCol: 4, MaxRow: 3}
	assert.Equal(t, Coordinate{Col: 2, Row: 2}, r.Master())
	assert.True(t, r.Contains(Coordinate{Col: 3, Row: 3}))
	assert.False(t, r.Contains(Coordinate{Col: 5, Row: 2}))
}

func TestTemplateModel_FormatForDefault(t *testing.T) {
	m := &TemplateModel{FormatOf: map[Coordinate]FormatInfo{}}
	info := m.FormatFor(Coordinate{Col: 1, Row: 1})
	assert.Equal(t, Other, info.Category)
}

func TestTemplateModel_MergedMaster(t *testing.T) {
	m := &TemplateModel{
		MergedRanges: []Rect{{MinCol: 1, MinRow: 1, MaxCol: 2, MaxRow: 1}},
	}
	master, ok := m.MergedMaster(Coordinate{Col: 2, Row: 1})
	assert.True(t, ok)
	assert.Equal(t, Coordinate{Col: 1, Row: 1}, master)

	_, ok = m.MergedMaster(Coordinate{Col: 1, Row: 1})
	assert.False(t, ok)

	_, ok = m.MergedMaster(Coordinate{Col: 9, Row: 9})
	assert.False(t, ok)
}

func TestFormatCategory_AggregationMethod(t *testing.T) {
	assert.Equal(t, Mean, Percentage.AggregationMethod())
	assert.Equal(t, Sum, Currency.AggregationMethod())
	assert.Equal(t, Sum, Date.AggregationMethod())
	assert.Equal(t, Sum, Other.AggregationMethod())
}
