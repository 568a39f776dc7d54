package numfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ozwilder/xlconsolidate/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		format string
		want   model.FormatCategory
	}{
		{"0.00%", model.Percentage},
		{"[$-409]0.00%", model.Percentage},
		{"$#,##0.00", model.Currency},
		{"€#,##0.00", model.Currency},
		{"#,##0.00", model.Number},
		{"0.0000", model.Number},
		{"General", model.Number},
		{"mm/dd/yyyy", model.Date},
		{"yyyy-mm-dd", model.Date},
		{"", model.Other},
	}

	for _, c := range cases {
		t.Run(c.format, func(t *testing.T) {
			assert.Equal(t, c.want, Classify(c.format))
		})
	}
}

func TestClassify_NumberPatternVariants(t *testing.T) {
	assert.Equal(t, model.Number, Classify("#,##0.0000"))
	assert.Equal(t, model.Number, Classify("0.000"))
}

func TestBuiltinPattern(t *testing.T) {
	p, ok := BuiltinPattern(10)
	assert.True(t, ok)
	assert.Equal(t, "0.00%", p)

	_, ok = BuiltinPattern(9999)
	assert.False(t, ok)
}
