package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNumber(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		def      float64
		opts     Options
		expected float64
	}{
		{
			name:     "finite value passes through",
			value:    42.5,
			def:      0,
			opts:     DefaultOptions(),
			expected: 42.5,
		},
		{
			name:     "NaN returns default",
			value:    math.NaN(),
			def:      7,
			opts:     DefaultOptions(),
			expected: 7,
		},
		{
			name:     "positive infinity returns default",
			value:    math.Inf(1),
			def:      1,
			opts:     DefaultOptions(),
			expected: 1,
		},
		{
			name:     "negative infinity returns default",
			value:    math.Inf(-1),
			def:      1,
			opts:     DefaultOptions(),
			expected: 1,
		},
		{
			name:     "negative rejected by default",
			value:    -3,
			def:      0,
			opts:     DefaultOptions(),
			expected: 0,
		},
		{
			name:  "negative allowed when opted in",
			value: -3,
			def:   0,
			opts: func() Options {
				o := DefaultOptions()
				o.AllowNegative = true
				return o
			}(),
			expected: -3,
		},
		{
			name:     "zero allowed by default",
			value:    0,
			def:      9,
			opts:     DefaultOptions(),
			expected: 0,
		},
		{
			name:  "zero rejected when disallowed",
			value: 0,
			def:   9,
			opts: func() Options {
				o := DefaultOptions()
				o.DisallowZero = true
				return o
			}(),
			expected: 9,
		},
		{
			name:  "out of range returns default",
			value: 150,
			def:   100,
			opts: func() Options {
				o := DefaultOptions()
				o.Min = 0
				o.Max = 100
				return o
			}(),
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateNumber(tt.value, tt.def, tt.opts))
		})
	}
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.0, SafeDivide(10, 5, 0))
	assert.Equal(t, 99.0, SafeDivide(10, 0, 99))
	assert.Equal(t, 99.0, SafeDivide(math.NaN(), 5, 99))
	assert.Equal(t, 99.0, SafeDivide(10, math.Inf(1), 99))
	assert.Equal(t, -2.0, SafeDivide(-10, 5, 0))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(0))
	assert.True(t, Finite(-1.5))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(1)))
	assert.False(t, Finite(math.Inf(-1)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, Clamp(-2, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
}
