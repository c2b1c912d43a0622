// Package numeric provides defensive scalar validation for the analysis
// engine. Every boundary value passes through here so that NaN and Inf never
// propagate into derived metrics.
package numeric

import (
	"math"
)

// Options controls the validation policy applied by ValidateNumber.
type Options struct {
	AllowNegative bool
	DisallowZero  bool
	Min           float64
	Max           float64
}

// DefaultOptions permits any finite non-negative value.
func DefaultOptions() Options {
	return Options{
		AllowNegative: false,
		DisallowZero:  false,
		Min:           math.Inf(-1),
		Max:           math.Inf(1),
	}
}

// ValidateNumber returns v unchanged when it is finite and satisfies the
// policy in opts, otherwise returns def. It never panics. Callers should
// start from DefaultOptions; a zero-valued Options rejects everything but 0.
func ValidateNumber(v, def float64, opts Options) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	if !opts.AllowNegative && v < 0 {
		return def
	}
	if opts.DisallowZero && v == 0 {
		return def
	}
	if v < opts.Min || v > opts.Max {
		return def
	}
	return v
}

// Finite reports whether v is a usable finite float.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SafeDivide returns num/den, or def when the denominator is zero or either
// operand is non-finite.
func SafeDivide(num, den, def float64) float64 {
	if !Finite(num) || !Finite(den) || den == 0 {
		return def
	}
	return num / den
}

// Clamp restricts v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
