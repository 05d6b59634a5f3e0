// Package stats summarises engine decisions over one or many games.
package stats

import "math"

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Running keeps the mean and variance of a stream of values without
// storing them (Welford's method).
type Running struct {
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
}

func (r *Running) Add(v float64) {
	r.n++
	if r.n == 1 {
		r.min, r.max = v, v
	} else {
		r.min = math.Min(r.min, v)
		r.max = math.Max(r.max, v)
	}
	delta := v - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (v - r.mean)
}

func (r *Running) Count() int { return r.n }

func (r *Running) Mean() float64 { return r.mean }

func (r *Running) Min() float64 { return r.min }

func (r *Running) Max() float64 { return r.max }

// Variance is the sample variance.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

func (r *Running) Stdev() float64 {
	return math.Sqrt(r.Variance())
}

func (r *Running) StandardError() float64 {
	if r.n == 0 {
		return 0
	}
	return math.Sqrt(r.Variance() / float64(r.n))
}

// ConfidenceInterval returns the bounds of the mean at the given confidence
// level, in percent.
func (r *Running) ConfidenceInterval(pct float64) (float64, float64) {
	half := ZVal(pct) * r.StandardError()
	return r.mean - half, r.mean + half
}
