// Package stats carries the running statistics the solver and the
// tournament report: online mean and variance, and normal-approximation
// confidence intervals.
package stats

import "math"

// Statistic accumulates samples one at a time with Welford's algorithm,
// so callers never hold the sample list just to get a mean. The zero
// value is ready to use.
type Statistic struct {
	n    int
	mean float64
	m2   float64
}

// Push adds one sample.
func (s *Statistic) Push(v float64) {
	s.n++
	delta := v - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (v - s.mean)
}

// Iterations is the number of samples pushed so far.
func (s *Statistic) Iterations() int { return s.n }

// Mean of all samples, zero before the first push.
func (s *Statistic) Mean() float64 { return s.mean }

// Variance is the unbiased sample variance, zero below two samples.
func (s *Statistic) Variance() float64 {
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

// Stdev is the sample standard deviation.
func (s *Statistic) Stdev() float64 { return math.Sqrt(s.Variance()) }

// StandardError of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}
