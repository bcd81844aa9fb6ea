package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed z-value for a confidence level given in
// percent; ZVal(95) is about 1.96.
func ZVal(confidence float64) float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	return dist.Quantile((1 + confidence/100) / 2)
}

// WinRateInterval is the normal-approximation confidence interval for a
// win proportion p over n games, clamped to [0, 1]. With no games played
// it returns the vacuous full interval.
func WinRateInterval(p float64, n int, confidence float64) (low, high float64) {
	if n == 0 {
		return 0, 1
	}
	half := ZVal(confidence) * math.Sqrt(p*(1-p)/float64(n))
	return math.Max(0, p-half), math.Min(1, p+half)
}
