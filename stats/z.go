package stats

import "gonum.org/v1/gonum/stat/distuv"

var unitNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ZVal is the two-tailed z-score for a confidence level given in percent.
func ZVal(pct float64) float64 {
	return unitNormal.Quantile((1 + pct/100) / 2)
}
