// Package statistics holds the small numeric toolkit behind the backtest
// metrics. Everything here is closed-form so results are reproducible.
package statistics

import "math"

// ProfitFactorCap replaces +Inf when there are winning trades but no losses.
const ProfitFactorCap = 9999.0

// Abramowitz & Stegun 7.1.26 coefficients.
const (
	asP  = 0.3275911
	asA1 = 0.254829592
	asA2 = -0.284496736
	asA3 = 1.421413741
	asA4 = -1.453152027
	asA5 = 1.061405429
)

// Mean returns the arithmetic mean, 0 for an empty series.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation, 0 for an empty series.
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	variance := 0.0
	for _, x := range xs {
		variance += (x - m) * (x - m)
	}
	return math.Sqrt(variance / float64(len(xs)))
}

// ProfitFactor is gross profit over gross loss. With no losses it is
// ProfitFactorCap, unless there were no trades at all, in which case it is 0.
func ProfitFactor(pnls []float64) float64 {
	if len(pnls) == 0 {
		return 0
	}
	var grossProfit, grossLoss float64
	for _, p := range pnls {
		if p > 0 {
			grossProfit += p
		} else if p < 0 {
			grossLoss += -p
		}
	}
	if grossLoss == 0 {
		return ProfitFactorCap
	}
	return grossProfit / grossLoss
}

// Erf approximates the error function (A&S 7.1.26, |error| < 1.5e-7).
func Erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1
		x = -x
	}
	t := 1 / (1 + asP*x)
	y := 1 - (((((asA5*t+asA4)*t)+asA3)*t+asA2)*t+asA1)*t*math.Exp(-x*x)
	return sign * y
}

// NormalCDF is the standard normal cumulative distribution built on Erf.
func NormalCDF(x float64) float64 {
	return 0.5 * (1 + Erf(x/math.Sqrt2))
}

// TTest returns the one-sample t-statistic of returns against zero and its
// two-sided p-value under a normal approximation. t is 0 when n < 2 or the
// series has no variance, which gives p ≈ 1.
func TTest(returns []float64) (t, p float64) {
	n := len(returns)
	if n >= 2 {
		if std := StdDev(returns); std > 0 {
			t = Mean(returns) / (std / math.Sqrt(float64(n)))
		}
	}
	p = 2 * (1 - NormalCDF(math.Abs(t)))
	return t, clamp(p, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return hi
	}
	return math.Max(lo, math.Min(hi, v))
}
