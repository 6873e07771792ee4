package indicators

import "math"

// DefaultRSIPeriod is used when a caller passes a non-positive period.
const DefaultRSIPeriod = 14

const (
	OverboughtLevel = 70.0
	OversoldLevel   = 30.0
)

// RSI computes the Relative Strength Index with Wilder's smoothing.
// The first period entries are NaN; a zero average loss yields 100.
func RSI(values []float64, period int) []float64 {
	if period <= 0 {
		period = DefaultRSIPeriod
	}

	out := make([]float64, len(values))
	fillNaN(out)
	if len(values) < period+1 {
		return out
	}

	// Seed with the simple average of the first period changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := splitChange(values[i] - values[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < len(values); i++ {
		gain, loss := splitChange(values[i] - values[i-1])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

// IsOverbought reports whether a defined RSI value is above the overbought level.
func IsOverbought(v float64) bool {
	return !math.IsNaN(v) && v > OverboughtLevel
}

// CrossedBelowOversold reports whether RSI moved from at/above the oversold
// level at i-1 to below it at i.
func CrossedBelowOversold(rsi []float64, i int) bool {
	if i < 1 || i >= len(rsi) || anyNaN(rsi[i], rsi[i-1]) {
		return false
	}
	return rsi[i-1] >= OversoldLevel && rsi[i] < OversoldLevel
}

func splitChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, math.Abs(change)
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
