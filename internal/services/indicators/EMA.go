package indicators

import "math"

// CrossSignal represents EMA crossover status
type CrossSignal struct {
	Crossed   bool // Whether cross occurred
	Direction int  // 1 (bullish), -1 (bearish)
}

// EMA computes an exponential moving average aligned to values.
//
// The series is seeded with values[0] and smoothed with k = 2/(period+1).
// When the period cannot be computed (period <= 0 or longer than the input)
// every entry is NaN. A period of 1 is trivial smoothing and returns a copy
// of the input.
func EMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if !validateInputs(values, period) {
		fillNaN(out)
		return out
	}

	multiplier := getMultiplier(period)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = calculatePoint(values[i], out[i-1], multiplier)
	}
	return out
}

// CheckCrossover detects a crossover of fast over slow between bar i-1 and bar i.
// Any undefined operand means no cross.
func CheckCrossover(fastEMA, slowEMA []float64, i int) CrossSignal {
	if i < 1 || i >= len(fastEMA) || i >= len(slowEMA) {
		return CrossSignal{}
	}

	currFast, prevFast := fastEMA[i], fastEMA[i-1]
	currSlow, prevSlow := slowEMA[i], slowEMA[i-1]
	if anyNaN(currFast, prevFast, currSlow, prevSlow) {
		return CrossSignal{}
	}

	bullishCross := prevFast <= prevSlow && currFast > currSlow
	bearishCross := prevFast >= prevSlow && currFast < currSlow
	if !bullishCross && !bearishCross {
		return CrossSignal{}
	}

	direction := 1
	if bearishCross {
		direction = -1
	}

	return CrossSignal{
		Crossed:   true,
		Direction: direction,
	}
}

// Private helpers

func validateInputs(values []float64, period int) bool {
	return len(values) > 0 && period > 0 && period <= len(values)
}

func getMultiplier(period int) float64 {
	return 2.0 / float64(period+1)
}

func calculatePoint(price, prevEMA, multiplier float64) float64 {
	return (price-prevEMA)*multiplier + prevEMA
}

func fillNaN(out []float64) {
	for i := range out {
		out[i] = math.NaN()
	}
}

func anyNaN(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
