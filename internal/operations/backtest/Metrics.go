package backtest

import (
	"math"

	"StrategyBacktester/internal/services/statistics"
)

const tradingDaysPerYear = 252

// CalculateMetrics derives the metrics bundle from a trade log and equity curve.
func CalculateMetrics(trades []Trade, curve []EquityPoint, initialEquity float64) Metrics {
	returns := barReturns(curve)
	tStat, pValue := statistics.TTest(returns)

	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.PnL
	}

	final := initialEquity
	if len(curve) > 0 {
		final = curve[len(curve)-1].Equity
	}
	totalReturn := 0.0
	if initialEquity > 0 {
		totalReturn = (final/initialEquity - 1) * 100
	}

	return Metrics{
		Sharpe:         sharpeRatio(returns),
		MaxDrawdownPct: maxDrawdownPct(curve, initialEquity),
		WinRatePct:     winRatePct(trades),
		TotalReturnPct: totalReturn,
		ProfitFactor:   statistics.ProfitFactor(pnls),
		TStatistic:     tStat,
		PValue:         pValue,
	}
}

// barReturns is the per-point simple return of the curve; the first is 0.
func barReturns(curve []EquityPoint) []float64 {
	returns := make([]float64, len(curve))
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev <= 0 {
			continue
		}
		returns[i] = (curve[i].Equity - prev) / prev
	}
	return returns
}

func sharpeRatio(returns []float64) float64 {
	std := statistics.StdDev(returns)
	if std == 0 {
		return 0
	}
	return statistics.Mean(returns) * math.Sqrt(tradingDaysPerYear) / std
}

func maxDrawdownPct(curve []EquityPoint, initialEquity float64) float64 {
	peak := initialEquity
	maxDrawdown := 0.0
	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - point.Equity) / peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return math.Min(maxDrawdown*100, 100)
}

func winRatePct(trades []Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.PnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades)) * 100
}
