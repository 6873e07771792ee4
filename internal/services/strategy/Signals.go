package strategy

import "StrategyBacktester/internal/services/indicators"

const (
	momentumUp   = 1.002
	momentumDown = 0.998
)

type emaSignaler struct {
	fast, slow []float64
}

func (r EMACrossRule) Prepare(closes []float64) Signaler {
	return &emaSignaler{
		fast: indicators.EMA(closes, r.FastPeriod),
		slow: indicators.EMA(closes, r.SlowPeriod),
	}
}

func (s *emaSignaler) Buy(i int) bool {
	sig := indicators.CheckCrossover(s.fast, s.slow, i)
	return sig.Crossed && sig.Direction == 1
}

func (s *emaSignaler) Sell(i int) bool {
	sig := indicators.CheckCrossover(s.fast, s.slow, i)
	return sig.Crossed && sig.Direction == -1
}

type rsiSignaler struct {
	rule RSIRule
	rsi  []float64
}

func (r RSIRule) Prepare(closes []float64) Signaler {
	return &rsiSignaler{rule: r, rsi: indicators.RSI(closes, r.Period)}
}

func (s *rsiSignaler) Buy(i int) bool {
	return s.rule.BuyOnOversold && indicators.CrossedBelowOversold(s.rsi, i)
}

func (s *rsiSignaler) Sell(i int) bool {
	return s.rule.SellOnOverbought && i < len(s.rsi) && indicators.IsOverbought(s.rsi[i])
}

type momentumSignaler struct {
	closes []float64
}

func (MomentumRule) Prepare(closes []float64) Signaler {
	return &momentumSignaler{closes: closes}
}

func (s *momentumSignaler) Buy(i int) bool {
	if i < 1 || i >= len(s.closes) {
		return false
	}
	return s.closes[i] > s.closes[i-1]*momentumUp
}

func (s *momentumSignaler) Sell(i int) bool {
	if i < 1 || i >= len(s.closes) {
		return false
	}
	return s.closes[i] < s.closes[i-1]*momentumDown
}
