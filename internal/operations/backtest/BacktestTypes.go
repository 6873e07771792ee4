// backtest/types.go

package backtest

import (
	"StrategyBacktester/internal/models"
	"StrategyBacktester/internal/services/strategy"
)

const (
	InitialEquity    = 10000.0
	DefaultMaxTrades = 1000
	DefaultCostPct   = 0.05 // percent per round trip
)

// Options tunes a single simulation.
type Options struct {
	MaxTrades     int
	CostPct       float64 // transaction cost in percent, 0.05 = 0.05%
	InitialEquity float64
}

// NewOptions returns the default options.
func NewOptions() Options {
	return Options{
		MaxTrades:     DefaultMaxTrades,
		CostPct:       DefaultCostPct,
		InitialEquity: InitialEquity,
	}
}

// normalized replaces unusable values with defaults. A zero CostPct is kept.
func (o Options) normalized() Options {
	if o.MaxTrades <= 0 {
		o.MaxTrades = DefaultMaxTrades
	}
	if o.CostPct < 0 {
		o.CostPct = DefaultCostPct
	}
	if o.InitialEquity <= 0 {
		o.InitialEquity = InitialEquity
	}
	return o
}

// Input is everything one simulation needs.
type Input struct {
	Description string
	RiskText    string
	Pair        string
	Bars        []models.PriceBar
	Options     Options
}

// Core trade record
type Trade struct {
	Pair       string
	EntryDate  string
	ExitDate   string
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	ReturnPct  float64
}

// For tracking equity changes
type EquityPoint struct {
	Date   string
	Equity float64
}

// Metrics is the performance bundle for one run. ProfitFactor is capped at
// statistics.ProfitFactorCap instead of +Inf.
type Metrics struct {
	Sharpe         float64
	MaxDrawdownPct float64
	WinRatePct     float64
	TotalReturnPct float64
	ProfitFactor   float64
	TStatistic     float64
	PValue         float64
}

// Result is the output of a single-pair simulation.
type Result struct {
	Pair          string
	Rule          strategy.Rule
	RiskFraction  float64
	InitialEquity float64
	EquityCurve   []EquityPoint
	Trades        []Trade
	Metrics       Metrics
}

// FinalEquity is the last equity value, or the initial equity for an empty curve.
func (r *Result) FinalEquity() float64 {
	if len(r.EquityCurve) == 0 {
		return r.InitialEquity
	}
	return r.EquityCurve[len(r.EquityCurve)-1].Equity
}

// WindowResult summarises one walk-forward test window.
type WindowResult struct {
	Window    int // 1-based
	Trades    int
	ReturnPct float64
	Sharpe    float64
}
