package backtest

import (
	"StrategyBacktester/internal/models"
	"StrategyBacktester/internal/services/strategy"

	"github.com/rs/zerolog/log"
)

type side int

const (
	sideFlat side = iota
	sideLong
)

type position struct {
	side       side
	entryPrice float64
	entryIndex int
}

// simState is the per-run accumulator. It never outlives one Simulate call.
type simState struct {
	pair     string
	bars     []models.PriceBar
	fraction float64
	cost     float64 // fraction, not percent

	pos    position
	equity float64
	trades []Trade
	curve  []EquityPoint
}

// Simulate replays bars through the rule derived from the description and
// returns the trade log, equity curve and metrics. It holds at most one long
// position, and a position still open at the last bar is closed there.
func Simulate(in Input) *Result {
	opts := in.Options.normalized()
	rule := strategy.DeriveRule(in.Description)

	st := &simState{
		pair:     in.Pair,
		bars:     in.Bars,
		fraction: strategy.ParseRiskFraction(in.RiskText),
		cost:     opts.CostPct / 100,
		equity:   opts.InitialEquity,
	}

	if len(in.Bars) > 1 {
		st.run(rule.Prepare(closes(in.Bars)), opts.MaxTrades)
	}

	return &Result{
		Pair:          in.Pair,
		Rule:          rule,
		RiskFraction:  st.fraction,
		InitialEquity: opts.InitialEquity,
		EquityCurve:   st.curve,
		Trades:        st.trades,
		Metrics:       CalculateMetrics(st.trades, st.curve, opts.InitialEquity),
	}
}

func (st *simState) run(signals strategy.Signaler, maxTrades int) {
	last := len(st.bars) - 1

	for i := 1; i <= last; i++ {
		switch st.pos.side {
		case sideFlat:
			if signals.Buy(i) {
				st.open(i)
			}
		case sideLong:
			if signals.Sell(i) {
				st.close(i)
			}
		}

		st.curve = append(st.curve, EquityPoint{Date: st.bars[i].Date, Equity: st.equity})

		if len(st.trades) >= maxTrades {
			log.Debug().Str("pair", st.pair).Int("max_trades", maxTrades).Str("date", st.bars[i].Date).
				Msg("trade cap reached, stopping simulation")
			return
		}
	}

	if st.pos.side == sideLong {
		st.close(last)
		st.curve[len(st.curve)-1].Equity = st.equity
	}
}

func (st *simState) open(i int) {
	st.pos = position{
		side:       sideLong,
		entryPrice: st.bars[i].Close,
		entryIndex: i,
	}
}

func (st *simState) close(i int) {
	exit := st.bars[i].Close
	gross := (exit - st.pos.entryPrice) / st.pos.entryPrice
	net := gross - st.cost
	pnl := st.equity * st.fraction * net

	st.trades = append(st.trades, Trade{
		Pair:       st.pair,
		EntryDate:  st.bars[st.pos.entryIndex].Date,
		ExitDate:   st.bars[i].Date,
		EntryPrice: st.pos.entryPrice,
		ExitPrice:  exit,
		PnL:        pnl,
		ReturnPct:  net * 100,
	})

	st.equity += pnl
	if st.equity < 0 {
		st.equity = 0
	}
	st.pos = position{}
}

func closes(bars []models.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
