package strategy

import "fmt"

// RuleKind names the variant of a derived Rule.
type RuleKind string

const (
	RuleKindRSI      RuleKind = "rsi"
	RuleKindEMACross RuleKind = "ema_cross"
	RuleKindMomentum RuleKind = "momentum"
)

// Rule is the closed set of executable rules a description can map to.
// Implementations: RSIRule, EMACrossRule, MomentumRule.
type Rule interface {
	Kind() RuleKind
	String() string

	// Prepare computes whatever indicator series the rule needs over closes.
	Prepare(closes []float64) Signaler

	isRule()
}

// Signaler answers entry/exit questions for bar i of the series it was prepared on.
type Signaler interface {
	Buy(i int) bool
	Sell(i int) bool
}

// RSIRule buys when RSI crosses below the oversold level and sells above overbought.
type RSIRule struct {
	Period           int
	BuyOnOversold    bool
	SellOnOverbought bool
}

// EMACrossRule buys on a fast-over-slow cross and sells on the reverse.
type EMACrossRule struct {
	FastPeriod int
	SlowPeriod int
}

// MomentumRule is the fallback when no pattern was recognized.
type MomentumRule struct{}

func (RSIRule) Kind() RuleKind      { return RuleKindRSI }
func (EMACrossRule) Kind() RuleKind { return RuleKindEMACross }
func (MomentumRule) Kind() RuleKind { return RuleKindMomentum }

func (RSIRule) isRule()      {}
func (EMACrossRule) isRule() {}
func (MomentumRule) isRule() {}

func (r RSIRule) String() string {
	return fmt.Sprintf("RSI(%d) buyOversold=%t sellOverbought=%t", r.Period, r.BuyOnOversold, r.SellOnOverbought)
}

func (r EMACrossRule) String() string {
	return fmt.Sprintf("EMA(%d)/EMA(%d) cross", r.FastPeriod, r.SlowPeriod)
}

func (MomentumRule) String() string {
	return "momentum fallback"
}

// StrategyRule is the flat record view of a Rule, used for reporting.
type StrategyRule struct {
	UsesRSI          bool
	RSIPeriod        int
	BuyOnOversold    bool
	SellOnOverbought bool
	UsesEMACross     bool
	EMAFastPeriod    int
	EMASlowPeriod    int
}

// Describe flattens a Rule. Unused periods carry their defaults so every
// period field stays positive.
func Describe(r Rule) StrategyRule {
	out := StrategyRule{
		RSIPeriod:     DefaultRSIPeriod,
		EMAFastPeriod: DefaultEMAFast,
		EMASlowPeriod: DefaultEMASlow,
	}
	switch v := r.(type) {
	case RSIRule:
		out.UsesRSI = true
		out.RSIPeriod = v.Period
		out.BuyOnOversold = v.BuyOnOversold
		out.SellOnOverbought = v.SellOnOverbought
	case EMACrossRule:
		out.UsesEMACross = true
		out.EMAFastPeriod = v.FastPeriod
		out.EMASlowPeriod = v.SlowPeriod
	}
	return out
}
