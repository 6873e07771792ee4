package strategy

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultRSIPeriod = 14
	DefaultEMAFast   = 9
	DefaultEMASlow   = 21
)

var (
	rsiPeriodPattern = regexp.MustCompile(`rsi\s*\(\s*(\d+)\s*\)`)
	emaPeriodPattern = regexp.MustCompile(`ema\s*\(?\s*(\d+)`)

	oversoldPhrases   = []string{"below 30", "< 30"}
	overboughtPhrases = []string{"above 70", "> 70"}
)

// DeriveRule maps a free-text strategy description onto one of the supported
// rule variants using keyword matching. EMA cross wins over RSI when both
// keywords appear; anything unrecognized falls back to momentum.
func DeriveRule(description string) Rule {
	text := strings.ToLower(description)

	if strings.Contains(text, "ema") && strings.Contains(text, "cross") {
		fast, slow := emaPeriods(text)
		return EMACrossRule{FastPeriod: fast, SlowPeriod: slow}
	}

	if strings.Contains(text, "rsi") {
		buy := containsAny(text, oversoldPhrases)
		sell := containsAny(text, overboughtPhrases)
		if !buy && !sell {
			buy, sell = true, true
		}
		return RSIRule{
			Period:           rsiPeriod(text),
			BuyOnOversold:    buy,
			SellOnOverbought: sell,
		}
	}

	return MomentumRule{}
}

func rsiPeriod(text string) int {
	m := rsiPeriodPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultRSIPeriod
	}
	if p, err := strconv.Atoi(m[1]); err == nil && p > 0 {
		return p
	}
	return DefaultRSIPeriod
}

func emaPeriods(text string) (fast, slow int) {
	var periods []int
	for _, m := range emaPeriodPattern.FindAllStringSubmatch(text, -1) {
		if p, err := strconv.Atoi(m[1]); err == nil && p > 0 {
			periods = append(periods, p)
		}
		if len(periods) == 2 {
			break
		}
	}
	if len(periods) < 2 || periods[0] == periods[1] {
		return DefaultEMAFast, DefaultEMASlow
	}
	sort.Ints(periods)
	return periods[0], periods[1]
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
