package price

import (
	"math"
	"sort"

	"StrategyBacktester/internal/models"
)

// Sanitize drops bars with non-finite or non-positive closes, sorts by date
// and keeps the last bar for any duplicated date. The input is not modified.
func Sanitize(bars []models.PriceBar) ([]models.PriceBar, error) {
	clean := make([]models.PriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Date == "" || math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
			continue
		}
		clean = append(clean, b)
	}

	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Date < clean[j].Date
	})

	out := clean[:0]
	for _, b := range clean {
		if n := len(out); n > 0 && out[n-1].Date == b.Date {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}

	if len(out) == 0 {
		return nil, ErrInsufficientData
	}
	return out, nil
}
