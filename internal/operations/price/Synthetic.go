package price

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"StrategyBacktester/internal/models"
)

const (
	syntheticBaseMin   = 1.0
	syntheticBaseRange = 0.5
	syntheticFloor     = 0.2
	syntheticReversion = 0.05 // pull toward base per day
	syntheticVol       = 0.01 // daily shock as a fraction of price
)

// SyntheticGenerator builds the degraded-mode random walk used when no real
// history is available. Output is deterministic for a given seed and pair.
type SyntheticGenerator struct {
	seed int64
}

func NewSyntheticGenerator(seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{seed: seed}
}

// Bars returns one bar per UTC calendar day in [start, end].
func (g *SyntheticGenerator) Bars(pair string, start, end time.Time) []models.PriceBar {
	day := truncateDay(start)
	last := truncateDay(end)
	if last.Before(day) {
		return nil
	}

	rng := rand.New(rand.NewSource(g.seed ^ pairHash(pair)))
	base := syntheticBaseMin + syntheticBaseRange*rng.Float64()
	price := base

	var bars []models.PriceBar
	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		bars = append(bars, models.PriceBar{Date: day.Format(models.DateLayout), Close: price})

		drift := (base - price) * syntheticReversion
		shock := rng.NormFloat64() * syntheticVol * price
		price = math.Max(syntheticFloor, price+drift+shock)
	}
	return bars
}

// FetchBars lets the generator sit at the end of a provider chain.
func (g *SyntheticGenerator) FetchBars(_ context.Context, pair string, start, end time.Time) (*Series, error) {
	return &Series{Pair: pair, Source: models.SourceSynthetic, Bars: g.Bars(pair, start, end)}, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func pairHash(pair string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(pair))
	return int64(h.Sum64())
}
