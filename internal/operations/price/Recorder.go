package price

import (
	"context"
	"time"

	"StrategyBacktester/internal/models"
)

// PriceStore is the persistence the price cache needs.
// repositories.PriceRepository satisfies it.
type PriceStore interface {
	CreateBatch(ctx context.Context, prices []models.Price) error
	GetPricesByTimeFrame(ctx context.Context, symbol, timeFrame string, start, end time.Time) ([]models.Price, error)
}

// PriceRecorder writes fetched candles to the store.
type PriceRecorder struct {
	store PriceStore
}

func NewPriceRecorder(store PriceStore) *PriceRecorder {
	return &PriceRecorder{store: store}
}

func (r *PriceRecorder) Record(ctx context.Context, prices []models.Price) error {
	return r.store.CreateBatch(ctx, prices)
}

// cacheSlack is how far the cached range may sit inside the requested range
// and still count as covering it.
const cacheSlack = 3 * 24 * time.Hour

// CacheProvider serves bars from the store when it covers the request.
type CacheProvider struct {
	store PriceStore
}

func NewCacheProvider(store PriceStore) *CacheProvider {
	return &CacheProvider{store: store}
}

func (c *CacheProvider) FetchBars(ctx context.Context, pair string, start, end time.Time) (*Series, error) {
	prices, err := c.store.GetPricesByTimeFrame(ctx, pair, models.PriceTimeFrame1d, start, end)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 ||
		prices[0].OpenTime.Sub(start) > cacheSlack ||
		end.Sub(prices[len(prices)-1].OpenTime) > cacheSlack {
		return nil, nil
	}

	bars := make([]models.PriceBar, len(prices))
	for i, p := range prices {
		bars[i] = p.ToBar()
	}
	return &Series{Pair: pair, Source: models.SourceCache, Bars: bars}, nil
}
