package price

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"StrategyBacktester/internal/models"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/rs/zerolog/log"
)

// KlineSource is the subset of the Binance client the fetcher needs.
type KlineSource interface {
	GetDailyKlines(ctx context.Context, symbol string, start, end time.Time) ([]*futures.Kline, error)
}

// PriceFetcher pulls daily klines from Binance and optionally records them.
type PriceFetcher struct {
	client   KlineSource
	recorder *PriceRecorder
}

// NewPriceFetcher creates a fetcher; recorder may be nil.
func NewPriceFetcher(client KlineSource, recorder *PriceRecorder) *PriceFetcher {
	return &PriceFetcher{
		client:   client,
		recorder: recorder,
	}
}

func (f *PriceFetcher) FetchBars(ctx context.Context, pair string, start, end time.Time) (*Series, error) {
	klines, err := f.client.GetDailyKlines(ctx, pair, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s klines: %w", ErrDataUnavailable, pair, err)
	}

	prices := make([]models.Price, 0, len(klines))
	for _, k := range klines {
		prices = append(prices, models.Price{
			Symbol:     pair,
			TimeFrame:  models.PriceTimeFrame1d,
			OpenTime:   time.UnixMilli(k.OpenTime).UTC(),
			CloseTime:  time.UnixMilli(k.CloseTime).UTC(),
			Open:       parseFloat(k.Open),
			High:       parseFloat(k.High),
			Low:        parseFloat(k.Low),
			Close:      parseFloat(k.Close),
			Volume:     parseFloat(k.Volume),
			TradeCount: k.TradeNum,
		})
	}

	log.Info().Str("symbol", pair).Int("candles", len(prices)).
		Str("from", start.Format(models.DateLayout)).Str("to", end.Format(models.DateLayout)).
		Msg("fetched daily candles")

	if f.recorder != nil && len(prices) > 0 {
		if err := f.recorder.Record(ctx, prices); err != nil {
			// cache is best effort
			log.Warn().Err(err).Str("symbol", pair).Msg("failed to cache candles")
		}
	}

	bars := make([]models.PriceBar, len(prices))
	for i, p := range prices {
		bars[i] = p.ToBar()
	}
	return &Series{Pair: pair, Source: models.SourceBinance, Bars: bars}, nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Debug().Err(err).Str("value", s).Msg("error parsing float")
		return 0
	}
	return f
}
