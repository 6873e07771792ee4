package price

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StrategyBacktester/internal/models"
)

var (
	// ErrDataUnavailable means no provider could supply bars for the request.
	ErrDataUnavailable = errors.New("historical data unavailable")

	// ErrInsufficientData means nothing usable remained after sanitizing.
	ErrInsufficientData = errors.New("insufficient price data")
)

// Series is an ordered bar sequence plus where it came from.
type Series struct {
	Pair   string
	Source string
	Bars   []models.PriceBar
}

// Provider supplies daily bars for a pair over [start, end].
type Provider interface {
	FetchBars(ctx context.Context, pair string, start, end time.Time) (*Series, error)
}

// ChainProvider asks each provider in turn and returns the first non-empty series.
type ChainProvider struct {
	providers []Provider
}

func NewChainProvider(providers ...Provider) *ChainProvider {
	return &ChainProvider{providers: providers}
}

func (c *ChainProvider) FetchBars(ctx context.Context, pair string, start, end time.Time) (*Series, error) {
	var errs []error
	for _, p := range c.providers {
		series, err := p.FetchBars(ctx, pair, start, end)
		if err == nil && series != nil && len(series.Bars) > 0 {
			return series, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s: no bars", ErrDataUnavailable, pair)
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, pair, errors.Join(errs...))
}
