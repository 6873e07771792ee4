package binance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrCircuitOpen is returned while the kline circuit breaker refuses calls.
var ErrCircuitOpen = errors.New("binance circuit open")

const (
	IntervalDaily = "1d"

	maxKlinesPerRequest = 500
	maxRetries          = 3
	tripAfterFailures   = 5
)

type BinanceClient struct {
	client      *futures.Client
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	httpClient  *http.Client
	backoff     time.Duration
}

// NewBinanceClient builds a rate limited futures client. baseURL may be empty
// to use the production endpoint.
func NewBinanceClient(apiKey, secretKey, baseURL string) *BinanceClient {
	// Create custom HTTP client with timeouts
	httpClient := &http.Client{
		Timeout: time.Second * 10,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	futuresClient := futures.NewClient(apiKey, secretKey)
	futuresClient.HTTPClient = httpClient
	if baseURL != "" {
		futuresClient.BaseURL = baseURL
	}

	// 10 requests per second with burst of 20
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "binance-klines",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfterFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &BinanceClient{
		client:      futuresClient,
		rateLimiter: limiter,
		breaker:     breaker,
		httpClient:  httpClient,
		backoff:     100 * time.Millisecond,
	}
}

func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, startTime, endTime int64) ([]*futures.Kline, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		out, err := c.breaker.Execute(func() (interface{}, error) {
			return c.client.NewKlinesService().
				Symbol(symbol).
				Interval(interval).
				StartTime(startTime).
				EndTime(endTime).
				Limit(maxKlinesPerRequest).
				Do(ctx)
		})
		if err == nil {
			return out.([]*futures.Kline), nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		lastErr = err

		if attempt == maxRetries {
			break
		}

		// Exponential backoff before the next attempt
		waitTime := time.Duration(math.Pow(2, float64(attempt))) * c.backoff
		log.Debug().Err(err).Str("symbol", symbol).Int("attempt", attempt+1).Dur("wait", waitTime).Msg("kline request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return nil, fmt.Errorf("klines %s %s: %w", symbol, interval, lastErr)
}

// GetDailyKlines returns the daily klines between start and end, paging in
// chunks of maxKlinesPerRequest days.
func (c *BinanceClient) GetDailyKlines(ctx context.Context, symbol string, start, end time.Time) ([]*futures.Kline, error) {
	var allKlines []*futures.Kline
	chunkSize := maxKlinesPerRequest * 24 * time.Hour

	for currentStart := start; currentStart.Before(end); {
		currentEnd := currentStart.Add(chunkSize)
		if currentEnd.After(end) {
			currentEnd = end
		}

		klines, err := c.GetKlines(ctx, symbol, IntervalDaily, currentStart.UnixMilli(), currentEnd.UnixMilli())
		if err != nil {
			return nil, err
		}

		allKlines = append(allKlines, klines...)
		currentStart = currentEnd
	}

	return allKlines, nil
}
