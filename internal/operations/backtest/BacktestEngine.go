// backtest/engine.go

package backtest

import (
	"context"
	"errors"
	"time"

	"StrategyBacktester/internal/models"
	"StrategyBacktester/internal/operations/price"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Request describes one backtest across one or more pairs.
type Request struct {
	Description string
	RiskText    string
	Pairs       []string
	StartTime   time.Time
	EndTime     time.Time
	Options     Options
}

// PairResult is a Result plus the bars it was computed from and their source.
type PairResult struct {
	*Result
	Source string
	Bars   []models.PriceBar
}

// PairMetrics is the per-pair row of a comparison.
type PairMetrics struct {
	Pair    string
	Source  string
	Trades  int
	Metrics Metrics
}

// Comparison is the output of a multi-pair run.
type Comparison struct {
	Comparisons     []PairMetrics
	WalkForward     []WindowResult
	WalkForwardPair string
	Results         []*PairResult
}

type Engine struct {
	provider  price.Provider
	synthetic *price.SyntheticGenerator
}

// NewEngine creates an engine. provider may be nil, in which case every
// pair runs on synthetic data.
func NewEngine(provider price.Provider, synthetic *price.SyntheticGenerator) *Engine {
	if synthetic == nil {
		synthetic = price.NewSyntheticGenerator(time.Now().UnixNano())
	}
	return &Engine{
		provider:  provider,
		synthetic: synthetic,
	}
}

// RunPair loads bars for pair and simulates the request on them. When nothing
// usable survives sanitizing it returns an empty result and
// price.ErrInsufficientData.
func (e *Engine) RunPair(ctx context.Context, req Request, pair string) (*PairResult, error) {
	series, err := e.loadSeries(ctx, pair, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	in := Input{
		Description: req.Description,
		RiskText:    req.RiskText,
		Pair:        pair,
		Options:     req.Options,
	}

	bars, err := price.Sanitize(series.Bars)
	if err != nil {
		log.Warn().Err(err).Str("pair", pair).Str("source", series.Source).Msg("no usable bars after filtering")
		return &PairResult{Result: Simulate(in), Source: series.Source}, err
	}
	in.Bars = bars

	log.Info().Str("pair", pair).Str("source", series.Source).Int("bars", len(bars)).Msg("running backtest")
	res := Simulate(in)
	log.Info().Str("pair", pair).Str("rule", res.Rule.String()).Int("trades", len(res.Trades)).
		Float64("total_return_pct", res.Metrics.TotalReturnPct).Msg("backtest complete")

	return &PairResult{Result: res, Source: series.Source, Bars: bars}, nil
}

// Compare runs every pair concurrently, then walks forward over the first
// pair that produced a result. Pairs without usable data are left out.
func (e *Engine) Compare(ctx context.Context, req Request) (*Comparison, error) {
	results := make([]*PairResult, len(req.Pairs))

	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range req.Pairs {
		i, pair := i, pair
		g.Go(func() error {
			res, err := e.RunPair(gctx, req, pair)
			if errors.Is(err, price.ErrInsufficientData) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := &Comparison{}
	for _, res := range results {
		if res == nil {
			continue
		}
		cmp.Results = append(cmp.Results, res)
		cmp.Comparisons = append(cmp.Comparisons, PairMetrics{
			Pair:    res.Pair,
			Source:  res.Source,
			Trades:  len(res.Trades),
			Metrics: res.Metrics,
		})
	}

	if len(cmp.Results) > 0 {
		first := cmp.Results[0]
		cmp.WalkForwardPair = first.Pair
		cmp.WalkForward = WalkForward(Input{
			Description: req.Description,
			RiskText:    req.RiskText,
			Pair:        first.Pair,
			Bars:        first.Bars,
			Options:     req.Options,
		})
		log.Info().Str("pair", first.Pair).Int("windows", len(cmp.WalkForward)).Msg("walk-forward complete")
	}

	return cmp, nil
}

// loadSeries asks the provider for history and degrades to synthetic bars
// when it reports ErrDataUnavailable.
func (e *Engine) loadSeries(ctx context.Context, pair string, start, end time.Time) (*price.Series, error) {
	if e.provider != nil {
		series, err := e.provider.FetchBars(ctx, pair, start, end)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err == nil && series != nil && len(series.Bars) > 0:
			return series, nil
		case err == nil || errors.Is(err, price.ErrDataUnavailable):
			log.Warn().Err(err).Str("pair", pair).Msg("historical data unavailable, using synthetic series")
		default:
			return nil, err
		}
	}

	return e.synthetic.FetchBars(ctx, pair, start, end)
}
