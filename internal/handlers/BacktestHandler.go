package handlers

import (
	"context"
	"errors"
	"fmt"

	"StrategyBacktester/internal/models"
	"StrategyBacktester/internal/operations/backtest"
	"StrategyBacktester/internal/services/strategy"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNoStore is returned when stored runs are requested without a database.
var ErrNoStore = errors.New("backtest persistence is not configured")

// RunStore persists finished runs. repositories.BacktestRepository satisfies it.
type RunStore interface {
	Create(ctx context.Context, run *models.BacktestRun) error
	FindByRunID(ctx context.Context, runID string) ([]models.BacktestRun, error)
	FindLatestByPair(ctx context.Context, pair string) (*models.BacktestRun, error)
}

type BacktestHandler struct {
	engine *backtest.Engine
	runs   RunStore
}

// NewBacktestHandler wires an engine to an optional run store (nil disables persistence).
func NewBacktestHandler(engine *backtest.Engine, runs RunStore) *BacktestHandler {
	return &BacktestHandler{
		engine: engine,
		runs:   runs,
	}
}

// Run backtests a single pair and stores it under a fresh run id.
func (h *BacktestHandler) Run(ctx context.Context, req backtest.Request, pair string) (*backtest.PairResult, string, error) {
	res, err := h.engine.RunPair(ctx, req, pair)
	if err != nil {
		return res, "", err
	}

	runID := uuid.NewString()
	h.persist(ctx, runID, req, res)
	return res, runID, nil
}

// Compare backtests every pair in req and stores all of them under one run id.
func (h *BacktestHandler) Compare(ctx context.Context, req backtest.Request) (*backtest.Comparison, string, error) {
	cmp, err := h.engine.Compare(ctx, req)
	if err != nil {
		return nil, "", err
	}

	runID := uuid.NewString()
	h.persist(ctx, runID, req, cmp.Results...)
	return cmp, runID, nil
}

// Show loads every pair stored under runID.
func (h *BacktestHandler) Show(ctx context.Context, runID string) ([]models.BacktestRun, error) {
	if h.runs == nil {
		return nil, ErrNoStore
	}
	runs, err := h.runs.FindByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("find run %s: %w", runID, err)
	}
	return runs, nil
}

// Latest loads the most recent stored run for pair, or nil if there is none.
func (h *BacktestHandler) Latest(ctx context.Context, pair string) (*models.BacktestRun, error) {
	if h.runs == nil {
		return nil, ErrNoStore
	}
	run, err := h.runs.FindLatestByPair(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("find latest run for %s: %w", pair, err)
	}
	return run, nil
}

func (h *BacktestHandler) persist(ctx context.Context, runID string, req backtest.Request, results ...*backtest.PairResult) {
	if h.runs == nil {
		return
	}
	for _, res := range results {
		if err := h.runs.Create(ctx, ToRunModel(runID, req, res)); err != nil {
			log.Error().Err(err).Str("run_id", runID).Str("pair", res.Pair).Msg("error saving backtest run")
			continue
		}
		log.Debug().Str("run_id", runID).Str("pair", res.Pair).Msg("backtest run saved")
	}
}

// ToRunModel converts a pair result into its persisted form.
func ToRunModel(runID string, req backtest.Request, res *backtest.PairResult) *models.BacktestRun {
	run := &models.BacktestRun{
		RunID:       runID,
		Pair:        res.Pair,
		Description: req.Description,
		RiskText:    req.RiskText,
		RuleKind:    string(strategy.RuleKindMomentum),
		RiskFrac:    res.RiskFraction,
		Source:      res.Source,
		Bars:        len(res.Bars),

		Sharpe:         res.Metrics.Sharpe,
		MaxDrawdownPct: res.Metrics.MaxDrawdownPct,
		WinRatePct:     res.Metrics.WinRatePct,
		TotalReturnPct: res.Metrics.TotalReturnPct,
		ProfitFactor:   res.Metrics.ProfitFactor,
		TStatistic:     res.Metrics.TStatistic,
		PValue:         res.Metrics.PValue,
	}
	if res.Rule != nil {
		run.RuleKind = string(res.Rule.Kind())
	}

	run.Trades = make([]models.BacktestTrade, len(res.Trades))
	for i, t := range res.Trades {
		run.Trades[i] = models.BacktestTrade{
			Pair:       t.Pair,
			EntryDate:  t.EntryDate,
			ExitDate:   t.ExitDate,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			PnL:        t.PnL,
			ReturnPct:  t.ReturnPct,
		}
	}
	return run
}
