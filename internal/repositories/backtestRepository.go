package repositories

import (
	"context"
	"errors"

	"StrategyBacktester/internal/models"

	"gorm.io/gorm"
)

type BacktestRepository struct {
	db *gorm.DB
}

// NewBacktestRepository creates a new instance of BacktestRepository
func NewBacktestRepository(db *gorm.DB) *BacktestRepository {
	return &BacktestRepository{db: db}
}

// Create stores a run together with its trades in one transaction.
func (r *BacktestRepository) Create(ctx context.Context, run *models.BacktestRun) error {
	if run == nil {
		return errors.New("backtest run cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
}

// FindByRunID retrieves every pair stored under one run id, trades included.
func (r *BacktestRepository) FindByRunID(ctx context.Context, runID string) ([]models.BacktestRun, error) {
	if runID == "" {
		return nil, errors.New("invalid run id")
	}
	var runs []models.BacktestRun
	err := r.db.WithContext(ctx).
		Preload("Trades").
		Where("run_id = ?", runID).
		Order("pair ASC").
		Find(&runs).Error
	return runs, err
}

// FindLatestByPair returns the most recent stored run for a pair.
func (r *BacktestRepository) FindLatestByPair(ctx context.Context, pair string) (*models.BacktestRun, error) {
	if pair == "" {
		return nil, errors.New("invalid pair")
	}
	var run models.BacktestRun
	err := r.db.WithContext(ctx).
		Preload("Trades").
		Where("pair = ?", pair).
		Order("created_at DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &run, err
}
