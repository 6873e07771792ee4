package repositories

import (
	"context"
	"errors"
	"time"

	"StrategyBacktester/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const priceBatchSize = 500

type PriceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new instance of PriceRepository
func NewPriceRepository(db *gorm.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// CreateBatch inserts candles, skipping any already stored for the same
// symbol, timeframe and open time.
func (r *PriceRepository) CreateBatch(ctx context.Context, prices []models.Price) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(prices, priceBatchSize).Error
}

// GetPricesByTimeFrame gets price data for a specific symbol and timeframe
func (r *PriceRepository) GetPricesByTimeFrame(ctx context.Context, symbol, timeFrame string, start, end time.Time) ([]models.Price, error) {
	if symbol == "" || timeFrame == "" {
		return nil, errors.New("invalid symbol or timeframe")
	}

	var prices []models.Price
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND time_frame = ? AND open_time BETWEEN ? AND ?", symbol, timeFrame, start, end).
		Order("open_time ASC").
		Find(&prices).Error
	return prices, err
}
