package models

import "time"

// BacktestRun is one persisted single-pair simulation.
type BacktestRun struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"index;not null"` // shared by every pair of one compare call
	Pair        string `gorm:"index;not null"`
	Description string `gorm:"type:text"`
	RiskText    string `gorm:"type:text"`
	RuleKind    string `gorm:"not null"`
	RiskFrac    float64
	Source      string `gorm:"not null"` // binance, cache or synthetic
	Bars        int

	Sharpe         float64
	MaxDrawdownPct float64
	WinRatePct     float64
	TotalReturnPct float64
	ProfitFactor   float64
	TStatistic     float64
	PValue         float64

	Trades []BacktestTrade `gorm:"foreignKey:BacktestRunID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// BacktestTrade is a closed trade belonging to a BacktestRun.
type BacktestTrade struct {
	ID            uint    `gorm:"primaryKey"`
	BacktestRunID uint    `gorm:"index;not null"`
	Pair          string  `gorm:"not null"`
	EntryDate     string  `gorm:"not null"`
	ExitDate      string  `gorm:"not null"`
	EntryPrice    float64 `gorm:"type:decimal(20,8)"`
	ExitPrice     float64 `gorm:"type:decimal(20,8)"`
	PnL           float64 `gorm:"type:decimal(20,8)"`
	ReturnPct     float64
}

const (
	SourceBinance   = "binance"
	SourceCache     = "cache"
	SourceSynthetic = "synthetic"
)
