package models

import (
	"time"
)

// DateLayout is the calendar-date format used for PriceBar.Date.
const DateLayout = "2006-01-02"

// PriceBar is the engine's view of one daily close.
type PriceBar struct {
	Date  string
	Close float64
}

// Price is the cached daily candle as stored in the database.
type Price struct {
	ID         uint      `gorm:"primaryKey"`
	Symbol     string    `gorm:"uniqueIndex:idx_symbol_tf_open;not null"`
	TimeFrame  string    `gorm:"uniqueIndex:idx_symbol_tf_open;not null"`
	OpenTime   time.Time `gorm:"uniqueIndex:idx_symbol_tf_open;not null"`
	CloseTime  time.Time `gorm:"index"`
	Open       float64   `gorm:"type:decimal(20,8)"`
	Close      float64   `gorm:"type:decimal(20,8)"`
	High       float64   `gorm:"type:decimal(20,8)"`
	Low        float64   `gorm:"type:decimal(20,8)"`
	Volume     float64   `gorm:"type:decimal(20,8)"`
	TradeCount int64
}

const (
	PriceTimeFrame1d = "1d"
)

// TableName sets the table name for Price model
func (Price) TableName() string {
	return "prices"
}

// ToBar converts a stored candle to a PriceBar keyed by its UTC open date.
func (p Price) ToBar() PriceBar {
	return PriceBar{
		Date:  p.OpenTime.UTC().Format(DateLayout),
		Close: p.Close,
	}
}
