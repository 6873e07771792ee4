package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"StrategyBacktester/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var day0 = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "backtest.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Price{}, &models.BacktestRun{}, &models.BacktestTrade{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func dailyPrices(symbol string, from, n int) []models.Price {
	out := make([]models.Price, n)
	for i := range out {
		open := day0.AddDate(0, 0, from+i)
		out[i] = models.Price{
			Symbol:    symbol,
			TimeFrame: models.PriceTimeFrame1d,
			OpenTime:  open,
			CloseTime: open.Add(24*time.Hour - time.Millisecond),
			Close:     1 + float64(from+i)/100,
		}
	}
	return out
}

func TestCreateBatchSkipsStoredCandles(t *testing.T) {
	db := openTestDB(t)
	repo := NewPriceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, dailyPrices("BTCUSDT", 0, 3)))
	// days 1 and 2 are already stored, day 3 is new
	require.NoError(t, repo.CreateBatch(ctx, dailyPrices("BTCUSDT", 1, 3)))
	require.NoError(t, repo.CreateBatch(ctx, nil))

	var count int64
	require.NoError(t, db.Model(&models.Price{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestGetPricesByTimeFrame(t *testing.T) {
	repo := NewPriceRepository(openTestDB(t))
	ctx := context.Background()

	prices := dailyPrices("ETHUSDT", 0, 10)
	// insert out of order, reads come back by open time
	require.NoError(t, repo.CreateBatch(ctx, append(prices[5:], prices[:5]...)))
	require.NoError(t, repo.CreateBatch(ctx, dailyPrices("BTCUSDT", 0, 10)))

	got, err := repo.GetPricesByTimeFrame(ctx, "ETHUSDT", models.PriceTimeFrame1d, day0.AddDate(0, 0, 2), day0.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, p := range got {
		assert.Equal(t, "ETHUSDT", p.Symbol)
		assert.True(t, day0.AddDate(0, 0, 2+i).Equal(p.OpenTime), "bar %d out of order", i)
		assert.Equal(t, day0.AddDate(0, 0, 2+i).Format(models.DateLayout), p.ToBar().Date)
	}
	assert.InDelta(t, 1.02, got[0].Close, 1e-9)

	got, err = repo.GetPricesByTimeFrame(ctx, "ETHUSDT", "4h", day0, day0.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = repo.GetPricesByTimeFrame(ctx, "", models.PriceTimeFrame1d, day0, day0)
	assert.Error(t, err)
}

func backtestRun(runID, pair string, created time.Time, trades int) *models.BacktestRun {
	run := &models.BacktestRun{
		RunID:     runID,
		Pair:      pair,
		RuleKind:  "rsi",
		Source:    models.SourceSynthetic,
		Bars:      300,
		Sharpe:    1.25,
		CreatedAt: created,
	}
	for i := 0; i < trades; i++ {
		run.Trades = append(run.Trades, models.BacktestTrade{
			Pair:       pair,
			EntryDate:  day0.AddDate(0, 0, 2*i).Format(models.DateLayout),
			ExitDate:   day0.AddDate(0, 0, 2*i+1).Format(models.DateLayout),
			EntryPrice: 1.1,
			ExitPrice:  1.2,
			PnL:        9.04,
			ReturnPct:  9.04,
		})
	}
	return run
}

func TestBacktestRepositoryCreateStoresTrades(t *testing.T) {
	db := openTestDB(t)
	repo := NewBacktestRepository(db)
	ctx := context.Background()

	run := backtestRun("run-1", "EURUSD", day0, 3)
	require.NoError(t, repo.Create(ctx, run))
	require.NotZero(t, run.ID)
	for _, tr := range run.Trades {
		assert.Equal(t, run.ID, tr.BacktestRunID)
	}

	var count int64
	require.NoError(t, db.Model(&models.BacktestTrade{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	assert.Error(t, repo.Create(ctx, nil))
}

func TestBacktestRepositoryCreateRollsBack(t *testing.T) {
	db := openTestDB(t)
	repo := NewBacktestRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Exec("DROP TABLE backtest_trades").Error)

	err := repo.Create(ctx, backtestRun("run-1", "EURUSD", day0, 1))
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.BacktestRun{}).Count(&count).Error)
	assert.Zero(t, count, "run row must not outlive a failed trade insert")
}

func TestFindByRunID(t *testing.T) {
	repo := NewBacktestRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, backtestRun("run-1", "GBPUSD", day0, 2)))
	require.NoError(t, repo.Create(ctx, backtestRun("run-1", "EURUSD", day0, 1)))
	require.NoError(t, repo.Create(ctx, backtestRun("run-2", "EURUSD", day0, 4)))

	runs, err := repo.FindByRunID(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "EURUSD", runs[0].Pair)
	assert.Len(t, runs[0].Trades, 1)
	assert.Equal(t, "GBPUSD", runs[1].Pair)
	assert.Len(t, runs[1].Trades, 2)
	assert.Equal(t, 1.25, runs[1].Sharpe)

	runs, err = repo.FindByRunID(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = repo.FindByRunID(ctx, "")
	assert.Error(t, err)
}

func TestFindLatestByPair(t *testing.T) {
	repo := NewBacktestRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, backtestRun("old", "EURUSD", day0, 1)))
	require.NoError(t, repo.Create(ctx, backtestRun("new", "EURUSD", day0.Add(time.Hour), 2)))
	require.NoError(t, repo.Create(ctx, backtestRun("other", "GBPUSD", day0.Add(2*time.Hour), 0)))

	run, err := repo.FindLatestByPair(ctx, "EURUSD")
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "new", run.RunID)
	assert.Len(t, run.Trades, 2)

	run, err = repo.FindLatestByPair(ctx, "XAUUSD")
	require.NoError(t, err)
	assert.Nil(t, run)

	_, err = repo.FindLatestByPair(ctx, "")
	assert.Error(t, err)
}
