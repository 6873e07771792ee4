package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"StrategyBacktester/config"
	"StrategyBacktester/internal/handlers"
	"StrategyBacktester/internal/models"
	"StrategyBacktester/internal/operations/backtest"
	"StrategyBacktester/internal/operations/binance"
	"StrategyBacktester/internal/operations/price"
	"StrategyBacktester/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type cliFlags struct {
	description   string
	risk          string
	pairs         []string
	days          int
	maxTrades     int
	costPct       float64
	csvPath       string
	syntheticOnly bool
	seed          int64
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(ctx context.Context) *cobra.Command {
	var flags cliFlags

	root := &cobra.Command{
		Use:          "strategy-backtester",
		Short:        "Backtest a prose trading strategy against daily history",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.description, "description", "", "strategy description, e.g. \"EMA(9) crosses above EMA(21)\"")
	root.PersistentFlags().StringVar(&flags.risk, "risk", "", "risk management notes, e.g. \"risk 2% per trade\"")
	root.PersistentFlags().StringSliceVar(&flags.pairs, "pairs", nil, "pairs to test (default TRADING_SYMBOLS)")
	root.PersistentFlags().IntVar(&flags.days, "days", 0, "days of history (default BACKTEST_DAYS)")
	root.PersistentFlags().IntVar(&flags.maxTrades, "max-trades", 0, "trade cap per run (default BACKTEST_MAX_TRADES)")
	root.PersistentFlags().Float64Var(&flags.costPct, "cost-pct", -1, "transaction cost in percent (default BACKTEST_COST_PCT)")
	root.PersistentFlags().BoolVar(&flags.syntheticOnly, "synthetic-only", false, "skip data providers and use the synthetic series")
	root.PersistentFlags().Int64Var(&flags.seed, "seed", 0, "synthetic series seed (default: time based)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Backtest the first pair and print its trades and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, req, err := setup(flags)
			if err != nil {
				return err
			}
			pair := req.Pairs[0]
			res, runID, err := app.Run(ctx, req, pair)
			if err != nil {
				return fmt.Errorf("backtest %s: %w", pair, err)
			}
			printResult(cmd.OutOrStdout(), res, runID)
			return writeCSV(flags.csvPath, res)
		},
	}
	runCmd.Flags().StringVar(&flags.csvPath, "csv", "", "optional: write trades and metrics to CSV")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Backtest every pair and walk forward over the first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, req, err := setup(flags)
			if err != nil {
				return err
			}
			cmp, runID, err := app.Compare(ctx, req)
			if err != nil {
				return err
			}
			printComparison(cmd.OutOrStdout(), cmp, runID)
			return nil
		},
	}

	var showPair string
	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print a stored run, or the latest run for --pair",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && showPair == "" {
				return fmt.Errorf("either a run id or --pair is required")
			}
			app, err := setupStore()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				runs, err := app.Show(ctx, args[0])
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					return fmt.Errorf("run %s not found", args[0])
				}
				for i := range runs {
					printStoredRun(cmd.OutOrStdout(), &runs[i])
				}
				return nil
			}
			run, err := app.Latest(ctx, strings.ToUpper(showPair))
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("no stored runs for %s", showPair)
			}
			printStoredRun(cmd.OutOrStdout(), run)
			return nil
		},
	}
	showCmd.Flags().StringVar(&showPair, "pair", "", "show the latest stored run for this pair")

	root.AddCommand(runCmd, compareCmd, showCmd)
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}

// setupStore opens the database for commands that only read stored runs.
func setupStore() (*handlers.BacktestHandler, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Database.Enabled() {
		return nil, handlers.ErrNoStore
	}
	db, err := setupDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	return handlers.NewBacktestHandler(nil, repositories.NewBacktestRepository(db)), nil
}

func setup(flags cliFlags) (*handlers.BacktestHandler, backtest.Request, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, backtest.Request{}, err
	}

	if strings.TrimSpace(flags.description) == "" {
		return nil, backtest.Request{}, fmt.Errorf("--description is required")
	}

	pairs := flags.pairs
	if len(pairs) == 0 {
		pairs = cfg.Symbols
	}
	if len(pairs) == 0 {
		return nil, backtest.Request{}, fmt.Errorf("no pairs configured")
	}

	opts := backtest.NewOptions()
	opts.MaxTrades = cfg.Backtest.MaxTrades
	opts.CostPct = cfg.Backtest.CostPct
	if flags.maxTrades > 0 {
		opts.MaxTrades = flags.maxTrades
	}
	if flags.costPct >= 0 {
		opts.CostPct = flags.costPct
	}

	days := cfg.Backtest.Days
	if flags.days > 0 {
		days = flags.days
	}
	end := time.Now().UTC()
	req := backtest.Request{
		Description: flags.description,
		RiskText:    flags.risk,
		Pairs:       pairs,
		StartTime:   end.AddDate(0, 0, -days),
		EndTime:     end,
		Options:     opts,
	}

	seed := flags.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	synthetic := price.NewSyntheticGenerator(seed)

	if flags.syntheticOnly {
		return handlers.NewBacktestHandler(backtest.NewEngine(nil, synthetic), nil), req, nil
	}

	var (
		providers []price.Provider
		recorder  *price.PriceRecorder
		runStore  handlers.RunStore
	)
	if cfg.Database.Enabled() {
		db, err := setupDatabase(cfg.Database)
		if err != nil {
			return nil, backtest.Request{}, err
		}
		priceRepo := repositories.NewPriceRepository(db)
		recorder = price.NewPriceRecorder(priceRepo)
		providers = append(providers, price.NewCacheProvider(priceRepo))
		runStore = repositories.NewBacktestRepository(db)
	}

	binanceClient := binance.NewBinanceClient(cfg.Exchange.APIKey, cfg.Exchange.SecretKey, cfg.Exchange.BaseURL)
	providers = append(providers, price.NewPriceFetcher(binanceClient, recorder))

	engine := backtest.NewEngine(price.NewChainProvider(providers...), synthetic)
	return handlers.NewBacktestHandler(engine, runStore), req, nil
}

func setupDatabase(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate database schemas
	if err := db.AutoMigrate(&models.Price{}, &models.BacktestRun{}, &models.BacktestTrade{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func printResult(w io.Writer, res *backtest.PairResult, runID string) {
	fmt.Fprintln(w, "\n=== Backtest Results ===")
	fmt.Fprintf(w, "Run: %s\n", runID)
	fmt.Fprintf(w, "Pair: %s (%d bars, source %s)\n", res.Pair, len(res.Bars), res.Source)
	if res.Source == models.SourceSynthetic {
		fmt.Fprintln(w, "WARNING: historical data unavailable, results use a synthetic series")
	}
	fmt.Fprintf(w, "Rule: %s, risk %.2f%% per trade\n", res.Rule, res.RiskFraction*100)
	fmt.Fprintf(w, "Total Trades: %d\n", len(res.Trades))
	printMetrics(w, res.Metrics)
	fmt.Fprintf(w, "Final Equity: %.2f\n", res.FinalEquity())
}

func printMetrics(w io.Writer, m backtest.Metrics) {
	fmt.Fprintf(w, "Win Rate: %.2f%%\n", m.WinRatePct)
	fmt.Fprintf(w, "Total Return: %.2f%%\n", m.TotalReturnPct)
	fmt.Fprintf(w, "Max Drawdown: %.2f%%\n", m.MaxDrawdownPct)
	fmt.Fprintf(w, "Sharpe Ratio: %.2f\n", m.Sharpe)
	fmt.Fprintf(w, "Profit Factor: %.2f\n", m.ProfitFactor)
	fmt.Fprintf(w, "t-Statistic: %.2f (p=%.4f)\n", m.TStatistic, m.PValue)
}

func printComparison(w io.Writer, cmp *backtest.Comparison, runID string) {
	fmt.Fprintln(w, "\n=== Pair Comparison ===")
	fmt.Fprintf(w, "Run: %s\n", runID)
	for _, pm := range cmp.Comparisons {
		fmt.Fprintf(w, "\n%s (%s) trades=%d\n", pm.Pair, pm.Source, pm.Trades)
		printMetrics(w, pm.Metrics)
	}

	if len(cmp.WalkForward) == 0 {
		fmt.Fprintln(w, "\nWalk-forward: not enough bars for a test window")
		return
	}
	fmt.Fprintf(w, "\n=== Walk-Forward (%s) ===\n", cmp.WalkForwardPair)
	for _, wr := range cmp.WalkForward {
		fmt.Fprintf(w, "Window %d: trades=%d return=%.2f%% sharpe=%.2f\n", wr.Window, wr.Trades, wr.ReturnPct, wr.Sharpe)
	}
}

func printStoredRun(w io.Writer, run *models.BacktestRun) {
	fmt.Fprintln(w, "\n=== Stored Backtest ===")
	fmt.Fprintf(w, "Run: %s (saved %s)\n", run.RunID, run.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Pair: %s (%d bars, source %s)\n", run.Pair, run.Bars, run.Source)
	fmt.Fprintf(w, "Rule: %s, risk %.2f%% per trade\n", run.RuleKind, run.RiskFrac*100)
	fmt.Fprintf(w, "Description: %s\n", run.Description)
	fmt.Fprintf(w, "Total Trades: %d\n", len(run.Trades))
	printMetrics(w, backtest.Metrics{
		Sharpe:         run.Sharpe,
		MaxDrawdownPct: run.MaxDrawdownPct,
		WinRatePct:     run.WinRatePct,
		TotalReturnPct: run.TotalReturnPct,
		ProfitFactor:   run.ProfitFactor,
		TStatistic:     run.TStatistic,
		PValue:         run.PValue,
	})
	for _, t := range run.Trades {
		fmt.Fprintf(w, "  %s -> %s  %.5f -> %.5f  pnl=%.2f (%.2f%%)\n",
			t.EntryDate, t.ExitDate, t.EntryPrice, t.ExitPrice, t.PnL, t.ReturnPct)
	}
}

func writeCSV(path string, res *backtest.PairResult) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := backtest.WriteCSV(f, res.Trades, res.Metrics); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("trades", len(res.Trades)).Msg("trades written")
	return f.Close()
}
