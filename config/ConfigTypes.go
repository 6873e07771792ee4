package config

type Config struct {
	Exchange ExchangeConfig
	Database DatabaseConfig
	Backtest BacktestConfig
	Symbols  []string
	LogLevel string
}

type ExchangeConfig struct {
	APIKey    string
	SecretKey string
	BaseURL   string // optional override, used for testnets and fakes
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// Enabled reports whether a database was configured at all.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type BacktestConfig struct {
	Days      int     // history length requested from the data provider
	MaxTrades int     // simulation cap per run
	CostPct   float64 // transaction cost in percent, 0.05 = 0.05%
}
