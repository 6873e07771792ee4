package backtest

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"Pair", "Entry Date", "Exit Date", "Entry Price", "Exit Price", "PNL", "Return %"}

// WriteCSV writes the trade log followed by a blank row and the labeled metric rows.
func WriteCSV(out io.Writer, trades []Trade, m Metrics) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		if err := w.Write([]string{
			t.Pair, t.EntryDate, t.ExitDate,
			formatF(t.EntryPrice, 5), formatF(t.ExitPrice, 5),
			formatF(t.PnL, 2), formatF(t.ReturnPct, 2),
		}); err != nil {
			return err
		}
	}

	rows := [][]string{
		{},
		{"Sharpe", formatF(m.Sharpe, 2)},
		{"Max Drawdown %", formatF(m.MaxDrawdownPct, 2)},
		{"Win Rate %", formatF(m.WinRatePct, 2)},
		{"Total Return %", formatF(m.TotalReturnPct, 2)},
		{"Profit Factor", formatF(m.ProfitFactor, 2)},
		{"t-Statistic", formatF(m.TStatistic, 2)},
		{"p-Value", formatF(m.PValue, 4)},
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

func formatF(f float64, prec int) string { return strconv.FormatFloat(f, 'f', prec, 64) }
