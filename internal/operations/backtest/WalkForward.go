package backtest

const (
	TrainWindowBars = 180
	TestWindowBars  = 90
	MinTestBars     = 60
)

// Window is one train/test split over bar indices, half-open [start, end).
type Window struct {
	TrainStart, TrainEnd int
	TestStart, TestEnd   int
}

// Windows lays rolling windows over n bars. Each window's test slice follows
// its train slice and the start advances by TestWindowBars. Windows whose
// test slice is shorter than MinTestBars are dropped.
func Windows(n int) []Window {
	var out []Window
	for start := 0; start+TrainWindowBars < n; start += TestWindowBars {
		testStart := start + TrainWindowBars
		testEnd := min(testStart+TestWindowBars, n)
		if testEnd-testStart < MinTestBars {
			continue
		}
		out = append(out, Window{
			TrainStart: start,
			TrainEnd:   testStart,
			TestStart:  testStart,
			TestEnd:    testEnd,
		})
	}
	return out
}

// WalkForward re-runs the simulation on each out-of-sample test slice. The
// rule has no fitted parameters, so train slices only position the windows.
func WalkForward(in Input) []WindowResult {
	windows := Windows(len(in.Bars))
	results := make([]WindowResult, 0, len(windows))

	for _, w := range windows {
		slice := in
		slice.Bars = in.Bars[w.TestStart:w.TestEnd]
		res := Simulate(slice)

		results = append(results, WindowResult{
			Window:    len(results) + 1,
			Trades:    len(res.Trades),
			ReturnPct: res.Metrics.TotalReturnPct,
			Sharpe:    res.Metrics.Sharpe,
		})
	}
	return results
}
