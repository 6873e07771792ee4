package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanStdDev(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StdDev(nil))
	assert.InDelta(t, 5.0, Mean([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, StdDev([]float64{3, 3, 3}))
}

func TestProfitFactor(t *testing.T) {
	assert.Equal(t, 0.0, ProfitFactor(nil))
	assert.Equal(t, ProfitFactorCap, ProfitFactor([]float64{10, 5, 0}))
	assert.Equal(t, ProfitFactorCap, ProfitFactor([]float64{0}))
	assert.InDelta(t, 3.0, ProfitFactor([]float64{10, 5, -5}), 1e-12)
	assert.Equal(t, 0.0, ProfitFactor([]float64{-1, -2}))
}

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, NormalCDF(0), 1e-9)
	assert.InDelta(t, 0.841344746, NormalCDF(1), 1e-6)
	assert.InDelta(t, 0.158655254, NormalCDF(-1), 1e-6)
	assert.InDelta(t, 0.975002105, NormalCDF(1.96), 1e-6)
	assert.InDelta(t, 1.0, NormalCDF(10), 1e-9)
}

func TestErfMatchesMathErf(t *testing.T) {
	for _, x := range []float64{-3, -1.2, -0.3, 0, 0.3, 1.2, 3} {
		assert.InDelta(t, math.Erf(x), Erf(x), 2e-7)
	}
}

func TestTTest(t *testing.T) {
	tStat, p := TTest(nil)
	assert.Equal(t, 0.0, tStat)
	assert.InDelta(t, 1.0, p, 1e-8)

	tStat, p = TTest([]float64{0.01})
	assert.Equal(t, 0.0, tStat)
	assert.InDelta(t, 1.0, p, 1e-8)

	tStat, _ = TTest([]float64{0.01, 0.01, 0.01})
	assert.Equal(t, 0.0, tStat)

	// mean 0.02, population std 0.01, n 4 → t = 4
	tStat, p = TTest([]float64{0.01, 0.03, 0.01, 0.03})
	assert.InDelta(t, 4.0, tStat, 1e-9)
	assert.InDelta(t, 2*(1-NormalCDF(4)), p, 1e-12)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)

	_, pNeg := TTest([]float64{-0.01, -0.03, -0.01, -0.03})
	assert.InDelta(t, p, pNeg, 1e-12)
}
