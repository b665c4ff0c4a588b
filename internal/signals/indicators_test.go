package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/ollie/internal/models"
)

func TestSMA(t *testing.T) {
	tests := []struct {
		name     string
		bars     []models.EODBar
		period   int
		expected float64
		ok       bool
	}{
		{
			name:     "simple 3-day SMA",
			bars:     generateBars([]float64{10, 20, 30}),
			period:   3,
			expected: 20.0,
			ok:       true,
		},
		{
			name:     "5-day SMA",
			bars:     generateBars([]float64{10, 20, 30, 40, 50}),
			period:   5,
			expected: 30.0,
			ok:       true,
		},
		{
			name:   "insufficient data",
			bars:   generateBars([]float64{10, 20}),
			period: 5,
			ok:     false,
		},
		{
			name:   "zero period",
			bars:   generateBars([]float64{10, 20, 30}),
			period: 0,
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := SMA(tt.bars, tt.period)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, result, 0.01)
			}
		})
	}
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		bars   []models.EODBar
		period int
		minRSI float64
		maxRSI float64
	}{
		{
			name:   "uptrend should have high RSI",
			bars:   generateNoisyTrendBars(50, 1.0, 20),
			period: 14,
			minRSI: 60,
			maxRSI: 100,
		},
		{
			name:   "downtrend should have low RSI",
			bars:   generateTrendBars(50, -1.0, 20),
			period: 14,
			minRSI: 0,
			maxRSI: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := RSI(tt.bars, tt.period)
			require.True(t, ok)
			assert.GreaterOrEqual(t, result, tt.minRSI)
			assert.LessOrEqual(t, result, tt.maxRSI)
		})
	}
}

func TestRSIExactValue(t *testing.T) {
	// Alternating +2/-1 deltas over 14 periods: 7 gains of 2, 7 losses of 1.
	// avgGain = 1.0, avgLoss = 0.5, RS = 2, RSI = 100 - 100/3 = 66.666...
	closes := make([]float64, 15)
	price := 100.0
	closes[0] = price
	for i := 1; i < 15; i++ {
		if i%2 == 1 {
			price += 2
		} else {
			price -= 1
		}
		closes[i] = price
	}
	// generateBars expects most-recent-first
	reversed := make([]float64, len(closes))
	for i, c := range closes {
		reversed[len(closes)-1-i] = c
	}

	result, ok := RSI(generateBars(reversed), 14)
	require.True(t, ok)
	assert.InDelta(t, 66.6667, result, 0.01)
}

func TestRSIInsufficientData(t *testing.T) {
	// 14 closes give only 13 deltas for a 14-period RSI
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	result, ok := RSI(generateBars(closes), 14)
	assert.False(t, ok)
	assert.Equal(t, 50.0, result)
}

func TestRSIZeroLoss(t *testing.T) {
	// Monotonic uptrend: avgLoss is zero, RSI is undefined
	result, ok := RSI(generateTrendBars(50, 1.0, 20), 14)
	assert.False(t, ok)
	assert.Equal(t, 50.0, result)
}

func TestMACD(t *testing.T) {
	t.Run("insufficient data", func(t *testing.T) {
		result := MACD(generateTrendBars(100, 0.5, 20), 12, 26, 9)
		assert.False(t, result.Valid)
		assert.False(t, result.SignalValid)
	})

	t.Run("line valid without signal", func(t *testing.T) {
		// 30 bars: MACD line defined (>=26) but fewer than 9 MACD values
		result := MACD(generateTrendBars(100, 0.5, 30), 12, 26, 9)
		assert.True(t, result.Valid)
		assert.False(t, result.SignalValid)
	})

	t.Run("uptrend has positive line", func(t *testing.T) {
		result := MACD(generateTrendBars(100, 0.5, 60), 12, 26, 9)
		require.True(t, result.Valid)
		require.True(t, result.SignalValid)
		assert.Greater(t, result.Line, 0.0)
		assert.InDelta(t, result.Line-result.Signal, result.Histogram, 1e-9)
	})

	t.Run("downtrend has negative line", func(t *testing.T) {
		result := MACD(generateTrendBars(200, -0.5, 60), 12, 26, 9)
		require.True(t, result.Valid)
		assert.Less(t, result.Line, 0.0)
	})

	t.Run("flat series is zero", func(t *testing.T) {
		closes := make([]float64, 60)
		for i := range closes {
			closes[i] = 100
		}
		result := MACD(generateBars(closes), 12, 26, 9)
		require.True(t, result.Valid)
		assert.InDelta(t, 0.0, result.Line, 1e-9)
		assert.InDelta(t, 0.0, result.Signal, 1e-9)
	})
}

func TestEMASeries(t *testing.T) {
	// Seeded from the first value, alpha = 2/(3+1) = 0.5
	values := []float64{10, 20, 30}
	out := emaSeries(values, 3)
	require.Len(t, out, 3)
	assert.InDelta(t, 10.0, out[0], 1e-9)
	assert.InDelta(t, 15.0, out[1], 1e-9)
	assert.InDelta(t, 22.5, out[2], 1e-9)
}

func TestWeeklyChange(t *testing.T) {
	tests := []struct {
		name     string
		bars     []models.EODBar
		expected float64
		ok       bool
	}{
		{
			name:     "10 percent gain",
			bars:     generateBars([]float64{110, 108, 106, 104, 102, 100, 98}),
			expected: 10.0,
			ok:       true,
		},
		{
			name:     "decline",
			bars:     generateBars([]float64{90, 92, 94, 96, 98, 100}),
			expected: -10.0,
			ok:       true,
		},
		{
			name: "insufficient data",
			bars: generateBars([]float64{100, 101, 102}),
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := WeeklyChange(tt.bars)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, result, 0.01)
			}
		})
	}
}

func TestClassifyRSI(t *testing.T) {
	tests := []struct {
		rsi      float64
		valid    bool
		expected string
	}{
		{75, true, "overbought"},
		{70, true, "overbought"},
		{50, true, "neutral"},
		{30, true, "oversold"},
		{25, true, "oversold"},
		{75, false, "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := ClassifyRSI(tt.rsi, tt.valid)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestClassifyMACD(t *testing.T) {
	tests := []struct {
		name     string
		macd     models.MACDValue
		expected string
	}{
		{
			name:     "bullish histogram",
			macd:     models.MACDValue{Line: 1.5, Signal: 1.0, Histogram: 0.5, Valid: true, SignalValid: true},
			expected: "bullish",
		},
		{
			name:     "bearish histogram",
			macd:     models.MACDValue{Line: -1.5, Signal: -1.0, Histogram: -0.5, Valid: true, SignalValid: true},
			expected: "bearish",
		},
		{
			name:     "signal not yet defined",
			macd:     models.MACDValue{Line: 1.5, Valid: true},
			expected: "none",
		},
		{
			name:     "invalid",
			macd:     models.MACDValue{},
			expected: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyMACD(tt.macd))
		})
	}
}

func TestAverageVolume(t *testing.T) {
	bars := make([]models.EODBar, 25)
	for i := 0; i < 25; i++ {
		bars[i] = models.EODBar{Close: 50, Volume: 1000000}
	}
	bars[0].Volume = 2000000

	avg := AverageVolume(bars, 20)
	assert.Equal(t, int64(1050000), avg)

	assert.Equal(t, int64(0), AverageVolume(bars[:5], 20))
}

func TestHighLow52Week(t *testing.T) {
	bars := generateBars([]float64{100, 105, 95, 110, 90})

	assert.InDelta(t, 110.5, High52Week(bars), 0.01)
	assert.InDelta(t, 89.5, Low52Week(bars), 0.01)

	assert.Equal(t, 0.0, High52Week(nil))
	assert.Equal(t, 0.0, Low52Week(nil))
}

// Helper functions

func generateBars(closes []float64) []models.EODBar {
	bars := make([]models.EODBar, len(closes))
	for i, close := range closes {
		bars[i] = models.EODBar{
			Date:     time.Now().AddDate(0, 0, -i),
			Open:     close - 0.5,
			High:     close + 0.5,
			Low:      close - 0.5,
			Close:    close,
			AdjClose: close,
			Volume:   1000000,
		}
	}
	return bars
}

// generateNoisyTrendBars trends like generateTrendBars but dips every fourth
// day so both gains and losses appear in the window.
func generateNoisyTrendBars(startPrice, dailyChange float64, days int) []models.EODBar {
	closes := make([]float64, days)
	price := startPrice
	for i := 0; i < days; i++ {
		closes[i] = price
		if i%4 == 3 {
			price += dailyChange * 0.25
		} else {
			price -= dailyChange
		}
	}
	return generateBars(closes)
}

func generateTrendBars(startPrice, dailyChange float64, days int) []models.EODBar {
	bars := make([]models.EODBar, days)
	price := startPrice
	for i := 0; i < days; i++ {
		bars[i] = models.EODBar{
			Date:     time.Now().AddDate(0, 0, -i),
			Close:    price,
			AdjClose: price,
			Volume:   1000000,
		}
		price -= dailyChange // Going back in time
	}
	return bars
}
