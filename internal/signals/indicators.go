// Package signals provides technical indicator calculations
package signals

import (
	"math"

	"github.com/bobmcallan/ollie/internal/models"
)

// Bars are stored most-recent-first throughout. Every indicator requires its
// trailing lookback to be fully populated; otherwise it returns ok=false and
// callers render "N/A".

// SMA calculates the Simple Moving Average over the trailing period.
func SMA(bars []models.EODBar, period int) (float64, bool) {
	if period <= 0 || len(bars) < period {
		return 0, false
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += bars[i].Close
	}
	return sum / float64(period), true
}

// RSI calculates the Relative Strength Index over the trailing period using
// simple averages of gains and losses (period+1 closes yield period deltas).
// A window with zero average loss is undefined and reports the neutral
// sentinel 50 with ok=false.
func RSI(bars []models.EODBar, period int) (float64, bool) {
	if period <= 0 || len(bars) < period+1 {
		return 50, false
	}

	var gains, losses float64
	for i := 0; i < period; i++ {
		change := bars[i].Close - bars[i+1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 50, false
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), true
}

// emaSeries computes an exponential moving average over a chronological
// series, seeded from the first value, with smoothing factor 2/(period+1).
func emaSeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	multiplier := 2.0 / float64(period+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// MACD calculates Moving Average Convergence Divergence over the close
// series: EMA(fast) − EMA(slow), with the signal line an EMA(signalPeriod)
// of the MACD series itself. The MACD line is defined once slowPeriod bars
// exist; the signal line needs signalPeriod defined MACD values.
func MACD(bars []models.EODBar, fastPeriod, slowPeriod, signalPeriod int) models.MACDValue {
	if len(bars) < slowPeriod {
		return models.MACDValue{}
	}

	// Chronological closes, oldest first
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[len(bars)-1-i] = bar.Close
	}

	fastEMA := emaSeries(closes, fastPeriod)
	slowEMA := emaSeries(closes, slowPeriod)

	// MACD series over the fully populated region only
	macd := make([]float64, 0, len(closes)-slowPeriod+1)
	for i := slowPeriod - 1; i < len(closes); i++ {
		macd = append(macd, fastEMA[i]-slowEMA[i])
	}

	result := models.MACDValue{
		Line:  macd[len(macd)-1],
		Valid: true,
	}

	if len(macd) >= signalPeriod {
		signal := emaSeries(macd, signalPeriod)
		result.Signal = signal[len(signal)-1]
		result.Histogram = result.Line - result.Signal
		result.SignalValid = true
	}

	return result
}

// WeeklyChange calculates the percent change from the close 5 trading days
// prior to the latest close.
func WeeklyChange(bars []models.EODBar) (float64, bool) {
	if len(bars) < 6 || bars[5].Close == 0 {
		return 0, false
	}
	return ((bars[0].Close - bars[5].Close) / bars[5].Close) * 100, true
}

// AverageVolume calculates average volume over the trailing period
func AverageVolume(bars []models.EODBar, period int) int64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	var sum int64
	for i := 0; i < period; i++ {
		sum += bars[i].Volume
	}
	return sum / int64(period)
}

// High52Week returns the highest high in the last 252 trading days
func High52Week(bars []models.EODBar) float64 {
	period := 252
	if len(bars) < period {
		period = len(bars)
	}

	high := 0.0
	for i := 0; i < period; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
	}
	return high
}

// Low52Week returns the lowest low in the last 252 trading days
func Low52Week(bars []models.EODBar) float64 {
	period := 252
	if len(bars) < period {
		period = len(bars)
	}

	low := math.MaxFloat64
	for i := 0; i < period; i++ {
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	if low == math.MaxFloat64 {
		return 0
	}
	return low
}

// ClassifyRSI classifies an RSI value
func ClassifyRSI(rsi float64, valid bool) string {
	if !valid {
		return "neutral"
	}
	if rsi >= 70 {
		return "overbought"
	}
	if rsi <= 30 {
		return "oversold"
	}
	return "neutral"
}

// ClassifyMACD classifies a MACD value by histogram sign
func ClassifyMACD(macd models.MACDValue) string {
	if !macd.Valid || !macd.SignalValid {
		return "none"
	}
	if macd.Histogram > 0 {
		return "bullish"
	}
	if macd.Histogram < 0 {
		return "bearish"
	}
	return "none"
}
