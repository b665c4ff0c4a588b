// Package signals provides signal computation
package signals

import (
	"time"

	"github.com/bobmcallan/ollie/internal/models"
)

// Computer computes a technical snapshot for a ticker
type Computer struct{}

// NewComputer creates a new signal computer
func NewComputer() *Computer {
	return &Computer{}
}

// Compute calculates a full technical snapshot from market data. Indicators
// without enough history carry Valid=false and are rendered as "N/A"
// downstream.
func (c *Computer) Compute(marketData *models.MarketData) *models.TechnicalSnapshot {
	snapshot := &models.TechnicalSnapshot{
		ComputeTimestamp: time.Now(),
	}
	if marketData != nil {
		snapshot.Ticker = marketData.Ticker
	}
	if marketData == nil || len(marketData.EOD) == 0 {
		snapshot.RSIClass = "neutral"
		snapshot.MACDClass = "none"
		return snapshot
	}

	bars := marketData.EOD
	snapshot.Price = bars[0].Close
	snapshot.Volume = bars[0].Volume
	snapshot.AvgVolume20 = AverageVolume(bars, 20)
	snapshot.High52Week = High52Week(bars)
	snapshot.Low52Week = Low52Week(bars)

	if change, ok := WeeklyChange(bars); ok {
		snapshot.WeeklyChange = models.IndicatorValue{Value: change, Valid: true}
	}

	if ma20, ok := SMA(bars, 20); ok {
		snapshot.MA20 = models.IndicatorValue{Value: ma20, Valid: true}
		if snapshot.Price > ma20 {
			snapshot.PriceVsMA20 = "above"
		} else if snapshot.Price < ma20 {
			snapshot.PriceVsMA20 = "below"
		} else {
			snapshot.PriceVsMA20 = "at"
		}
	}

	rsi, rsiOK := RSI(bars, 14)
	snapshot.RSI14 = models.IndicatorValue{Value: rsi, Valid: rsiOK}
	snapshot.RSIClass = ClassifyRSI(rsi, rsiOK)

	snapshot.MACD = MACD(bars, 12, 26, 9)
	snapshot.MACDClass = ClassifyMACD(snapshot.MACD)

	return snapshot
}
