package models

import "time"

// IndicatorValue is a computed indicator plus a validity flag. Valid is false
// when the trailing lookback was not fully populated (or, for RSI, when the
// average loss in the window was zero); invalid values render as "N/A".
type IndicatorValue struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// MACDValue holds the MACD line, signal line, and histogram.
// Signal carries its own validity since it needs 9 extra periods of history.
type MACDValue struct {
	Line        float64 `json:"line"`
	Signal      float64 `json:"signal"`
	Histogram   float64 `json:"histogram"`
	Valid       bool    `json:"valid"`
	SignalValid bool    `json:"signal_valid"`
}

// TechnicalSnapshot is the per-symbol indicator set surfaced in prompts
type TechnicalSnapshot struct {
	Ticker           string         `json:"ticker"`
	Price            float64        `json:"price"`
	WeeklyChange     IndicatorValue `json:"weekly_change"` // percent over 5 trading days
	MA20             IndicatorValue `json:"ma20"`
	RSI14            IndicatorValue `json:"rsi14"`
	MACD             MACDValue      `json:"macd"`
	Volume           int64          `json:"volume"`
	AvgVolume20      int64          `json:"avg_volume_20"`
	High52Week       float64        `json:"high_52_week"`
	Low52Week        float64        `json:"low_52_week"`
	RSIClass         string         `json:"rsi_class"`     // overbought, oversold, neutral
	MACDClass        string         `json:"macd_class"`    // bullish, bearish, none
	PriceVsMA20      string         `json:"price_vs_ma20"` // above, below, or empty when MA20 invalid
	ComputeTimestamp time.Time      `json:"compute_timestamp"`
}
