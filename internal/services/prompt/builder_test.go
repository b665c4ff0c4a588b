package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/ollie/internal/models"
)

func sampleStockData() *models.StockData {
	return &models.StockData{
		Ticker: "AAPL.US",
		Name:   "Apple Inc",
		Snapshot: &models.TechnicalSnapshot{
			Ticker:       "AAPL.US",
			Price:        214.29,
			WeeklyChange: models.IndicatorValue{Value: 2.41, Valid: true},
			MA20:         models.IndicatorValue{Value: 208.17, Valid: true},
			RSI14:        models.IndicatorValue{Value: 64.2, Valid: true},
			MACD:         models.MACDValue{Line: 1.2, Signal: 0.9, Histogram: 0.3, Valid: true, SignalValid: true},
			Volume:       52_000_000,
			AvgVolume20:  48_500_000,
			RSIClass:     "neutral",
			MACDClass:    "bullish",
			PriceVsMA20:  "above",
		},
		Fundamentals: &models.Fundamentals{
			Ticker:         "AAPL.US",
			Name:           "Apple Inc",
			Sector:         "Technology",
			MarketCap:      3.2e12,
			ForwardPE:      28.5,
			Beta:           1.25,
			High52Week:     237.23,
			Low52Week:      164.08,
			GrossMargin:    0.456,
			ReturnOnEquity: 1.47,
			FreeCashflow:   99.5e9,
			ShortRatio:     1.8,
			TargetPrice:    235.0,
			Recommendation: "Buy",
		},
		News: []*models.NewsItem{
			{Title: "Apple unveils new chip", Source: "Reuters"},
			{Title: "iPhone demand steady", Source: "Bloomberg"},
		},
		Insider: []models.InsiderTransaction{
			{
				Date:       time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC),
				OwnerName:  "COOK TIMOTHY D",
				OwnerTitle: "CEO",
				Type:       "Sell",
				Shares:     50000,
				Price:      212.40,
			},
		},
		NextEarnings: &models.EarningsEvent{
			Ticker:     "AAPL.US",
			ReportDate: time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC),
		},
	}
}

func sampleMacro() *models.MacroContext {
	return &models.MacroContext{
		VIX:              14.33,
		TenYearYield:     4.21,
		BenchmarkTicker:  "SPY.US",
		BenchmarkWeekPct: 0.85,
		SectorETF:        "XLK.US",
		SectorETFWeekPct: 1.12,
		HasSectorETF:     true,
	}
}

func TestBuildPrompt_FullDataset(t *testing.T) {
	persona := LookupPersona("balanced")
	text := BuildPrompt(persona, sampleStockData(), sampleMacro())

	assert.True(t, strings.HasPrefix(text, "You are "+persona.Name))
	assert.Contains(t, text, persona.Instruction)

	assert.Contains(t, text, "### GLOBAL & MACRO CONTEXT ###")
	assert.Contains(t, text, "- VIX Index: 14.33")
	assert.Contains(t, text, "- 10Y Yield: 4.21%")
	assert.Contains(t, text, "- SPY.US Weekly: +0.85%")
	assert.Contains(t, text, "- Sector ETF XLK.US Weekly: +1.12%")

	assert.Contains(t, text, "### DATASET FOR AAPL.US (Apple Inc) ###")

	assert.Contains(t, text, "### 1. Smart Money & Sentiment:")
	assert.Contains(t, text, "2026-08-12: COOK TIMOTHY D (CEO) Sell 50,000 shares @ $212.40")
	assert.Contains(t, text, "- Short Ratio: 1.80 (Note: Above 5-10 indicates high bearish interest or squeeze potential)")

	assert.Contains(t, text, "### 2. Market Price Action:")
	assert.Contains(t, text, "- Latest Close Price: $214.29")
	assert.Contains(t, text, "- Weekly Change: +2.41%")
	assert.Contains(t, text, "- 20-Day Moving Average (MA20): $208.17")
	assert.Contains(t, text, "- RSI (14-Day): 64.20 (neutral)")
	assert.Contains(t, text, "- MACD Histogram: 0.30 (bullish)")
	assert.Contains(t, text, "- Beta (Volatility): 1.25")
	assert.Contains(t, text, "- Sector: Technology")

	assert.Contains(t, text, "### 3. Fundamental & Profitability Metrics:")
	assert.Contains(t, text, "- Market Cap: 3200.00B")
	assert.Contains(t, text, "- Forward P/E Ratio: 28.50")
	assert.Contains(t, text, "- Gross Margins: 45.60%")
	assert.Contains(t, text, "- Return on Equity (ROE): 147.00%")
	assert.Contains(t, text, "- Free Cash Flow: $99.50B")
	assert.Contains(t, text, "- 52-Week Range: $164.08 - $237.23")

	assert.Contains(t, text, "### 4. Institutional Context:")
	assert.Contains(t, text, "- Analyst Target Price (Mean): $235.00")
	assert.Contains(t, text, "- Analyst Recommendation: Buy")
	assert.Contains(t, text, "- NEXT EARNINGS DATE: 2026-10-29")

	assert.Contains(t, text, "### 5. Recent News Catalysts:")
	assert.Contains(t, text, "- Apple unveils new chip (Source: Reuters)")
	assert.Contains(t, text, "- iPhone demand steady (Source: Bloomberg)")

	assert.Contains(t, text, "### ANALYSIS TASK ###")
	assert.Contains(t, text, "Smart Money Check")
	assert.Contains(t, text, "3 high-conviction Buy Reasons and 3 Key Risks")
	assert.Contains(t, text, "Final Short-Term Outlook (5-10 trading days)")
}

func TestBuildPrompt_MissingDataRendersNA(t *testing.T) {
	stock := &models.StockData{
		Ticker: "NEWCO.US",
		Name:   "NEWCO",
		Snapshot: &models.TechnicalSnapshot{
			Ticker:    "NEWCO.US",
			Price:     12.50,
			RSIClass:  "neutral",
			MACDClass: "none",
		},
	}

	text := BuildPrompt(LookupPersona("balanced"), stock, nil)

	assert.Contains(t, text, "- Macro data unavailable")
	assert.Contains(t, text, "- Weekly Change: N/A")
	assert.Contains(t, text, "- 20-Day Moving Average (MA20): N/A")
	assert.Contains(t, text, "- RSI (14-Day): N/A (neutral)")
	assert.Contains(t, text, "- Short Ratio: N/A")
	assert.Contains(t, text, "- Fundamental data unavailable")
	assert.Contains(t, text, "- Analyst Target Price (Mean): N/A")
	assert.Contains(t, text, "- NEXT EARNINGS DATE: N/A")
	assert.Contains(t, text, "- No recent headlines found")
	assert.Contains(t, text, "- No recent insider transactions reported")
	assert.NotContains(t, text, "Sector ETF")
}

func TestBuildPrompt_NoSnapshot(t *testing.T) {
	stock := &models.StockData{Ticker: "X.US", Name: "X"}
	text := BuildPrompt(LookupPersona("technical"), stock, sampleMacro())
	assert.Contains(t, text, "- Price history unavailable")
}

func TestBuildPrompt_InvestorPersona(t *testing.T) {
	persona := LookupPersona("buffett")
	text := BuildPrompt(persona, sampleStockData(), sampleMacro())
	assert.Contains(t, text, "You are Warren Buffett")
	assert.Contains(t, text, "Based on your unique expertise as Warren Buffett")
}

func TestFormatCashflow(t *testing.T) {
	assert.Equal(t, "$99.50B", formatCashflow(99.5e9))
	assert.Equal(t, "$-2.30B", formatCashflow(-2.3e9))
	assert.Equal(t, "$450.00M", formatCashflow(450e6))
	assert.Equal(t, "N/A", formatCashflow(0))
}
