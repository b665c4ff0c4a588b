// Package models defines data structures for Ollie
package models

import (
	"time"
)

// MarketData holds all cached market data for a ticker
type MarketData struct {
	Ticker       string               `json:"ticker"`
	Exchange     string               `json:"exchange"`
	Name         string               `json:"name"`
	EOD          []EODBar             `json:"eod"`
	Fundamentals *Fundamentals        `json:"fundamentals,omitempty"`
	News         []*NewsItem          `json:"news,omitempty"`
	Insider      []InsiderTransaction `json:"insider,omitempty"`
	NextEarnings *EarningsEvent       `json:"next_earnings,omitempty"`
	LastUpdated  time.Time            `json:"last_updated"`
	// Per-component freshness timestamps
	EODUpdatedAt          time.Time `json:"eod_updated_at"`
	FundamentalsUpdatedAt time.Time `json:"fundamentals_updated_at"`
	NewsUpdatedAt         time.Time `json:"news_updated_at"`
	InsiderUpdatedAt      time.Time `json:"insider_updated_at"`
	EarningsUpdatedAt     time.Time `json:"earnings_updated_at"`
}

// EODBar represents a single day's price data.
// Bars are stored most-recent-first.
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// Fundamentals contains fundamental and analyst data for a stock
type Fundamentals struct {
	Ticker         string    `json:"ticker"`
	Name           string    `json:"name"`
	Sector         string    `json:"sector"`
	Industry       string    `json:"industry"`
	MarketCap      float64   `json:"market_cap"`
	ForwardPE      float64   `json:"forward_pe"`
	Beta           float64   `json:"beta"`
	High52Week     float64   `json:"high_52_week"`
	Low52Week      float64   `json:"low_52_week"`
	GrossMargin    float64   `json:"gross_margin"`     // fraction, e.g. 0.42
	ReturnOnEquity float64   `json:"return_on_equity"` // fraction
	FreeCashflow   float64   `json:"free_cashflow"`    // dollars
	ShortRatio     float64   `json:"short_ratio"`      // days to cover
	TargetPrice    float64   `json:"target_price"`     // analyst mean target
	Recommendation string    `json:"recommendation"`   // e.g. "Buy", "Strong buy"
	DividendYield  float64   `json:"dividend_yield"`
	EPS            float64   `json:"eps"`
	Description    string    `json:"description,omitempty"`
	LastUpdated    time.Time `json:"last_updated"`
}

// NewsItem represents a news headline
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Sentiment   string    `json:"sentiment,omitempty"` // positive, negative, neutral
}

// InsiderTransaction represents a single insider trade
type InsiderTransaction struct {
	Date       time.Time `json:"date"`
	OwnerName  string    `json:"owner_name"`
	OwnerTitle string    `json:"owner_title,omitempty"`
	Type       string    `json:"type"` // "Buy" or "Sell"
	Shares     int64     `json:"shares"`
	Price      float64   `json:"price"`
}

// EarningsEvent represents an upcoming earnings report
type EarningsEvent struct {
	Ticker      string    `json:"ticker"`
	ReportDate  time.Time `json:"report_date"`
	EPSEstimate float64   `json:"eps_estimate,omitempty"`
}

// MacroContext holds the global market backdrop included in every prompt
type MacroContext struct {
	VIX              float64   `json:"vix"`
	TenYearYield     float64   `json:"ten_year_yield"`
	BenchmarkTicker  string    `json:"benchmark_ticker"`
	BenchmarkWeekPct float64   `json:"benchmark_week_pct"`
	SectorETF        string    `json:"sector_etf,omitempty"`
	SectorETFWeekPct float64   `json:"sector_etf_week_pct,omitempty"`
	HasSectorETF     bool      `json:"has_sector_etf"`
	RetrievedAt      time.Time `json:"retrieved_at"`
}

// RealTimeQuote holds a live OHLCV snapshot from the price source
type RealTimeQuote struct {
	Code          string    `json:"code"`
	Close         float64   `json:"close"` // current/last price
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_p"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// StockData combines everything the prompt builder needs for a symbol
type StockData struct {
	Ticker       string               `json:"ticker"`
	Name         string               `json:"name"`
	Snapshot     *TechnicalSnapshot   `json:"snapshot,omitempty"`
	Fundamentals *Fundamentals        `json:"fundamentals,omitempty"`
	News         []*NewsItem          `json:"news,omitempty"`
	Insider      []InsiderTransaction `json:"insider,omitempty"`
	NextEarnings *EarningsEvent       `json:"next_earnings,omitempty"`
}

// EODResponse represents the provider's EOD price response
type EODResponse struct {
	Data []EODBar `json:"data"`
}
