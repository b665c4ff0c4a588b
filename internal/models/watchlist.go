package models

import (
	"strings"
	"time"
)

// Watchlist is the persistent set of tickers the user tracks
type Watchlist struct {
	Name    string          `json:"name" badgerhold:"key"`
	Items   []WatchlistItem `json:"items"`
	Updated time.Time       `json:"updated"`
}

// WatchlistItem is a single tracked ticker
type WatchlistItem struct {
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindByTicker returns the item and index for a ticker, or (nil, -1).
// Lookup is case-insensitive.
func (w *Watchlist) FindByTicker(ticker string) (*WatchlistItem, int) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for i := range w.Items {
		if strings.ToUpper(w.Items[i].Ticker) == ticker {
			return &w.Items[i], i
		}
	}
	return nil, -1
}

// Tickers returns the ticker symbols in order.
func (w *Watchlist) Tickers() []string {
	out := make([]string, len(w.Items))
	for i, item := range w.Items {
		out[i] = item.Ticker
	}
	return out
}
