// Package interfaces defines service contracts for Ollie
package interfaces

import (
	"context"

	"github.com/bobmcallan/ollie/internal/models"
)

// MarketService fetches, caches, and assembles per-symbol market data
type MarketService interface {
	// GetStockData returns everything the prompt builder needs for a symbol,
	// refreshing stale components from the provider.
	GetStockData(ctx context.Context, ticker string, force bool) (*models.StockData, error)

	// GetMacroContext returns the global market backdrop (VIX, 10Y yield,
	// benchmark weekly change, sector ETF weekly change for the given sector).
	GetMacroContext(ctx context.Context, sector string) (*models.MacroContext, error)

	// CollectEOD refreshes the EOD price cache for a ticker
	CollectEOD(ctx context.Context, ticker string, force bool) error
}

// GenerateOptions configures prompt generation
type GenerateOptions struct {
	PersonaKey   string // persona lookup key; empty uses the configured default
	ForceRefresh bool   // bypass cache freshness checks
	SaveToFile   bool   // write {TICKER}_expert_prompt.txt to the output dir
	SkipHistory  bool   // do not record the prompt in history
}

// PromptService generates analyst prompts and manages their history
type PromptService interface {
	// Generate builds the full multi-section prompt for a ticker and persona
	Generate(ctx context.Context, ticker string, opts GenerateOptions) (*models.GeneratedPrompt, error)

	// RunAnalysis generates a prompt and runs it through the AI client
	RunAnalysis(ctx context.Context, ticker string, opts GenerateOptions) (string, error)

	// Personas returns all registered personas, analyst personas first
	Personas() []models.Persona

	// History returns the most recent prompt records, newest first
	History(ctx context.Context, limit int) ([]*models.PromptRecord, error)

	// ClearHistory removes all prompt records and returns the count deleted
	ClearHistory(ctx context.Context) (int, error)
}

// ChartService renders price charts from cached market data
type ChartService interface {
	// RenderPriceChart renders a close-price PNG with an MA20 overlay over
	// the last 40 trading days and stores it under charts/ in the data dir.
	RenderPriceChart(ctx context.Context, ticker string) ([]byte, error)
}

// WatchlistService manages the persistent ticker watchlist
type WatchlistService interface {
	// GetWatchlist retrieves the watchlist, seeding defaults when empty
	GetWatchlist(ctx context.Context) (*models.Watchlist, error)

	// AddOrUpdateItem upserts an item keyed on ticker
	AddOrUpdateItem(ctx context.Context, item *models.WatchlistItem) (*models.Watchlist, error)

	// UpdateItem merges non-zero fields into an existing item
	UpdateItem(ctx context.Context, ticker string, update *models.WatchlistItem) (*models.Watchlist, error)

	// RemoveItem removes a ticker from the watchlist
	RemoveItem(ctx context.Context, ticker string) (*models.Watchlist, error)
}
