// Package interfaces defines service contracts for Ollie
package interfaces

import (
	"context"

	"github.com/bobmcallan/ollie/internal/models"
)

// StorageManager coordinates the 2 storage areas
type StorageManager interface {
	InternalStore() InternalStore
	MarketDataStorage() MarketDataStorage

	// DataPath returns the base market data directory path.
	DataPath() string

	// WriteRaw writes arbitrary binary data (e.g. chart PNGs) to a
	// subdirectory atomically. Key is sanitized for safe filenames.
	WriteRaw(subdir, key string, data []byte) error

	// PurgeMarketData deletes all cached market data files and returns the count.
	PurgeMarketData(ctx context.Context) (int, error)

	Close() error
}

// InternalStore manages the watchlist, prompt history, and system-level KV.
type InternalStore interface {
	// Watchlist
	GetWatchlist(ctx context.Context, name string) (*models.Watchlist, error)
	SaveWatchlist(ctx context.Context, watchlist *models.Watchlist) error
	DeleteWatchlist(ctx context.Context, name string) error

	// Prompt history
	SavePromptRecord(ctx context.Context, record *models.PromptRecord) error
	ListPromptRecords(ctx context.Context, limit int) ([]*models.PromptRecord, error)
	DeletePromptRecords(ctx context.Context) (int, error)
	// PrunePromptRecords deletes the oldest records beyond max, returning
	// the count removed.
	PrunePromptRecords(ctx context.Context, max int) (int, error)

	// System key-value
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}

// MarketDataStorage manages the per-ticker market data cache
type MarketDataStorage interface {
	GetMarketData(ctx context.Context, ticker string) (*models.MarketData, error)
	SaveMarketData(ctx context.Context, data *models.MarketData) error
	DeleteMarketData(ctx context.Context, ticker string) error
	ListTickers(ctx context.Context) ([]string, error)

	// Macro context cache (single record)
	GetMacroContext(ctx context.Context) (*models.MacroContext, error)
	SaveMacroContext(ctx context.Context, macro *models.MacroContext) error
}
