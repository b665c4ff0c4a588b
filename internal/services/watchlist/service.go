// Package watchlist provides persistent watchlist management
package watchlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/models"
)

// Compile-time interface check
var _ interfaces.WatchlistService = (*Service)(nil)

// DefaultName is the single watchlist this tool maintains.
const DefaultName = "default"

// defaultTickers seed a fresh watchlist so a first run has something to show.
var defaultTickers = []string{"AAPL", "TSLA", "NVDA"}

// Service implements WatchlistService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new watchlist service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// GetWatchlist retrieves the watchlist, seeding the defaults when none exists.
func (s *Service) GetWatchlist(ctx context.Context) (*models.Watchlist, error) {
	wl, err := s.storage.InternalStore().GetWatchlist(ctx, DefaultName)
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}
	if wl != nil {
		return wl, nil
	}

	now := time.Now()
	wl = &models.Watchlist{Name: DefaultName}
	for _, ticker := range defaultTickers {
		wl.Items = append(wl.Items, models.WatchlistItem{
			Ticker:    ticker,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.storage.InternalStore().SaveWatchlist(ctx, wl); err != nil {
		return nil, fmt.Errorf("failed to seed watchlist: %w", err)
	}
	s.logger.Info().Strs("tickers", defaultTickers).Msg("Watchlist seeded with defaults")
	return wl, nil
}

// AddOrUpdateItem adds a new item or updates an existing one (upsert keyed on ticker)
func (s *Service) AddOrUpdateItem(ctx context.Context, item *models.WatchlistItem) (*models.Watchlist, error) {
	item.Ticker = strings.ToUpper(strings.TrimSpace(item.Ticker))
	if item.Ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	wl, err := s.GetWatchlist(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	existing, idx := wl.FindByTicker(item.Ticker)
	if idx >= 0 {
		item.CreatedAt = existing.CreatedAt
		item.UpdatedAt = now
		wl.Items[idx] = *item
	} else {
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		item.UpdatedAt = now
		wl.Items = append(wl.Items, *item)
	}

	if err := s.storage.InternalStore().SaveWatchlist(ctx, wl); err != nil {
		return nil, fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("ticker", item.Ticker).Msg("Watchlist item upserted")
	return wl, nil
}

// UpdateItem updates an existing item by ticker (merge semantics — only
// non-zero fields overwrite).
func (s *Service) UpdateItem(ctx context.Context, ticker string, update *models.WatchlistItem) (*models.Watchlist, error) {
	wl, err := s.GetWatchlist(ctx)
	if err != nil {
		return nil, err
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	_, idx := wl.FindByTicker(ticker)
	if idx < 0 {
		return nil, fmt.Errorf("ticker '%s' not found in watchlist", ticker)
	}

	existing := &wl.Items[idx]
	if update.Name != "" {
		existing.Name = update.Name
	}
	if update.Notes != "" {
		existing.Notes = update.Notes
	}
	existing.UpdatedAt = time.Now()

	if err := s.storage.InternalStore().SaveWatchlist(ctx, wl); err != nil {
		return nil, fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("ticker", ticker).Msg("Watchlist item updated")
	return wl, nil
}

// RemoveItem removes a ticker from the watchlist
func (s *Service) RemoveItem(ctx context.Context, ticker string) (*models.Watchlist, error) {
	wl, err := s.GetWatchlist(ctx)
	if err != nil {
		return nil, err
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	_, idx := wl.FindByTicker(ticker)
	if idx < 0 {
		return nil, fmt.Errorf("ticker '%s' not found in watchlist", ticker)
	}

	wl.Items = append(wl.Items[:idx], wl.Items[idx+1:]...)

	if err := s.storage.InternalStore().SaveWatchlist(ctx, wl); err != nil {
		return nil, fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("ticker", ticker).Msg("Watchlist item removed")
	return wl, nil
}
