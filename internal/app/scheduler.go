package app

import (
	"context"
	"time"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
)

// startWatchlistScheduler refreshes EOD prices for watchlist tickers on a
// fixed interval. Collection honors per-component freshness, so a tick where
// everything is still fresh is a no-op against the provider.
func startWatchlistScheduler(ctx context.Context, watchlistService interfaces.WatchlistService, marketService interfaces.MarketService, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Watchlist scheduler: stopped")
			return
		case <-ticker.C:
			refreshWatchlist(ctx, watchlistService, marketService, logger)
		}
	}
}

func refreshWatchlist(ctx context.Context, watchlistService interfaces.WatchlistService, marketService interfaces.MarketService, logger *common.Logger) {
	start := time.Now()

	watchlist, err := watchlistService.GetWatchlist(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Watchlist refresh: failed to load watchlist")
		return
	}

	tickers := watchlist.Tickers()
	if len(tickers) == 0 {
		return
	}

	refreshed := 0
	for _, t := range tickers {
		if err := marketService.CollectEOD(ctx, t, false); err != nil {
			logger.Warn().Err(err).Str("ticker", t).Msg("Watchlist refresh: collection failed")
			continue
		}
		refreshed++
	}

	logger.Info().
		Int("tickers", len(tickers)).
		Int("refreshed", refreshed).
		Dur("elapsed", time.Since(start)).
		Msg("Watchlist refresh: complete")
}
