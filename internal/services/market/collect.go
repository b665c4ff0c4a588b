package market

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/models"
)

// Collect refreshes every stale cache component for a ticker and returns the
// merged market data. A failure on the EOD bars is fatal (nothing useful can
// be built without prices); failures on the other components degrade to
// whatever the cache already holds.
func (s *Service) Collect(ctx context.Context, ticker string, force bool) (*models.MarketData, error) {
	now := time.Now()

	existing, _ := s.storage.MarketDataStorage().GetMarketData(ctx, ticker)
	marketData := &models.MarketData{
		Ticker:   ticker,
		Exchange: extractExchange(ticker),
	}
	if existing != nil {
		marketData = existing
	}

	if err := s.collectEOD(ctx, marketData, force, now); err != nil {
		return nil, err
	}

	// --- Fundamentals ---
	if force || !common.IsFresh(marketData.FundamentalsUpdatedAt, common.FreshnessFundamentals) {
		fundamentals, err := s.eodhd.GetFundamentals(ctx, ticker)
		if err != nil {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to fetch fundamentals")
		} else {
			marketData.Fundamentals = fundamentals
			marketData.FundamentalsUpdatedAt = now
			if fundamentals.Name != "" {
				marketData.Name = fundamentals.Name
			}
		}
	}

	// --- News (provider first, RSS fallback) ---
	if force || !common.IsFresh(marketData.NewsUpdatedAt, common.FreshnessNews) {
		limit := s.config.Prompt.NewsLimit
		news, err := s.eodhd.GetNews(ctx, ticker, limit)
		if err != nil {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to fetch provider news")
		}
		if len(news) == 0 && s.newsFeed != nil {
			fallback, fbErr := s.newsFeed.FetchHeadlines(ctx, marketData.Ticker, limit)
			if fbErr != nil {
				s.logger.Warn().Str("ticker", ticker).Err(fbErr).Msg("News feed fallback failed")
			} else if len(fallback) > 0 {
				s.logger.Debug().Str("ticker", ticker).Int("count", len(fallback)).Msg("Using news feed fallback")
				news = fallback
			}
		}
		if len(news) > 0 {
			marketData.News = news
			marketData.NewsUpdatedAt = now
		}
	}

	// --- Insider transactions ---
	if force || !common.IsFresh(marketData.InsiderUpdatedAt, common.FreshnessInsider) {
		insider, err := s.eodhd.GetInsiderTransactions(ctx, ticker, 5)
		if err != nil {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to fetch insider transactions")
		} else {
			marketData.Insider = insider
			marketData.InsiderUpdatedAt = now
		}
	}

	// --- Next earnings ---
	if force || !common.IsFresh(marketData.EarningsUpdatedAt, common.FreshnessEarnings) {
		earnings, err := s.eodhd.GetNextEarnings(ctx, ticker)
		if err != nil {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to fetch earnings calendar")
		} else {
			marketData.NextEarnings = earnings
			marketData.EarningsUpdatedAt = now
		}
	}

	if err := s.storage.MarketDataStorage().SaveMarketData(ctx, marketData); err != nil {
		return nil, fmt.Errorf("failed to save market data: %w", err)
	}

	return marketData, nil
}

// CollectEOD refreshes the EOD price cache for a ticker.
func (s *Service) CollectEOD(ctx context.Context, ticker string, force bool) error {
	ticker = NormalizeTicker(ticker)
	now := time.Now()

	existing, _ := s.storage.MarketDataStorage().GetMarketData(ctx, ticker)
	marketData := &models.MarketData{
		Ticker:   ticker,
		Exchange: extractExchange(ticker),
	}
	if existing != nil {
		marketData = existing
	}

	if err := s.collectEOD(ctx, marketData, force, now); err != nil {
		return err
	}

	if err := s.storage.MarketDataStorage().SaveMarketData(ctx, marketData); err != nil {
		return fmt.Errorf("failed to save market data: %w", err)
	}
	return nil
}

// collectEOD refreshes marketData.EOD in place when stale. Incremental
// fetches pull only bars after the latest stored date and merge in front.
func (s *Service) collectEOD(ctx context.Context, marketData *models.MarketData, force bool, now time.Time) error {
	if !force && common.IsFresh(marketData.EODUpdatedAt, common.FreshnessEOD) {
		return nil
	}

	if s.eodhd == nil {
		return fmt.Errorf("EODHD client not configured")
	}

	// Incremental fetch: only bars after the latest stored date
	if !force && len(marketData.EOD) > 0 {
		latestDate := marketData.EOD[0].Date
		fromDate := latestDate.AddDate(0, 0, 1)
		if fromDate.Before(now) {
			s.logger.Debug().Str("ticker", marketData.Ticker).Str("from", fromDate.Format("2006-01-02")).Msg("Incremental EOD fetch")
			eodResp, err := s.eodhd.GetEOD(ctx, marketData.Ticker, interfaces.WithDateRange(fromDate, now))
			if err != nil {
				return fmt.Errorf("failed to fetch incremental EOD data: %w", err)
			}
			if len(eodResp.Data) > 0 {
				marketData.EOD = mergeEODBars(eodResp.Data, marketData.EOD)
			}
		}
		marketData.EODUpdatedAt = now
		return nil
	}

	// Full fetch: one year of history covers the 52-week range
	eodResp, err := s.eodhd.GetEOD(ctx, marketData.Ticker, interfaces.WithDateRange(now.AddDate(-1, 0, 0), now))
	if err != nil {
		return fmt.Errorf("failed to fetch EOD data: %w", err)
	}
	marketData.EOD = eodResp.Data
	marketData.EODUpdatedAt = now
	return nil
}

// mergeEODBars prepends new bars (descending) onto existing bars, dropping
// any overlap by date.
func mergeEODBars(newBars, existing []models.EODBar) []models.EODBar {
	if len(newBars) == 0 {
		return existing
	}
	if len(existing) == 0 {
		return newBars
	}

	oldestNew := newBars[len(newBars)-1].Date
	merged := make([]models.EODBar, 0, len(newBars)+len(existing))
	merged = append(merged, newBars...)
	for _, bar := range existing {
		if bar.Date.Before(oldestNew) {
			merged = append(merged, bar)
		}
	}
	return merged
}
