package market

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/models"
	"github.com/bobmcallan/ollie/internal/signals"
)

// sectorETFs maps provider sector names to the SPDR sector ETF used as the
// sector benchmark in the macro context.
var sectorETFs = map[string]string{
	"Technology":             "XLK.US",
	"Financial Services":     "XLF.US",
	"Financial":              "XLF.US",
	"Healthcare":             "XLV.US",
	"Consumer Cyclical":      "XLY.US",
	"Consumer Defensive":     "XLP.US",
	"Energy":                 "XLE.US",
	"Industrials":            "XLI.US",
	"Basic Materials":        "XLB.US",
	"Utilities":              "XLU.US",
	"Real Estate":            "XLRE.US",
	"Communication Services": "XLC.US",
}

// SectorETF returns the benchmark ETF ticker for a sector, or "".
func SectorETF(sector string) string {
	return sectorETFs[sector]
}

// GetMacroContext returns the global market backdrop. The index quotes and
// benchmark change are cached with a short TTL; the sector ETF change is
// resolved per call from the sector argument. Individual failures degrade
// to zero values so a missing index never blocks prompt generation.
func (s *Service) GetMacroContext(ctx context.Context, sector string) (*models.MacroContext, error) {
	macro, err := s.cachedMacro(ctx)
	if err != nil {
		return nil, err
	}

	if etf := SectorETF(sector); etf != "" {
		if pct, err := s.weeklyChange(ctx, etf); err != nil {
			s.logger.Warn().Str("etf", etf).Err(err).Msg("Failed to compute sector ETF change")
		} else {
			macro.SectorETF = etf
			macro.SectorETFWeekPct = pct
			macro.HasSectorETF = true
		}
	}

	return macro, nil
}

// cachedMacro returns the VIX / 10Y / benchmark snapshot, refreshing it when
// the cached copy is older than FreshnessMacro.
func (s *Service) cachedMacro(ctx context.Context) (*models.MacroContext, error) {
	cached, err := s.storage.MarketDataStorage().GetMacroContext(ctx)
	if err == nil && common.IsFresh(cached.RetrievedAt, common.FreshnessMacro) {
		// Copy so sector fields set per call never leak into the cache
		snapshot := *cached
		snapshot.SectorETF = ""
		snapshot.SectorETFWeekPct = 0
		snapshot.HasSectorETF = false
		return &snapshot, nil
	}

	if s.eodhd == nil {
		return nil, fmt.Errorf("EODHD client not configured")
	}

	macro := &models.MacroContext{
		BenchmarkTicker: s.config.Macro.Benchmark,
		RetrievedAt:     time.Now(),
	}

	if quote, err := s.eodhd.GetRealTimeQuote(ctx, s.config.Macro.VolatilityIndex); err != nil {
		s.logger.Warn().Str("ticker", s.config.Macro.VolatilityIndex).Err(err).Msg("Failed to fetch volatility index")
	} else {
		macro.VIX = quote.Close
	}

	if quote, err := s.eodhd.GetRealTimeQuote(ctx, s.config.Macro.TenYearYield); err != nil {
		s.logger.Warn().Str("ticker", s.config.Macro.TenYearYield).Err(err).Msg("Failed to fetch 10Y yield")
	} else {
		macro.TenYearYield = quote.Close
	}

	if pct, err := s.weeklyChange(ctx, s.config.Macro.Benchmark); err != nil {
		s.logger.Warn().Str("ticker", s.config.Macro.Benchmark).Err(err).Msg("Failed to compute benchmark change")
	} else {
		macro.BenchmarkWeekPct = pct
	}

	if err := s.storage.MarketDataStorage().SaveMacroContext(ctx, macro); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to cache macro context")
	}

	return macro, nil
}

// weeklyChange computes the 5-trading-day percent change for a ticker,
// reusing the EOD cache machinery.
func (s *Service) weeklyChange(ctx context.Context, ticker string) (float64, error) {
	if err := s.CollectEOD(ctx, ticker, false); err != nil {
		return 0, err
	}
	data, err := s.storage.MarketDataStorage().GetMarketData(ctx, ticker)
	if err != nil {
		return 0, err
	}
	pct, ok := signals.WeeklyChange(data.EOD)
	if !ok {
		return 0, fmt.Errorf("insufficient history for %s", ticker)
	}
	return pct, nil
}
