// Package market provides market data collection and assembly services
package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/models"
	"github.com/bobmcallan/ollie/internal/signals"
)

// Service implements MarketService
type Service struct {
	storage        interfaces.StorageManager
	eodhd          interfaces.EODHDClient
	newsFeed       interfaces.NewsFeedClient
	signalComputer *signals.Computer
	config         *common.Config
	logger         *common.Logger
}

// NewService creates a new market service
func NewService(
	storage interfaces.StorageManager,
	eodhd interfaces.EODHDClient,
	newsFeed interfaces.NewsFeedClient,
	config *common.Config,
	logger *common.Logger,
) *Service {
	return &Service{
		storage:        storage,
		eodhd:          eodhd,
		newsFeed:       newsFeed,
		signalComputer: signals.NewComputer(),
		config:         config,
		logger:         logger,
	}
}

// GetStockData assembles everything the prompt builder needs for a symbol,
// refreshing stale cache components from the provider first.
func (s *Service) GetStockData(ctx context.Context, ticker string, force bool) (*models.StockData, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	marketData, err := s.Collect(ctx, ticker, force)
	if err != nil {
		return nil, err
	}

	snapshot := s.signalComputer.Compute(marketData)

	name := marketData.Name
	if name == "" && marketData.Fundamentals != nil {
		name = marketData.Fundamentals.Name
	}
	if name == "" {
		name = strings.SplitN(ticker, ".", 2)[0]
	}

	return &models.StockData{
		Ticker:       ticker,
		Name:         name,
		Snapshot:     snapshot,
		Fundamentals: marketData.Fundamentals,
		News:         marketData.News,
		Insider:      marketData.Insider,
		NextEarnings: marketData.NextEarnings,
	}, nil
}

// NormalizeTicker uppercases a symbol and appends the default US exchange
// suffix when none is given (the provider requires CODE.EXCHANGE).
func NormalizeTicker(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return ""
	}
	if !strings.Contains(ticker, ".") {
		ticker += ".US"
	}
	return ticker
}

// extractExchange returns the exchange suffix of a ticker ("AAPL.US" -> "US").
func extractExchange(ticker string) string {
	if idx := strings.LastIndex(ticker, "."); idx >= 0 {
		return ticker[idx+1:]
	}
	return ""
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
