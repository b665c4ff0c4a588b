// Package storage provides the top-level StorageManager that coordinates
// the 2 storage areas: internaldb and marketfs.
package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/storage/internaldb"
	"github.com/bobmcallan/ollie/internal/storage/marketfs"
)

// Manager implements interfaces.StorageManager using 2 storage areas.
type Manager struct {
	internal *internaldb.Store
	market   *marketfs.Store
	logger   *common.Logger
}

// NewManager creates a new StorageManager with the 2 storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	internalStore, err := internaldb.NewStore(logger, config.Storage.Internal.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create internal store: %w", err)
	}

	marketStore, err := marketfs.NewMarketStore(logger, config.Storage.Market.Path)
	if err != nil {
		internalStore.Close()
		return nil, fmt.Errorf("failed to create market store: %w", err)
	}

	logger.Info().
		Str("internal", config.Storage.Internal.Path).
		Str("market", config.Storage.Market.Path).
		Msg("Storage manager initialized (2 areas)")

	return &Manager{
		internal: internalStore,
		market:   marketStore,
		logger:   logger,
	}, nil
}

func (m *Manager) InternalStore() interfaces.InternalStore {
	return m.internal
}

func (m *Manager) MarketDataStorage() interfaces.MarketDataStorage {
	return m.market.MarketDataStorage()
}

func (m *Manager) DataPath() string {
	return m.market.DataPath()
}

func (m *Manager) WriteRaw(subdir, key string, data []byte) error {
	return m.market.WriteRaw(subdir, key, data)
}

func (m *Manager) PurgeMarketData(_ context.Context) (int, error) {
	count := m.market.PurgeMarket()
	m.logger.Info().Int("count", count).Msg("Market data purged")
	return count, nil
}

func (m *Manager) Close() error {
	var firstErr error
	if err := m.internal.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := m.market.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
