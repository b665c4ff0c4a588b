// Package internaldb implements InternalStore using BadgerHold.
// It manages the watchlist, prompt history, and system-level KV.
package internaldb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/models"
)

// Store implements interfaces.InternalStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// systemKVPrefix namespaces system KV keys away from other record types.
const systemKVPrefix = "__system__\x00"

// systemKeyValue is a stored system setting (API keys etc).
type systemKeyValue struct {
	Key      string
	Value    string
	Version  int
	DateTime time.Time
}

// NewStore creates a new InternalStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create internal db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open internal db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("InternalDB opened")
	return &Store{db: db, logger: logger}, nil
}

// --- Watchlist ---

func (s *Store) GetWatchlist(_ context.Context, name string) (*models.Watchlist, error) {
	var watchlist models.Watchlist
	if err := s.db.Get(name, &watchlist); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get watchlist '%s': %w", name, err)
	}
	return &watchlist, nil
}

func (s *Store) SaveWatchlist(_ context.Context, watchlist *models.Watchlist) error {
	if watchlist.Name == "" {
		return fmt.Errorf("watchlist name is required")
	}
	watchlist.Updated = time.Now()
	if err := s.db.Upsert(watchlist.Name, watchlist); err != nil {
		return fmt.Errorf("failed to save watchlist '%s': %w", watchlist.Name, err)
	}
	s.logger.Debug().Str("watchlist", watchlist.Name).Int("items", len(watchlist.Items)).Msg("Watchlist saved")
	return nil
}

func (s *Store) DeleteWatchlist(_ context.Context, name string) error {
	if err := s.db.Delete(name, models.Watchlist{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete watchlist '%s': %w", name, err)
	}
	return nil
}

// --- Prompt history ---

func (s *Store) SavePromptRecord(_ context.Context, record *models.PromptRecord) error {
	if record.ID == "" {
		return fmt.Errorf("prompt record ID is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if err := s.db.Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save prompt record '%s': %w", record.ID, err)
	}
	s.logger.Debug().Str("ticker", record.Ticker).Str("persona", record.PersonaKey).Msg("Prompt record saved")
	return nil
}

func (s *Store) ListPromptRecords(_ context.Context, limit int) ([]*models.PromptRecord, error) {
	var records []models.PromptRecord
	if err := s.db.Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list prompt records: %w", err)
	}
	// Newest first
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	result := make([]*models.PromptRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *Store) DeletePromptRecords(_ context.Context) (int, error) {
	var records []models.PromptRecord
	if err := s.db.Find(&records, nil); err != nil {
		return 0, fmt.Errorf("failed to list prompt records: %w", err)
	}
	deleted := 0
	for _, record := range records {
		if err := s.db.Delete(record.ID, models.PromptRecord{}); err != nil && err != badgerhold.ErrNotFound {
			return deleted, fmt.Errorf("failed to delete prompt record '%s': %w", record.ID, err)
		}
		deleted++
	}
	s.logger.Debug().Int("deleted", deleted).Msg("Prompt history cleared")
	return deleted, nil
}

func (s *Store) PrunePromptRecords(ctx context.Context, max int) (int, error) {
	if max <= 0 {
		return s.DeletePromptRecords(ctx)
	}
	var records []models.PromptRecord
	if err := s.db.Find(&records, nil); err != nil {
		return 0, fmt.Errorf("failed to list prompt records: %w", err)
	}
	if len(records) <= max {
		return 0, nil
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	pruned := 0
	for _, record := range records[max:] {
		if err := s.db.Delete(record.ID, models.PromptRecord{}); err != nil && err != badgerhold.ErrNotFound {
			return pruned, fmt.Errorf("failed to prune prompt record '%s': %w", record.ID, err)
		}
		pruned++
	}
	return pruned, nil
}

// --- System key-value ---

func (s *Store) GetSystemKV(_ context.Context, key string) (string, error) {
	var kv systemKeyValue
	if err := s.db.Get(systemKVPrefix+key, &kv); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to get system kv '%s': %w", key, err)
	}
	return kv.Value, nil
}

func (s *Store) SetSystemKV(_ context.Context, key, value string) error {
	compositeKey := systemKVPrefix + key

	var existing systemKeyValue
	version := 1
	if err := s.db.Get(compositeKey, &existing); err == nil {
		version = existing.Version + 1
	}

	kv := &systemKeyValue{
		Key:      key,
		Value:    value,
		Version:  version,
		DateTime: time.Now(),
	}
	if err := s.db.Upsert(compositeKey, kv); err != nil {
		return fmt.Errorf("failed to set system kv '%s': %w", key, err)
	}
	return nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
