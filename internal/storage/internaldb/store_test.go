package internaldb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/models"
)

func newUnitTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	logger := common.NewLogger("debug")
	store, err := NewStore(logger, dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestWatchlistCRUD(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	// Missing watchlist returns nil without error
	got, err := store.GetWatchlist(ctx, "default")
	if err != nil {
		t.Fatalf("GetWatchlist: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing watchlist, got %+v", got)
	}

	watchlist := &models.Watchlist{
		Name: "default",
		Items: []models.WatchlistItem{
			{Ticker: "AAPL", Name: "Apple Inc", CreatedAt: time.Now()},
			{Ticker: "TSLA", Name: "Tesla Inc", CreatedAt: time.Now()},
		},
	}
	if err := store.SaveWatchlist(ctx, watchlist); err != nil {
		t.Fatalf("SaveWatchlist: %v", err)
	}

	got, err = store.GetWatchlist(ctx, "default")
	if err != nil {
		t.Fatalf("GetWatchlist: %v", err)
	}
	if got == nil || len(got.Items) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Updated.IsZero() {
		t.Error("Updated should be set on save")
	}

	// Upsert replaces items
	watchlist.Items = append(watchlist.Items, models.WatchlistItem{Ticker: "NVDA"})
	if err := store.SaveWatchlist(ctx, watchlist); err != nil {
		t.Fatalf("SaveWatchlist update: %v", err)
	}
	got, _ = store.GetWatchlist(ctx, "default")
	if len(got.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(got.Items))
	}

	if err := store.DeleteWatchlist(ctx, "default"); err != nil {
		t.Fatalf("DeleteWatchlist: %v", err)
	}
	got, _ = store.GetWatchlist(ctx, "default")
	if got != nil {
		t.Error("watchlist should be gone after delete")
	}
}

func TestSaveWatchlistRequiresName(t *testing.T) {
	store := newUnitTestStore(t)
	if err := store.SaveWatchlist(context.Background(), &models.Watchlist{}); err == nil {
		t.Fatal("expected error for empty watchlist name")
	}
}

func TestPromptRecordHistory(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		record := &models.PromptRecord{
			ID:         fmt.Sprintf("rec-%d", i),
			Ticker:     "AAPL",
			PersonaKey: "value",
			Text:       fmt.Sprintf("prompt %d", i),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SavePromptRecord(ctx, record); err != nil {
			t.Fatalf("SavePromptRecord: %v", err)
		}
	}

	// Newest first
	records, err := store.ListPromptRecords(ctx, 0)
	if err != nil {
		t.Fatalf("ListPromptRecords: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if records[0].ID != "rec-4" {
		t.Errorf("expected newest record first, got %s", records[0].ID)
	}

	// Limit applies after sorting
	records, _ = store.ListPromptRecords(ctx, 2)
	if len(records) != 2 || records[1].ID != "rec-3" {
		t.Errorf("limit not applied correctly: %+v", records)
	}
}

func TestSavePromptRecordRequiresID(t *testing.T) {
	store := newUnitTestStore(t)
	if err := store.SavePromptRecord(context.Background(), &models.PromptRecord{Ticker: "AAPL"}); err == nil {
		t.Fatal("expected error for missing record ID")
	}
}

func TestPrunePromptRecords(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 8; i++ {
		record := &models.PromptRecord{
			ID:        fmt.Sprintf("rec-%d", i),
			Ticker:    "TSLA",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SavePromptRecord(ctx, record); err != nil {
			t.Fatalf("SavePromptRecord: %v", err)
		}
	}

	pruned, err := store.PrunePromptRecords(ctx, 5)
	if err != nil {
		t.Fatalf("PrunePromptRecords: %v", err)
	}
	if pruned != 3 {
		t.Errorf("expected 3 pruned, got %d", pruned)
	}

	records, _ := store.ListPromptRecords(ctx, 0)
	if len(records) != 5 {
		t.Fatalf("expected 5 remaining, got %d", len(records))
	}
	// Oldest survivors are rec-3..rec-7
	if records[len(records)-1].ID != "rec-3" {
		t.Errorf("expected oldest survivor rec-3, got %s", records[len(records)-1].ID)
	}

	// No-op when under the cap
	pruned, err = store.PrunePromptRecords(ctx, 10)
	if err != nil {
		t.Fatalf("PrunePromptRecords: %v", err)
	}
	if pruned != 0 {
		t.Errorf("expected 0 pruned, got %d", pruned)
	}
}

func TestDeletePromptRecords(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		record := &models.PromptRecord{ID: fmt.Sprintf("rec-%d", i), Ticker: "NVDA"}
		if err := store.SavePromptRecord(ctx, record); err != nil {
			t.Fatalf("SavePromptRecord: %v", err)
		}
	}

	deleted, err := store.DeletePromptRecords(ctx)
	if err != nil {
		t.Fatalf("DeletePromptRecords: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	records, _ := store.ListPromptRecords(ctx, 0)
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d records", len(records))
	}
}

func TestSystemKV(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	// Missing key returns empty without error
	val, err := store.GetSystemKV(ctx, "eodhd_api_key")
	if err != nil {
		t.Fatalf("GetSystemKV: %v", err)
	}
	if val != "" {
		t.Errorf("expected empty value, got %q", val)
	}

	if err := store.SetSystemKV(ctx, "eodhd_api_key", "secret-1"); err != nil {
		t.Fatalf("SetSystemKV: %v", err)
	}
	val, _ = store.GetSystemKV(ctx, "eodhd_api_key")
	if val != "secret-1" {
		t.Errorf("expected secret-1, got %q", val)
	}

	// Overwrite bumps the stored value
	if err := store.SetSystemKV(ctx, "eodhd_api_key", "secret-2"); err != nil {
		t.Fatalf("SetSystemKV update: %v", err)
	}
	val, _ = store.GetSystemKV(ctx, "eodhd_api_key")
	if val != "secret-2" {
		t.Errorf("expected secret-2, got %q", val)
	}
}
