package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	base := t.TempDir()

	cfg := common.NewDefaultConfig()
	cfg.Storage.Internal.Path = filepath.Join(base, "internal")
	cfg.Storage.Market.Path = filepath.Join(base, "market")

	logger := common.NewLogger("error")
	m, err := NewManager(logger, cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManagerAreasAreIndependent(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	// Market area
	md := &models.MarketData{
		Ticker:   "AAPL.US",
		Exchange: "US",
		EOD:      []models.EODBar{{Date: time.Now(), Close: 171.48}},
	}
	if err := m.MarketDataStorage().SaveMarketData(ctx, md); err != nil {
		t.Fatalf("SaveMarketData: %v", err)
	}

	// Internal area
	wl := &models.Watchlist{
		Name:  "default",
		Items: []models.WatchlistItem{{Ticker: "AAPL"}},
	}
	if err := m.InternalStore().SaveWatchlist(ctx, wl); err != nil {
		t.Fatalf("SaveWatchlist: %v", err)
	}

	got, err := m.MarketDataStorage().GetMarketData(ctx, "AAPL.US")
	if err != nil {
		t.Fatalf("GetMarketData: %v", err)
	}
	if len(got.EOD) != 1 || got.EOD[0].Close != 171.48 {
		t.Errorf("got %+v", got)
	}

	gotWL, err := m.InternalStore().GetWatchlist(ctx, "default")
	if err != nil || gotWL == nil {
		t.Fatalf("GetWatchlist: %v %v", gotWL, err)
	}
}

func TestPurgeMarketData_PreservesInternal(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	for _, ticker := range []string{"AAPL.US", "TSLA.US"} {
		md := &models.MarketData{Ticker: ticker, Exchange: "US"}
		if err := m.MarketDataStorage().SaveMarketData(ctx, md); err != nil {
			t.Fatalf("SaveMarketData: %v", err)
		}
	}
	wl := &models.Watchlist{Name: "default", Items: []models.WatchlistItem{{Ticker: "AAPL"}}}
	if err := m.InternalStore().SaveWatchlist(ctx, wl); err != nil {
		t.Fatalf("SaveWatchlist: %v", err)
	}

	count, err := m.PurgeMarketData(ctx)
	if err != nil {
		t.Fatalf("PurgeMarketData: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 purged, got %d", count)
	}

	tickers, err := m.MarketDataStorage().ListTickers(ctx)
	if err != nil {
		t.Fatalf("ListTickers: %v", err)
	}
	if len(tickers) != 0 {
		t.Errorf("expected no tickers after purge, got %v", tickers)
	}

	gotWL, err := m.InternalStore().GetWatchlist(ctx, "default")
	if err != nil || gotWL == nil || len(gotWL.Items) != 1 {
		t.Errorf("watchlist should survive market purge: %+v %v", gotWL, err)
	}
}

func TestPurgeMarketData_EmptyStore(t *testing.T) {
	m := newTestManager(t)

	count, err := m.PurgeMarketData(context.Background())
	if err != nil {
		t.Fatalf("PurgeMarketData on empty store failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 purged, got %d", count)
	}
}

func TestWriteRaw(t *testing.T) {
	m := newTestManager(t)

	data := []byte{0x89, 'P', 'N', 'G'}
	if err := m.WriteRaw("charts", "AAPL.US.png", data); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	path := filepath.Join(m.DataPath(), "charts", "AAPL.US.png")
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read chart file: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("chart data mismatch")
	}
}

func TestWriteRawSanitizesKey(t *testing.T) {
	m := newTestManager(t)

	if err := m.WriteRaw("charts", "../escape.png", []byte("x")); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(m.DataPath(), "charts"))
	if err != nil {
		t.Fatalf("read charts dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file, got %d", len(entries))
	}
	name := entries[0].Name()
	if name == "../escape.png" || filepath.IsAbs(name) {
		t.Errorf("key not sanitized: %q", name)
	}
}
