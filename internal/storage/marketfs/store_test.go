package marketfs

import (
	"context"
	"testing"
	"time"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMarketStore(common.NewLogger("error"), t.TempDir())
	if err != nil {
		t.Fatalf("NewMarketStore: %v", err)
	}
	return store
}

func TestMarketDataRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mds := store.MarketDataStorage()

	data := &models.MarketData{
		Ticker:   "AAPL.US",
		Exchange: "US",
		Name:     "Apple Inc",
		EOD: []models.EODBar{
			{Date: time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC), Close: 171.48, Volume: 65000000},
		},
		EODUpdatedAt: time.Now(),
	}
	if err := mds.SaveMarketData(ctx, data); err != nil {
		t.Fatalf("SaveMarketData: %v", err)
	}
	if data.LastUpdated.IsZero() {
		t.Error("LastUpdated should be stamped on save")
	}

	got, err := mds.GetMarketData(ctx, "AAPL.US")
	if err != nil {
		t.Fatalf("GetMarketData: %v", err)
	}
	if got.Name != "Apple Inc" || len(got.EOD) != 1 {
		t.Errorf("got %+v", got)
	}
	if got.EOD[0].Close != 171.48 {
		t.Errorf("expected close 171.48, got %.2f", got.EOD[0].Close)
	}
}

func TestGetMarketDataMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.MarketDataStorage().GetMarketData(context.Background(), "NOPE.US"); err == nil {
		t.Fatal("expected error for missing ticker")
	}
}

func TestListTickersExcludesMacro(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mds := store.MarketDataStorage()

	for _, ticker := range []string{"AAPL.US", "TSLA.US"} {
		if err := mds.SaveMarketData(ctx, &models.MarketData{Ticker: ticker}); err != nil {
			t.Fatalf("SaveMarketData: %v", err)
		}
	}
	if err := mds.SaveMacroContext(ctx, &models.MacroContext{VIX: 14.3, RetrievedAt: time.Now()}); err != nil {
		t.Fatalf("SaveMacroContext: %v", err)
	}

	tickers, err := mds.ListTickers(ctx)
	if err != nil {
		t.Fatalf("ListTickers: %v", err)
	}
	if len(tickers) != 2 {
		t.Errorf("expected 2 tickers, got %v", tickers)
	}
	for _, ticker := range tickers {
		if ticker == macroKey {
			t.Error("macro snapshot leaked into ticker list")
		}
	}
}

func TestDeleteMarketData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mds := store.MarketDataStorage()

	if err := mds.SaveMarketData(ctx, &models.MarketData{Ticker: "NVDA.US"}); err != nil {
		t.Fatalf("SaveMarketData: %v", err)
	}
	if err := mds.DeleteMarketData(ctx, "NVDA.US"); err != nil {
		t.Fatalf("DeleteMarketData: %v", err)
	}
	if _, err := mds.GetMarketData(ctx, "NVDA.US"); err == nil {
		t.Fatal("expected error after delete")
	}
}

func TestMacroContextRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mds := store.MarketDataStorage()

	if _, err := mds.GetMacroContext(ctx); err == nil {
		t.Fatal("expected error when macro context not cached")
	}

	macro := &models.MacroContext{
		VIX:              14.33,
		TenYearYield:     4.21,
		BenchmarkTicker:  "SPY.US",
		BenchmarkWeekPct: 0.8,
		SectorETF:        "XLK.US",
		SectorETFWeekPct: 1.2,
		HasSectorETF:     true,
		RetrievedAt:      time.Now(),
	}
	if err := mds.SaveMacroContext(ctx, macro); err != nil {
		t.Fatalf("SaveMacroContext: %v", err)
	}

	got, err := mds.GetMacroContext(ctx)
	if err != nil {
		t.Fatalf("GetMacroContext: %v", err)
	}
	if got.VIX != 14.33 || got.SectorETF != "XLK.US" || !got.HasSectorETF {
		t.Errorf("got %+v", got)
	}
}

func TestPurgeMarket(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mds := store.MarketDataStorage()

	for _, ticker := range []string{"AAPL.US", "TSLA.US", "NVDA.US"} {
		if err := mds.SaveMarketData(ctx, &models.MarketData{Ticker: ticker}); err != nil {
			t.Fatalf("SaveMarketData: %v", err)
		}
	}

	if count := store.PurgeMarket(); count != 3 {
		t.Errorf("expected 3 purged, got %d", count)
	}
	tickers, _ := mds.ListTickers(ctx)
	if len(tickers) != 0 {
		t.Errorf("expected empty store, got %v", tickers)
	}
}
