// Package chart renders price charts from cached market data
package chart

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/models"
	"github.com/bobmcallan/ollie/internal/services/market"
	"github.com/bobmcallan/ollie/internal/signals"
)

// displayDays is the trading-day window shown on the chart.
const displayDays = 40

// Service implements interfaces.ChartService
type Service struct {
	market  interfaces.MarketService
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new chart service
func NewService(marketSvc interfaces.MarketService, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		market:  marketSvc,
		storage: storage,
		logger:  logger,
	}
}

// RenderPriceChart renders a close-price PNG with an MA20 overlay over the
// last 40 trading days and stores it under charts/ in the data dir.
func (s *Service) RenderPriceChart(ctx context.Context, ticker string) ([]byte, error) {
	normalized := market.NormalizeTicker(ticker)
	if normalized == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	if err := s.market.CollectEOD(ctx, normalized, false); err != nil {
		return nil, fmt.Errorf("failed to collect price data for %s: %w", normalized, err)
	}
	data, err := s.storage.MarketDataStorage().GetMarketData(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to load price data for %s: %w", normalized, err)
	}

	png, err := RenderPriceChart(normalized, data.EOD)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s.png", normalized)
	if err := s.storage.WriteRaw("charts", key, png); err != nil {
		s.logger.Warn().Err(err).Str("ticker", normalized).Msg("Failed to persist chart")
	}

	s.logger.Info().Str("ticker", normalized).Int("bytes", len(png)).Msg("Chart rendered")
	return png, nil
}

// RenderPriceChart renders a PNG line chart of daily closes with an MA20
// overlay. Bars are most-recent-first; the chart shows up to the last
// displayDays trading days. Returns raw PNG bytes.
func RenderPriceChart(ticker string, bars []models.EODBar) ([]byte, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("need at least 2 price bars for %s, got %d", ticker, len(bars))
	}

	window := displayDays
	if len(bars) < window {
		window = len(bars)
	}

	// Chronological series for plotting; MA20 at each day uses the bars
	// trailing that day, so it needs history beyond the display window.
	xValues := make([]time.Time, window)
	closeY := make([]float64, window)
	maX := make([]time.Time, 0, window)
	maY := make([]float64, 0, window)

	for i := 0; i < window; i++ {
		bar := bars[window-1-i]
		xValues[i] = bar.Date
		closeY[i] = bar.Close
		if ma, ok := signals.SMA(bars[window-1-i:], 20); ok {
			maX = append(maX, bar.Date)
			maY = append(maY, ma)
		}
	}

	closeSeries := chart.TimeSeries{
		Name: "Close",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: closeY,
	}

	series := []chart.Series{closeSeries}
	if len(maY) >= 2 {
		series = append(series, chart.TimeSeries{
			Name: "MA20",
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex("f59e0b"), // amber-500
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5.0, 3.0},
			},
			XValues: maX,
			YValues: maY,
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Close Price", ticker),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed for %s: %w", ticker, err)
	}

	return buf.Bytes(), nil
}

// Ensure Service implements the interface
var _ interfaces.ChartService = (*Service)(nil)
