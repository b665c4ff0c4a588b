// Package interfaces defines service contracts for Ollie
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/ollie/internal/models"
)

// EODHDClient provides access to the EODHD market-data API
type EODHDClient interface {
	// GetEOD retrieves end-of-day price data
	GetEOD(ctx context.Context, ticker string, opts ...EODOption) (*models.EODResponse, error)

	// GetRealTimeQuote retrieves a delayed/live quote for a ticker or index
	GetRealTimeQuote(ctx context.Context, ticker string) (*models.RealTimeQuote, error)

	// GetFundamentals retrieves fundamental and analyst data
	GetFundamentals(ctx context.Context, ticker string) (*models.Fundamentals, error)

	// GetNews retrieves news headlines for a ticker
	GetNews(ctx context.Context, ticker string, limit int) ([]*models.NewsItem, error)

	// GetInsiderTransactions retrieves recent insider trades for a ticker
	GetInsiderTransactions(ctx context.Context, ticker string, limit int) ([]models.InsiderTransaction, error)

	// GetNextEarnings retrieves the next scheduled earnings report, or nil
	// when none is on the calendar window.
	GetNextEarnings(ctx context.Context, ticker string) (*models.EarningsEvent, error)
}

// EODOption configures EOD data requests
type EODOption func(*EODParams)

// EODParams holds EOD query parameters
type EODParams struct {
	From   time.Time
	To     time.Time
	Period string // d=daily, w=weekly, m=monthly
	Order  string // a=ascending, d=descending
}

// WithDateRange sets the date range for EOD query
func WithDateRange(from, to time.Time) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// NewsFeedClient is the fallback headline source used when the primary
// provider returns no news for a symbol.
type NewsFeedClient interface {
	// FetchHeadlines retrieves recent headlines mentioning the ticker
	FetchHeadlines(ctx context.Context, ticker string, limit int) ([]*models.NewsItem, error)
}

// AIClient runs generated prompts through a language model
type AIClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
