// Package eodhd provides a client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the EODHDClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// IsNotFound reports whether err wraps an APIError for an unknown symbol.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	// Add API key
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetEOD retrieves end-of-day price data
func (c *Client) GetEOD(ctx context.Context, ticker string, opts ...interfaces.EODOption) (*models.EODResponse, error) {
	params := &interfaces.EODParams{
		Period: "d",
		Order:  "d", // descending (most recent first)
	}

	for _, opt := range opts {
		opt(params)
	}

	urlParams := url.Values{}
	urlParams.Set("period", params.Period)
	urlParams.Set("order", params.Order)

	if !params.From.IsZero() {
		urlParams.Set("from", params.From.Format("2006-01-02"))
	}
	if !params.To.IsZero() {
		urlParams.Set("to", params.To.Format("2006-01-02"))
	}

	path := fmt.Sprintf("/eod/%s", ticker)

	var bars []eodBarResponse
	if err := c.get(ctx, path, urlParams, &bars); err != nil {
		return nil, err
	}

	result := &models.EODResponse{
		Data: make([]models.EODBar, len(bars)),
	}

	for i, bar := range bars {
		date, _ := time.Parse("2006-01-02", bar.Date)
		result.Data[i] = models.EODBar{
			Date:     date,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			AdjClose: bar.AdjustedClose,
			Volume:   bar.Volume,
		}
	}

	return result, nil
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// GetRealTimeQuote retrieves a delayed real-time quote
func (c *Client) GetRealTimeQuote(ctx context.Context, ticker string) (*models.RealTimeQuote, error) {
	path := fmt.Sprintf("/real-time/%s", ticker)

	var resp realTimeResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	return &models.RealTimeQuote{
		Code:          resp.Code,
		Close:         float64(resp.Close),
		PreviousClose: float64(resp.PreviousClose),
		Change:        float64(resp.Change),
		ChangePct:     float64(resp.ChangeP),
		Volume:        resp.Volume,
		Timestamp:     time.Unix(resp.Timestamp, 0).UTC(),
	}, nil
}

type realTimeResponse struct {
	Code          string      `json:"code"`
	Timestamp     int64       `json:"timestamp"`
	Open          flexFloat64 `json:"open"`
	High          flexFloat64 `json:"high"`
	Low           flexFloat64 `json:"low"`
	Close         flexFloat64 `json:"close"`
	PreviousClose flexFloat64 `json:"previousClose"`
	Change        flexFloat64 `json:"change"`
	ChangeP       flexFloat64 `json:"change_p"`
	Volume        int64       `json:"volume"`
}

// GetFundamentals retrieves fundamental and analyst data
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*models.Fundamentals, error) {
	path := fmt.Sprintf("/fundamentals/%s", ticker)

	var resp fundamentalsResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	return &models.Fundamentals{
		Ticker:         ticker,
		Name:           resp.General.Name,
		Sector:         resp.General.Sector,
		Industry:       resp.General.Industry,
		MarketCap:      float64(resp.Highlights.MarketCapitalization),
		ForwardPE:      float64(resp.Valuation.ForwardPE),
		Beta:           float64(resp.Technicals.Beta),
		High52Week:     float64(resp.Technicals.High52Week),
		Low52Week:      float64(resp.Technicals.Low52Week),
		GrossMargin:    float64(resp.Highlights.ProfitMargin),
		ReturnOnEquity: float64(resp.Highlights.ReturnOnEquityTTM),
		FreeCashflow:   float64(resp.Highlights.FreeCashflow),
		ShortRatio:     float64(resp.Technicals.ShortRatio),
		TargetPrice:    float64(resp.Highlights.WallStreetTargetPrice),
		Recommendation: resp.AnalystRatings.recommendation(),
		DividendYield:  float64(resp.Highlights.DividendYield),
		EPS:            float64(resp.Highlights.EarningsShare),
		Description:    resp.General.Description,
		LastUpdated:    time.Now(),
	}, nil
}

// fundamentalsResponse represents the API response structure
type fundamentalsResponse struct {
	General struct {
		Code        string `json:"Code"`
		Name        string `json:"Name"`
		Type        string `json:"Type"`
		Sector      string `json:"Sector"`
		Industry    string `json:"Industry"`
		Description string `json:"Description"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization  flexFloat64 `json:"MarketCapitalization"`
		EarningsShare         flexFloat64 `json:"EarningsShare"`
		DividendYield         flexFloat64 `json:"DividendYield"`
		ProfitMargin          flexFloat64 `json:"ProfitMargin"`
		ReturnOnEquityTTM     flexFloat64 `json:"ReturnOnEquityTTM"`
		FreeCashflow          flexFloat64 `json:"FreeCashflow"`
		WallStreetTargetPrice flexFloat64 `json:"WallStreetTargetPrice"`
	} `json:"Highlights"`
	Valuation struct {
		ForwardPE flexFloat64 `json:"ForwardPE"`
	} `json:"Valuation"`
	Technicals struct {
		Beta       flexFloat64 `json:"Beta"`
		High52Week flexFloat64 `json:"52WeekHigh"`
		Low52Week  flexFloat64 `json:"52WeekLow"`
		ShortRatio flexFloat64 `json:"ShortRatio"`
	} `json:"Technicals"`
	AnalystRatings analystRatings `json:"AnalystRatings"`
}

type analystRatings struct {
	Rating     flexFloat64 `json:"Rating"`
	StrongBuy  int         `json:"StrongBuy"`
	Buy        int         `json:"Buy"`
	Hold       int         `json:"Hold"`
	Sell       int         `json:"Sell"`
	StrongSell int         `json:"StrongSell"`
}

// recommendation maps the 1..5 mean analyst rating to a label.
func (r analystRatings) recommendation() string {
	rating := float64(r.Rating)
	switch {
	case rating == 0:
		return ""
	case rating >= 4.5:
		return "Strong buy"
	case rating >= 3.5:
		return "Buy"
	case rating >= 2.5:
		return "Hold"
	case rating >= 1.5:
		return "Sell"
	default:
		return "Strong sell"
	}
}

// GetNews retrieves news for a ticker
func (c *Client) GetNews(ctx context.Context, ticker string, limit int) ([]*models.NewsItem, error) {
	path := "/news"

	params := url.Values{}
	params.Set("s", ticker)
	params.Set("limit", strconv.Itoa(limit))

	var newsResp []newsResponse
	if err := c.get(ctx, path, params, &newsResp); err != nil {
		return nil, err
	}

	news := make([]*models.NewsItem, len(newsResp))
	for i, item := range newsResp {
		publishedAt, _ := time.Parse("2006-01-02T15:04:05+00:00", item.Date)
		news[i] = &models.NewsItem{
			Title:       item.Title,
			URL:         item.Link,
			Source:      item.Source,
			PublishedAt: publishedAt,
			Sentiment:   item.Sentiment.classify(),
		}
	}

	return news, nil
}

type newsSentiment struct {
	Polarity float64 `json:"polarity"`
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
}

func (s newsSentiment) classify() string {
	if s.Polarity > 0.5 {
		return "positive"
	} else if s.Polarity < -0.5 {
		return "negative"
	}
	return "neutral"
}

type newsResponse struct {
	Date      string        `json:"date"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Link      string        `json:"link"`
	Source    string        `json:"source"`
	Sentiment newsSentiment `json:"sentiment"`
}

// GetInsiderTransactions retrieves recent insider trades for a ticker
func (c *Client) GetInsiderTransactions(ctx context.Context, ticker string, limit int) ([]models.InsiderTransaction, error) {
	params := url.Values{}
	params.Set("code", ticker)
	params.Set("limit", strconv.Itoa(limit))

	var resp []insiderResponse
	if err := c.get(ctx, "/insider-transactions", params, &resp); err != nil {
		return nil, err
	}

	transactions := make([]models.InsiderTransaction, 0, len(resp))
	for _, item := range resp {
		date, err := time.Parse("2006-01-02", item.TransactionDate)
		if err != nil {
			date, _ = time.Parse("2006-01-02", item.Date)
		}
		transactions = append(transactions, models.InsiderTransaction{
			Date:       date,
			OwnerName:  item.OwnerName,
			OwnerTitle: item.OwnerTitle,
			Type:       item.transactionType(),
			Shares:     int64(item.TransactionAmount),
			Price:      float64(item.TransactionPrice),
		})
	}

	return transactions, nil
}

type insiderResponse struct {
	Date                        string      `json:"date"`
	OwnerName                   string      `json:"ownerName"`
	OwnerTitle                  string      `json:"ownerTitle"`
	TransactionDate             string      `json:"transactionDate"`
	TransactionCode             string      `json:"transactionCode"`
	TransactionAmount           flexFloat64 `json:"transactionAmount"`
	TransactionPrice            flexFloat64 `json:"transactionPrice"`
	TransactionAcquiredDisposed string      `json:"transactionAcquiredDisposed"`
	PostTransactionAmount       flexFloat64 `json:"postTransactionAmount"`
}

func (i insiderResponse) transactionType() string {
	if i.TransactionAcquiredDisposed == "A" {
		return "Buy"
	}
	return "Sell"
}

// GetNextEarnings retrieves the next scheduled earnings report for a ticker.
// Returns nil when nothing is scheduled in the coming quarter.
func (c *Client) GetNextEarnings(ctx context.Context, ticker string) (*models.EarningsEvent, error) {
	now := time.Now()

	params := url.Values{}
	params.Set("symbols", ticker)
	params.Set("from", now.Format("2006-01-02"))
	params.Set("to", now.AddDate(0, 3, 0).Format("2006-01-02"))

	var resp earningsCalendarResponse
	if err := c.get(ctx, "/calendar/earnings", params, &resp); err != nil {
		return nil, err
	}

	var next *models.EarningsEvent
	for _, item := range resp.Earnings {
		reportDate, err := time.Parse("2006-01-02", item.ReportDate)
		if err != nil {
			continue
		}
		if next == nil || reportDate.Before(next.ReportDate) {
			next = &models.EarningsEvent{
				Ticker:      ticker,
				ReportDate:  reportDate,
				EPSEstimate: float64(item.Estimate),
			}
		}
	}

	return next, nil
}

type earningsCalendarResponse struct {
	Earnings []struct {
		Code       string      `json:"code"`
		ReportDate string      `json:"report_date"`
		Date       string      `json:"date"`
		Estimate   flexFloat64 `json:"estimate"`
	} `json:"earnings"`
}

// Ensure Client implements EODHDClient
var _ interfaces.EODHDClient = (*Client)(nil)
