// Package app wires configuration, storage, clients, and services into the
// shared core used by both cmd/ollie-server and cmd/ollie.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/ollie/internal/clients/eodhd"
	"github.com/bobmcallan/ollie/internal/clients/gemini"
	"github.com/bobmcallan/ollie/internal/clients/gnews"
	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/services/chart"
	"github.com/bobmcallan/ollie/internal/services/market"
	"github.com/bobmcallan/ollie/internal/services/prompt"
	"github.com/bobmcallan/ollie/internal/services/watchlist"
	"github.com/bobmcallan/ollie/internal/storage"
)

// App holds all initialized services, clients, and the MCP server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	EODHDClient      interfaces.EODHDClient
	NewsFeedClient   interfaces.NewsFeedClient
	GeminiClient     interfaces.AIClient
	MarketService    interfaces.MarketService
	PromptService    interfaces.PromptService
	WatchlistService interfaces.WatchlistService
	ChartService     interfaces.ChartService
	MCPServer        *server.MCPServer
	StartupTime      time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients, storage, and the MCP server.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	// Binary directory for self-contained operation
	binDir := getBinaryDir()

	// Config resolution: provided path, OLLIE_CONFIG, binary dir, then dev fallback
	if configPath == "" {
		configPath = os.Getenv("OLLIE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "ollie.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/ollie.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative paths to the binary directory
	if config.Storage.Internal.Path != "" && !filepath.IsAbs(config.Storage.Internal.Path) {
		config.Storage.Internal.Path = filepath.Join(binDir, config.Storage.Internal.Path)
	}
	if config.Storage.Market.Path != "" && !filepath.IsAbs(config.Storage.Market.Path) {
		config.Storage.Market.Path = filepath.Join(binDir, config.Storage.Market.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()
	checkSchemaVersion(ctx, storageManager, logger)

	store := storageManager.InternalStore()

	eodhdKey, err := common.ResolveAPIKey(ctx, store, "eodhd_api_key", config.Clients.EODHD.APIKey)
	if err != nil {
		logger.Warn().Msg("EODHD API key not configured - market data collection will be unavailable")
	}

	geminiKey, err := common.ResolveAPIKey(ctx, store, "gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - AI analysis will be unavailable")
	}

	var eodhdClient interfaces.EODHDClient
	if eodhdKey != "" {
		opts := []eodhd.ClientOption{
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
			eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		}
		if config.Clients.EODHD.BaseURL != "" {
			opts = append(opts, eodhd.WithBaseURL(config.Clients.EODHD.BaseURL))
		}
		eodhdClient = eodhd.NewClient(eodhdKey, opts...)
	}

	newsFeedClient := gnews.NewClient(gnews.WithLogger(logger))

	var geminiClient *gemini.Client
	if geminiKey != "" {
		geminiClient, err = gemini.NewClient(ctx, geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		}
	}

	marketService := market.NewService(storageManager, eodhdClient, newsFeedClient, config, logger)
	watchlistService := watchlist.NewService(storageManager, logger)
	chartService := chart.NewService(marketService, storageManager, logger)

	var aiClient interfaces.AIClient
	if geminiClient != nil {
		aiClient = geminiClient
	}
	promptService := prompt.NewService(marketService, storageManager, aiClient, config, logger)

	mcpServer := server.NewMCPServer(
		"ollie",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		EODHDClient:      eodhdClient,
		NewsFeedClient:   newsFeedClient,
		GeminiClient:     aiClient,
		MarketService:    marketService,
		PromptService:    promptService,
		WatchlistService: watchlistService,
		ChartService:     chartService,
		MCPServer:        mcpServer,
		StartupTime:      startupStart,
	}

	a.registerTools()

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartScheduler launches the background watchlist refresh goroutine.
func (a *App) StartScheduler() {
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	a.schedulerCancel = schedulerCancel
	go startWatchlistScheduler(schedulerCtx, a.WatchlistService, a.MarketService, a.Logger, common.FreshnessEOD)
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createGeneratePromptTool(), handleGeneratePrompt(a.PromptService, logger))
	s.AddTool(createRunAnalysisTool(), handleRunAnalysis(a.PromptService, logger))
	s.AddTool(createGetStockDataTool(), handleGetStockData(a.MarketService, logger))
	s.AddTool(createGetMacroContextTool(), handleGetMacroContext(a.MarketService, logger))
	s.AddTool(createListPersonasTool(), handleListPersonas(a.PromptService))
	s.AddTool(createGetWatchlistTool(), handleGetWatchlist(a.WatchlistService, logger))
	s.AddTool(createAddWatchlistItemTool(), handleAddWatchlistItem(a.WatchlistService, logger))
	s.AddTool(createUpdateWatchlistItemTool(), handleUpdateWatchlistItem(a.WatchlistService, logger))
	s.AddTool(createRemoveWatchlistItemTool(), handleRemoveWatchlistItem(a.WatchlistService, logger))
	s.AddTool(createGetPromptHistoryTool(), handleGetPromptHistory(a.PromptService, logger))
	s.AddTool(createClearPromptHistoryTool(), handleClearPromptHistory(a.PromptService, logger))
	s.AddTool(createRenderChartTool(), handleRenderChart(a.ChartService, logger))
}
