package app

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/models"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Ollie Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleGeneratePrompt implements the generate_prompt tool
func handleGeneratePrompt(promptService interfaces.PromptService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		persona := request.GetString("persona", "")
		forceRefresh := request.GetBool("force_refresh", false)

		generated, err := promptService.Generate(ctx, ticker, interfaces.GenerateOptions{
			PersonaKey:   persona,
			ForceRefresh: forceRefresh,
		})
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Prompt generation failed")
			return errorResult(fmt.Sprintf("Prompt generation error: %v", err)), nil
		}

		return textResult(generated.Text), nil
	}
}

// handleRunAnalysis implements the run_analysis tool
func handleRunAnalysis(promptService interfaces.PromptService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		persona := request.GetString("persona", "")
		forceRefresh := request.GetBool("force_refresh", false)

		analysis, err := promptService.RunAnalysis(ctx, ticker, interfaces.GenerateOptions{
			PersonaKey:   persona,
			ForceRefresh: forceRefresh,
		})
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Analysis failed")
			return errorResult(fmt.Sprintf("Analysis error: %v", err)), nil
		}

		return textResult(analysis), nil
	}
}

// handleGetStockData implements the get_stock_data tool
func handleGetStockData(marketService interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		forceRefresh := request.GetBool("force_refresh", false)

		stockData, err := marketService.GetStockData(ctx, ticker, forceRefresh)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Get stock data failed")
			return errorResult(fmt.Sprintf("Error getting stock data: %v", err)), nil
		}

		return textResult(formatStockData(stockData)), nil
	}
}

// handleGetMacroContext implements the get_macro_context tool
func handleGetMacroContext(marketService interfaces.MarketService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sector := request.GetString("sector", "")

		macro, err := marketService.GetMacroContext(ctx, sector)
		if err != nil {
			logger.Error().Err(err).Str("sector", sector).Msg("Get macro context failed")
			return errorResult(fmt.Sprintf("Error getting macro context: %v", err)), nil
		}

		return textResult(formatMacroContext(macro)), nil
	}
}

// handleListPersonas implements the list_personas tool
func handleListPersonas(promptService interfaces.PromptService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatPersonas(promptService.Personas())), nil
	}
}

// handleGetWatchlist implements the get_watchlist tool
func handleGetWatchlist(watchlistService interfaces.WatchlistService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		watchlist, err := watchlistService.GetWatchlist(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Get watchlist failed")
			return errorResult(fmt.Sprintf("Error getting watchlist: %v", err)), nil
		}

		return textResult(formatWatchlist(watchlist)), nil
	}
}

// handleAddWatchlistItem implements the add_watchlist_item tool
func handleAddWatchlistItem(watchlistService interfaces.WatchlistService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		item := &models.WatchlistItem{
			Ticker: ticker,
			Name:   request.GetString("name", ""),
			Notes:  request.GetString("notes", ""),
		}

		watchlist, err := watchlistService.AddOrUpdateItem(ctx, item)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Add watchlist item failed")
			return errorResult(fmt.Sprintf("Error adding watchlist item: %v", err)), nil
		}

		return textResult(formatWatchlist(watchlist)), nil
	}
}

// handleUpdateWatchlistItem implements the update_watchlist_item tool
func handleUpdateWatchlistItem(watchlistService interfaces.WatchlistService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		update := &models.WatchlistItem{
			Name:  request.GetString("name", ""),
			Notes: request.GetString("notes", ""),
		}

		watchlist, err := watchlistService.UpdateItem(ctx, ticker, update)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Update watchlist item failed")
			return errorResult(fmt.Sprintf("Error updating watchlist item: %v", err)), nil
		}

		return textResult(formatWatchlist(watchlist)), nil
	}
}

// handleRemoveWatchlistItem implements the remove_watchlist_item tool
func handleRemoveWatchlistItem(watchlistService interfaces.WatchlistService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		watchlist, err := watchlistService.RemoveItem(ctx, ticker)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Remove watchlist item failed")
			return errorResult(fmt.Sprintf("Error removing watchlist item: %v", err)), nil
		}

		return textResult(formatWatchlist(watchlist)), nil
	}
}

// handleGetPromptHistory implements the get_prompt_history tool
func handleGetPromptHistory(promptService interfaces.PromptService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 10)

		records, err := promptService.History(ctx, limit)
		if err != nil {
			logger.Error().Err(err).Msg("Get prompt history failed")
			return errorResult(fmt.Sprintf("Error getting prompt history: %v", err)), nil
		}

		return textResult(formatPromptHistory(records)), nil
	}
}

// handleClearPromptHistory implements the clear_prompt_history tool
func handleClearPromptHistory(promptService interfaces.PromptService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		count, err := promptService.ClearHistory(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Clear prompt history failed")
			return errorResult(fmt.Sprintf("Error clearing prompt history: %v", err)), nil
		}

		return textResult(fmt.Sprintf("Cleared %d prompt history record(s).", count)), nil
	}
}

// handleRenderChart implements the render_chart tool
func handleRenderChart(chartService interfaces.ChartService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker, err := request.RequireString("ticker")
		if err != nil || ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		png, err := chartService.RenderPriceChart(ctx, ticker)
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("Chart render failed")
			return errorResult(fmt.Sprintf("Chart render error: %v", err)), nil
		}

		encoded := base64.StdEncoding.EncodeToString(png)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewImageContent(encoded, "image/png"),
			},
		}, nil
	}
}

// Helper functions

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
