package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Ollie server version and status. Use this to verify connectivity."),
	)
}

// createGeneratePromptTool returns the generate_prompt tool definition
func createGeneratePromptTool() mcp.Tool {
	return mcp.NewTool("generate_prompt",
		mcp.WithDescription("Generate a structured analyst prompt for a stock ticker, combining price action, technicals, fundamentals, insider activity, macro context, and recent news."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker, with or without exchange suffix (e.g., 'AAPL' or 'AAPL.US')"),
		),
		mcp.WithString("persona",
			mcp.Description("Persona key: balanced, value, technical, buffett, wood, burry, dalio, lynch, cramer (default: balanced)"),
		),
		mcp.WithBoolean("force_refresh",
			mcp.Description("Bypass cached market data and re-fetch from the provider (default: false)"),
		),
	)
}

// createRunAnalysisTool returns the run_analysis tool definition
func createRunAnalysisTool() mcp.Tool {
	return mcp.NewTool("run_analysis",
		mcp.WithDescription("Generate an analyst prompt for a ticker and run it through the configured AI model, returning the analysis."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker, with or without exchange suffix (e.g., 'AAPL' or 'AAPL.US')"),
		),
		mcp.WithString("persona",
			mcp.Description("Persona key: balanced, value, technical, buffett, wood, burry, dalio, lynch, cramer (default: balanced)"),
		),
		mcp.WithBoolean("force_refresh",
			mcp.Description("Bypass cached market data and re-fetch from the provider (default: false)"),
		),
	)
}

// createGetStockDataTool returns the get_stock_data tool definition
func createGetStockDataTool() mcp.Tool {
	return mcp.NewTool("get_stock_data",
		mcp.WithDescription("Get assembled stock data including price snapshot, technical indicators, fundamentals, insider activity, and news for a specific ticker."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker, with or without exchange suffix (e.g., 'AAPL' or 'AAPL.US')"),
		),
		mcp.WithBoolean("force_refresh",
			mcp.Description("Bypass cached market data and re-fetch from the provider (default: false)"),
		),
	)
}

// createGetMacroContextTool returns the get_macro_context tool definition
func createGetMacroContextTool() mcp.Tool {
	return mcp.NewTool("get_macro_context",
		mcp.WithDescription("Get the global market backdrop: VIX, 10-year Treasury yield, benchmark weekly change, and optionally a sector ETF weekly change."),
		mcp.WithString("sector",
			mcp.Description("Sector to include an ETF benchmark for (e.g., 'Technology', 'Healthcare')"),
		),
	)
}

// createListPersonasTool returns the list_personas tool definition
func createListPersonasTool() mcp.Tool {
	return mcp.NewTool("list_personas",
		mcp.WithDescription("List all available analyst and investor personas with their keys and objectives."),
	)
}

// createGetWatchlistTool returns the get_watchlist tool definition
func createGetWatchlistTool() mcp.Tool {
	return mcp.NewTool("get_watchlist",
		mcp.WithDescription("Get the ticker watchlist with notes."),
	)
}

// createAddWatchlistItemTool returns the add_watchlist_item tool definition
func createAddWatchlistItemTool() mcp.Tool {
	return mcp.NewTool("add_watchlist_item",
		mcp.WithDescription("Add a ticker to the watchlist, or update it if already present."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker to add (e.g., 'AAPL')"),
		),
		mcp.WithString("name",
			mcp.Description("Company name"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes about why this ticker is watched"),
		),
	)
}

// createUpdateWatchlistItemTool returns the update_watchlist_item tool definition
func createUpdateWatchlistItemTool() mcp.Tool {
	return mcp.NewTool("update_watchlist_item",
		mcp.WithDescription("Update the name or notes of an existing watchlist item."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker to update (e.g., 'AAPL')"),
		),
		mcp.WithString("name",
			mcp.Description("New company name"),
		),
		mcp.WithString("notes",
			mcp.Description("New notes"),
		),
	)
}

// createRemoveWatchlistItemTool returns the remove_watchlist_item tool definition
func createRemoveWatchlistItemTool() mcp.Tool {
	return mcp.NewTool("remove_watchlist_item",
		mcp.WithDescription("Remove a ticker from the watchlist."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker to remove (e.g., 'AAPL')"),
		),
	)
}

// createGetPromptHistoryTool returns the get_prompt_history tool definition
func createGetPromptHistoryTool() mcp.Tool {
	return mcp.NewTool("get_prompt_history",
		mcp.WithDescription("List the most recently generated prompts, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum records to return (default: 10)"),
		),
	)
}

// createClearPromptHistoryTool returns the clear_prompt_history tool definition
func createClearPromptHistoryTool() mcp.Tool {
	return mcp.NewTool("clear_prompt_history",
		mcp.WithDescription("Delete all stored prompt history records."),
	)
}

// createRenderChartTool returns the render_chart tool definition
func createRenderChartTool() mcp.Tool {
	return mcp.NewTool("render_chart",
		mcp.WithDescription("Render a PNG close-price chart with an MA20 overlay for the last 40 trading days."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Stock ticker, with or without exchange suffix (e.g., 'AAPL' or 'AAPL.US')"),
		),
	)
}
