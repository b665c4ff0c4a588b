package app

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/models"
)

// formatStockData renders assembled stock data as markdown for MCP output.
func formatStockData(stock *models.StockData) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s — %s\n\n", stock.Ticker, stock.Name))

	if snap := stock.Snapshot; snap != nil {
		sb.WriteString("## Price Action\n\n")
		sb.WriteString(fmt.Sprintf("- **Close:** %s\n", common.FormatMoney(snap.Price)))
		if snap.WeeklyChange.Valid {
			sb.WriteString(fmt.Sprintf("- **Weekly Change:** %s\n", common.FormatSignedPct(snap.WeeklyChange.Value)))
		}
		sb.WriteString(fmt.Sprintf("- **MA20:** %s (price %s)\n",
			common.FormatOptionalMoney(snap.MA20.Value, snap.MA20.Valid), snap.PriceVsMA20))
		sb.WriteString(fmt.Sprintf("- **RSI(14):** %s — %s\n",
			common.FormatOptionalFloat(snap.RSI14.Value, snap.RSI14.Valid), snap.RSIClass))
		sb.WriteString(fmt.Sprintf("- **MACD:** %s\n", snap.MACDClass))
		sb.WriteString(fmt.Sprintf("- **Volume:** %s (20d avg %s)\n",
			common.FormatVolume(snap.Volume), common.FormatVolume(snap.AvgVolume20)))
		if snap.High52Week > 0 {
			sb.WriteString(fmt.Sprintf("- **52-Week Range:** %s - %s\n",
				common.FormatMoney(snap.Low52Week), common.FormatMoney(snap.High52Week)))
		}
		sb.WriteString("\n")
	}

	if f := stock.Fundamentals; f != nil {
		sb.WriteString("## Fundamentals\n\n")
		if f.Sector != "" {
			sb.WriteString(fmt.Sprintf("- **Sector:** %s / %s\n", f.Sector, f.Industry))
		}
		sb.WriteString(fmt.Sprintf("- **Market Cap:** %s\n", common.FormatMarketCap(f.MarketCap)))
		sb.WriteString(fmt.Sprintf("- **Forward P/E:** %s\n", common.FormatOptionalFloat(f.ForwardPE, f.ForwardPE > 0)))
		sb.WriteString(fmt.Sprintf("- **Gross Margin:** %s\n", common.FormatOptionalPct(f.GrossMargin*100, f.GrossMargin != 0)))
		sb.WriteString(fmt.Sprintf("- **ROE:** %s\n", common.FormatOptionalPct(f.ReturnOnEquity*100, f.ReturnOnEquity != 0)))
		sb.WriteString(fmt.Sprintf("- **Beta:** %s\n", common.FormatOptionalFloat(f.Beta, f.Beta != 0)))
		sb.WriteString(fmt.Sprintf("- **Short Ratio:** %s\n", common.FormatOptionalFloat(f.ShortRatio, f.ShortRatio > 0)))
		sb.WriteString(fmt.Sprintf("- **Analyst Target:** %s (%s)\n",
			common.FormatOptionalMoney(f.TargetPrice, f.TargetPrice > 0), valueOrNA(f.Recommendation)))
		sb.WriteString("\n")
	}

	if len(stock.Insider) > 0 {
		sb.WriteString("## Insider Activity\n\n")
		for _, trade := range stock.Insider {
			sb.WriteString(fmt.Sprintf("- %s: %s %s %s shares\n",
				trade.Date.Format("2006-01-02"), trade.OwnerName, trade.Type, common.FormatVolume(trade.Shares)))
		}
		sb.WriteString("\n")
	}

	if stock.NextEarnings != nil {
		sb.WriteString(fmt.Sprintf("**Next Earnings:** %s\n\n", stock.NextEarnings.ReportDate.Format("2006-01-02")))
	}

	if len(stock.News) > 0 {
		sb.WriteString("## Recent News\n\n")
		for _, item := range stock.News {
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", item.Title, valueOrNA(item.Source)))
		}
	}

	return sb.String()
}

// formatMacroContext renders the global market backdrop as markdown.
func formatMacroContext(macro *models.MacroContext) string {
	var sb strings.Builder

	sb.WriteString("# Global & Macro Context\n\n")
	sb.WriteString(fmt.Sprintf("- **VIX:** %s\n", common.FormatOptionalFloat(macro.VIX, macro.VIX > 0)))
	sb.WriteString(fmt.Sprintf("- **10Y Yield:** %s\n", common.FormatOptionalPct(macro.TenYearYield, macro.TenYearYield > 0)))
	sb.WriteString(fmt.Sprintf("- **%s Weekly:** %s\n", macro.BenchmarkTicker, common.FormatSignedPct(macro.BenchmarkWeekPct)))
	if macro.HasSectorETF {
		sb.WriteString(fmt.Sprintf("- **Sector ETF %s Weekly:** %s\n", macro.SectorETF, common.FormatSignedPct(macro.SectorETFWeekPct)))
	}
	sb.WriteString(fmt.Sprintf("\nRetrieved: %s\n", macro.RetrievedAt.Format("2006-01-02 15:04:05")))

	return sb.String()
}

// formatPersonas renders the persona registry as markdown.
func formatPersonas(personas []models.Persona) string {
	var sb strings.Builder

	sb.WriteString("# Available Personas\n\n")
	sb.WriteString("## Analyst Modes\n\n")
	for _, p := range personas {
		if p.Kind != models.PersonaKindAnalyst {
			continue
		}
		sb.WriteString(fmt.Sprintf("- **%s** — %s\n", p.Key, p.Name))
	}
	sb.WriteString("\n## Legendary Investors\n\n")
	for _, p := range personas {
		if p.Kind != models.PersonaKindInvestor {
			continue
		}
		sb.WriteString(fmt.Sprintf("- **%s** — %s (%s)\n", p.Key, p.Name, p.Instruction))
	}

	return sb.String()
}

// formatWatchlist renders the watchlist as markdown.
func formatWatchlist(watchlist *models.Watchlist) string {
	if len(watchlist.Items) == 0 {
		return "Watchlist is empty. Use `add_watchlist_item` to add tickers."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Watchlist (%d)\n\n", len(watchlist.Items)))
	for _, item := range watchlist.Items {
		sb.WriteString(fmt.Sprintf("- **%s**", item.Ticker))
		if item.Name != "" {
			sb.WriteString(fmt.Sprintf(" — %s", item.Name))
		}
		if item.Notes != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", item.Notes))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatPromptHistory renders prompt history records as markdown.
func formatPromptHistory(records []*models.PromptRecord) string {
	if len(records) == 0 {
		return "No prompt history. Use `generate_prompt` to create one."
	}

	var sb strings.Builder
	sb.WriteString("# Prompt History\n\n")
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("- **%s** — %s — %s (%d chars)\n",
			rec.Ticker, rec.PersonaName, rec.CreatedAt.Format("2006-01-02 15:04:05"), len(rec.Text)))
	}

	return sb.String()
}

func valueOrNA(s string) string {
	if s == "" {
		return common.NotAvailable
	}
	return s
}
