package prompt

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/models"
)

// BuildPrompt renders the full multi-section analysis prompt for a symbol.
// Missing data renders as N/A rather than a fabricated number; the analysis
// task asks the model to respect that.
func BuildPrompt(persona models.Persona, stock *models.StockData, macro *models.MacroContext) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are %s. Your objective is: %s\n", persona.Name, persona.Instruction))

	writeMacroSection(&sb, macro)
	sb.WriteString(fmt.Sprintf("\n### DATASET FOR %s (%s) ###\n", stock.Ticker, stock.Name))
	writeSmartMoneySection(&sb, stock)
	writePriceSection(&sb, stock)
	writeFundamentalsSection(&sb, stock)
	writeInstitutionalSection(&sb, stock)
	writeNewsSection(&sb, stock)
	writeTaskSection(&sb, persona)

	return sb.String()
}

func writeMacroSection(sb *strings.Builder, macro *models.MacroContext) {
	sb.WriteString("\n### GLOBAL & MACRO CONTEXT ###\n")
	if macro == nil {
		sb.WriteString("- Macro data unavailable\n")
		return
	}
	sb.WriteString(fmt.Sprintf("- VIX Index: %s (Volatility check)\n", common.FormatOptionalFloat(macro.VIX, macro.VIX > 0)))
	sb.WriteString(fmt.Sprintf("- 10Y Yield: %s (Interest rate pressure)\n", common.FormatOptionalPct(macro.TenYearYield, macro.TenYearYield > 0)))
	sb.WriteString(fmt.Sprintf("- %s Weekly: %s (Market Benchmark)\n", macro.BenchmarkTicker, common.FormatSignedPct(macro.BenchmarkWeekPct)))
	if macro.HasSectorETF {
		sb.WriteString(fmt.Sprintf("- Sector ETF %s Weekly: %s (Sector Benchmark)\n", macro.SectorETF, common.FormatSignedPct(macro.SectorETFWeekPct)))
	}
}

func writeSmartMoneySection(sb *strings.Builder, stock *models.StockData) {
	sb.WriteString("\n### 1. Smart Money & Sentiment:\n")
	sb.WriteString("- Insider Activity (Recent):\n")
	if len(stock.Insider) == 0 {
		sb.WriteString("  - No recent insider transactions reported\n")
	}
	for _, trade := range stock.Insider {
		sb.WriteString(fmt.Sprintf("  - %s: %s %s %s shares @ %s\n",
			trade.Date.Format("2006-01-02"),
			insiderActor(trade),
			trade.Type,
			common.FormatVolume(trade.Shares),
			common.FormatOptionalMoney(trade.Price, trade.Price > 0)))
	}
	var shortRatio string
	if stock.Fundamentals != nil && stock.Fundamentals.ShortRatio > 0 {
		shortRatio = fmt.Sprintf("%.2f", stock.Fundamentals.ShortRatio)
	} else {
		shortRatio = common.NotAvailable
	}
	sb.WriteString(fmt.Sprintf("- Short Ratio: %s (Note: Above 5-10 indicates high bearish interest or squeeze potential)\n", shortRatio))
}

func insiderActor(trade models.InsiderTransaction) string {
	if trade.OwnerTitle != "" {
		return fmt.Sprintf("%s (%s)", trade.OwnerName, trade.OwnerTitle)
	}
	if trade.OwnerName != "" {
		return trade.OwnerName
	}
	return "Insider"
}

func writePriceSection(sb *strings.Builder, stock *models.StockData) {
	sb.WriteString("\n### 2. Market Price Action:\n")
	snap := stock.Snapshot
	if snap == nil {
		sb.WriteString("- Price history unavailable\n")
		return
	}
	sb.WriteString(fmt.Sprintf("- Latest Close Price: %s\n", common.FormatOptionalMoney(snap.Price, snap.Price > 0)))
	sb.WriteString(fmt.Sprintf("- Weekly Change: %s\n", formatOptionalSignedPct(snap.WeeklyChange)))
	sb.WriteString(fmt.Sprintf("- 20-Day Moving Average (MA20): %s\n", common.FormatOptionalMoney(snap.MA20.Value, snap.MA20.Valid)))
	sb.WriteString(fmt.Sprintf("- RSI (14-Day): %s (%s)\n", common.FormatOptionalFloat(snap.RSI14.Value, snap.RSI14.Valid), snap.RSIClass))
	sb.WriteString(fmt.Sprintf("- MACD Histogram: %s (%s)\n", common.FormatOptionalFloat(snap.MACD.Histogram, snap.MACD.Valid && snap.MACD.SignalValid), snap.MACDClass))
	sb.WriteString(fmt.Sprintf("- Volume: %s (20-Day Avg: %s)\n", common.FormatVolume(snap.Volume), common.FormatVolume(snap.AvgVolume20)))
	if stock.Fundamentals != nil {
		sb.WriteString(fmt.Sprintf("- Beta (Volatility): %s\n", common.FormatOptionalFloat(stock.Fundamentals.Beta, stock.Fundamentals.Beta != 0)))
		if stock.Fundamentals.Sector != "" {
			sb.WriteString(fmt.Sprintf("- Sector: %s\n", stock.Fundamentals.Sector))
		}
	}
}

func writeFundamentalsSection(sb *strings.Builder, stock *models.StockData) {
	sb.WriteString("\n### 3. Fundamental & Profitability Metrics:\n")
	f := stock.Fundamentals
	if f == nil {
		sb.WriteString("- Fundamental data unavailable\n")
		return
	}
	sb.WriteString(fmt.Sprintf("- Market Cap: %s\n", common.FormatMarketCap(f.MarketCap)))
	sb.WriteString(fmt.Sprintf("- Forward P/E Ratio: %s\n", common.FormatOptionalFloat(f.ForwardPE, f.ForwardPE > 0)))
	sb.WriteString(fmt.Sprintf("- Gross Margins: %s\n", common.FormatOptionalPct(f.GrossMargin*100, f.GrossMargin != 0)))
	sb.WriteString(fmt.Sprintf("- Return on Equity (ROE): %s\n", common.FormatOptionalPct(f.ReturnOnEquity*100, f.ReturnOnEquity != 0)))
	sb.WriteString(fmt.Sprintf("- Free Cash Flow: %s\n", formatCashflow(f.FreeCashflow)))
	low := common.FormatOptionalMoney(f.Low52Week, f.Low52Week > 0)
	high := common.FormatOptionalMoney(f.High52Week, f.High52Week > 0)
	sb.WriteString(fmt.Sprintf("- 52-Week Range: %s - %s\n", low, high))
}

func writeInstitutionalSection(sb *strings.Builder, stock *models.StockData) {
	sb.WriteString("\n### 4. Institutional Context:\n")
	f := stock.Fundamentals
	if f != nil {
		sb.WriteString(fmt.Sprintf("- Analyst Target Price (Mean): %s\n", common.FormatOptionalMoney(f.TargetPrice, f.TargetPrice > 0)))
		recommendation := f.Recommendation
		if recommendation == "" {
			recommendation = common.NotAvailable
		}
		sb.WriteString(fmt.Sprintf("- Analyst Recommendation: %s\n", recommendation))
	} else {
		sb.WriteString(fmt.Sprintf("- Analyst Target Price (Mean): %s\n", common.NotAvailable))
		sb.WriteString(fmt.Sprintf("- Analyst Recommendation: %s\n", common.NotAvailable))
	}
	if stock.NextEarnings != nil {
		sb.WriteString(fmt.Sprintf("- NEXT EARNINGS DATE: %s\n", stock.NextEarnings.ReportDate.Format("2006-01-02")))
	} else {
		sb.WriteString(fmt.Sprintf("- NEXT EARNINGS DATE: %s\n", common.NotAvailable))
	}
}

func writeNewsSection(sb *strings.Builder, stock *models.StockData) {
	sb.WriteString("\n### 5. Recent News Catalysts:\n")
	if len(stock.News) == 0 {
		sb.WriteString("- No recent headlines found\n")
		return
	}
	for _, item := range stock.News {
		source := item.Source
		if source == "" {
			source = "Unknown"
		}
		sb.WriteString(fmt.Sprintf("- %s (Source: %s)\n", item.Title, source))
	}
}

func writeTaskSection(sb *strings.Builder, persona models.Persona) {
	sb.WriteString("\n---\n### ANALYSIS TASK ###\n")
	sb.WriteString(fmt.Sprintf("Based on your unique expertise as %s, please provide:\n", persona.Name))
	sb.WriteString("1. Smart Money Check: What does the Insider Activity and Short Ratio tell you about the current sentiment?\n")
	sb.WriteString("2. Technical vs Fundamental: Contrast the chart momentum (MA20/RSI) with its valuation and analyst targets.\n")
	sb.WriteString("3. Macro/Event Synthesis: Factor in VIX, 10Y Yield, and the upcoming Earnings Date.\n")
	sb.WriteString("4. Discount or Premium: Is the stock trading at a discount or premium relative to analyst targets and its 52-week range?\n")
	sb.WriteString("5. Provide 3 high-conviction Buy Reasons and 3 Key Risks.\n")
	sb.WriteString("6. Final Short-Term Outlook (5-10 trading days).\n")
	sb.WriteString("Treat any field marked N/A as unknown; do not invent values for it.\n")
}

func formatOptionalSignedPct(v models.IndicatorValue) string {
	if !v.Valid {
		return common.NotAvailable
	}
	return common.FormatSignedPct(v.Value)
}

// formatCashflow renders free cash flow in billions or millions of dollars.
func formatCashflow(v float64) string {
	if v == 0 {
		return common.NotAvailable
	}
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if abs >= 1e9 {
		return fmt.Sprintf("$%.2fB", v/1e9)
	}
	return fmt.Sprintf("$%.2fM", v/1e6)
}
