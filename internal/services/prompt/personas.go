package prompt

import "github.com/bobmcallan/ollie/internal/models"

// DefaultPersonaKey is used when no persona is requested.
const DefaultPersonaKey = "balanced"

// personas is the fixed registry, analyst voices first.
var personas = []models.Persona{
	{
		Key:         "balanced",
		Name:        "Standard/Balanced Analyst",
		Instruction: "Provide a balanced view covering both technical and fundamental aspects.",
		Kind:        models.PersonaKindAnalyst,
	},
	{
		Key:         "value",
		Name:        "Value & Fundamental Specialist",
		Instruction: "Focus heavily on Profitability (Margins, ROE), Valuation (P/E), and Analyst Target Prices. Evaluate the company's financial health and intrinsic value.",
		Kind:        models.PersonaKindAnalyst,
	},
	{
		Key:         "technical",
		Name:        "Technical & Momentum Specialist",
		Instruction: "Focus heavily on Price Action, RSI, Moving Averages, and Volatility (Beta). Identify key support/resistance areas and momentum shifts.",
		Kind:        models.PersonaKindAnalyst,
	},
	{
		Key:         "buffett",
		Name:        "Warren Buffett",
		Instruction: "Value/Moat focus",
		Kind:        models.PersonaKindInvestor,
	},
	{
		Key:         "wood",
		Name:        "Cathie Wood",
		Instruction: "Innovation/Growth focus",
		Kind:        models.PersonaKindInvestor,
	},
	{
		Key:         "burry",
		Name:        "Michael Burry",
		Instruction: "Contrarian/Bubble skepticism",
		Kind:        models.PersonaKindInvestor,
	},
	{
		Key:         "dalio",
		Name:        "Ray Dalio",
		Instruction: "Macro/Cycle focus",
		Kind:        models.PersonaKindInvestor,
	},
	{
		Key:         "lynch",
		Name:        "Peter Lynch",
		Instruction: "GARP/Stock-picking focus",
		Kind:        models.PersonaKindInvestor,
	},
	{
		Key:         "cramer",
		Name:        "Jim Cramer",
		Instruction: "Momentum/Sentiment focus",
		Kind:        models.PersonaKindInvestor,
	},
}

// Personas returns all registered personas, analyst personas first.
func Personas() []models.Persona {
	out := make([]models.Persona, len(personas))
	copy(out, personas)
	return out
}

// LookupPersona resolves a persona by key. Unknown or empty keys fall back
// to the balanced analyst, matching the original's default choice.
func LookupPersona(key string) models.Persona {
	for _, p := range personas {
		if p.Key == key {
			return p
		}
	}
	return personas[0]
}
