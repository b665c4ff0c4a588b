// Package prompt builds LLM analyst prompts from assembled market data
package prompt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/models"
)

// Service implements interfaces.PromptService
type Service struct {
	market  interfaces.MarketService
	storage interfaces.StorageManager
	ai      interfaces.AIClient
	config  *common.Config
	logger  *common.Logger
}

// NewService creates a new prompt service. The AI client may be nil; only
// RunAnalysis requires it.
func NewService(market interfaces.MarketService, storage interfaces.StorageManager, ai interfaces.AIClient, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		market:  market,
		storage: storage,
		ai:      ai,
		config:  config,
		logger:  logger,
	}
}

// Generate builds the full multi-section prompt for a ticker and persona
func (s *Service) Generate(ctx context.Context, ticker string, opts interfaces.GenerateOptions) (*models.GeneratedPrompt, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	personaKey := opts.PersonaKey
	if personaKey == "" {
		personaKey = s.config.Prompt.DefaultPersona
	}
	if personaKey == "" {
		personaKey = DefaultPersonaKey
	}
	persona := LookupPersona(personaKey)

	stock, err := s.market.GetStockData(ctx, ticker, opts.ForceRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock data for %s: %w", ticker, err)
	}

	sector := ""
	if stock.Fundamentals != nil {
		sector = stock.Fundamentals.Sector
	}
	macro, err := s.market.GetMacroContext(ctx, sector)
	if err != nil {
		// The macro backdrop is context, not the subject; degrade to a
		// prompt without it rather than failing the generation.
		s.logger.Warn().Err(err).Str("ticker", stock.Ticker).Msg("Macro context unavailable, generating without it")
		macro = nil
	}

	text := BuildPrompt(persona, stock, macro)

	generated := &models.GeneratedPrompt{
		Ticker:      stock.Ticker,
		PersonaKey:  persona.Key,
		PersonaName: persona.Name,
		Text:        text,
		GeneratedAt: time.Now().UTC(),
	}

	if opts.SaveToFile {
		path, err := s.writePromptFile(stock.Ticker, text)
		if err != nil {
			return nil, fmt.Errorf("failed to save prompt file: %w", err)
		}
		generated.FilePath = path
		s.logger.Info().Str("ticker", stock.Ticker).Str("path", path).Msg("Prompt written to file")
	}

	if !opts.SkipHistory {
		if err := s.recordHistory(ctx, generated); err != nil {
			s.logger.Warn().Err(err).Str("ticker", stock.Ticker).Msg("Failed to record prompt history")
		}
	}

	s.logger.Info().
		Str("ticker", stock.Ticker).
		Str("persona", persona.Key).
		Int("length", len(text)).
		Msg("Prompt generated")

	return generated, nil
}

// RunAnalysis generates a prompt and runs it through the AI client
func (s *Service) RunAnalysis(ctx context.Context, ticker string, opts interfaces.GenerateOptions) (string, error) {
	if s.ai == nil {
		return "", fmt.Errorf("AI client not configured; set the Gemini API key to run analysis")
	}

	generated, err := s.Generate(ctx, ticker, opts)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("ticker", generated.Ticker).Msg("Running analysis")
	result, err := s.ai.GenerateContent(ctx, generated.Text)
	if err != nil {
		return "", fmt.Errorf("analysis failed for %s: %w", generated.Ticker, err)
	}
	return result, nil
}

// Personas returns all registered personas, analyst personas first
func (s *Service) Personas() []models.Persona {
	return Personas()
}

// History returns the most recent prompt records, newest first
func (s *Service) History(ctx context.Context, limit int) ([]*models.PromptRecord, error) {
	if limit <= 0 {
		limit = s.config.Prompt.HistoryLimit
	}
	return s.storage.InternalStore().ListPromptRecords(ctx, limit)
}

// ClearHistory removes all prompt records and returns the count deleted
func (s *Service) ClearHistory(ctx context.Context) (int, error) {
	count, err := s.storage.InternalStore().DeletePromptRecords(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("count", count).Msg("Prompt history cleared")
	return count, nil
}

func (s *Service) writePromptFile(ticker, text string) (string, error) {
	dir := s.config.Prompt.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// AAPL.US -> AAPL for the filename
	base := ticker
	if idx := strings.Index(base, "."); idx > 0 {
		base = base[:idx]
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_expert_prompt.txt", base))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Service) recordHistory(ctx context.Context, generated *models.GeneratedPrompt) error {
	record := &models.PromptRecord{
		ID:          uuid.New().String(),
		Ticker:      generated.Ticker,
		PersonaKey:  generated.PersonaKey,
		PersonaName: generated.PersonaName,
		Text:        generated.Text,
		CreatedAt:   generated.GeneratedAt,
	}
	if err := s.storage.InternalStore().SavePromptRecord(ctx, record); err != nil {
		return err
	}
	if max := s.config.Prompt.HistoryLimit; max > 0 {
		if _, err := s.storage.InternalStore().PrunePromptRecords(ctx, max); err != nil {
			return err
		}
	}
	return nil
}

// Ensure Service implements the interface
var _ interfaces.PromptService = (*Service)(nil)
