package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/ollie/internal/clients/eodhd"
	"github.com/bobmcallan/ollie/internal/interfaces"
	"github.com/bobmcallan/ollie/internal/models"
)

// --- Prompt handlers ---

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Ticker       string `json:"ticker"`
		Persona      string `json:"persona"`
		ForceRefresh bool   `json:"force_refresh"`
		SaveToFile   bool   `json:"save_to_file"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Ticker) == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	prompt, err := s.app.PromptService.Generate(r.Context(), req.Ticker, interfaces.GenerateOptions{
		PersonaKey:   req.Persona,
		ForceRefresh: req.ForceRefresh,
		SaveToFile:   req.SaveToFile,
	})
	if err != nil {
		if eodhd.IsNotFound(err) {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Unknown ticker %s", req.Ticker))
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error generating prompt: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, prompt)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Ticker       string `json:"ticker"`
		Persona      string `json:"persona"`
		ForceRefresh bool   `json:"force_refresh"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Ticker) == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	analysis, err := s.app.PromptService.RunAnalysis(r.Context(), req.Ticker, interfaces.GenerateOptions{
		PersonaKey:   req.Persona,
		ForceRefresh: req.ForceRefresh,
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"ticker":   req.Ticker,
		"persona":  req.Persona,
		"analysis": analysis,
	})
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"personas": s.app.PromptService.Personas(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if l := r.URL.Query().Get("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				limit = v
			}
		}
		records, err := s.app.PromptService.History(r.Context(), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing history: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"count":   len(records),
			"records": records,
		})

	case http.MethodDelete:
		deleted, err := s.app.PromptService.ClearHistory(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error clearing history: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"deleted": deleted,
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// --- Market data handlers ---

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := strings.TrimPrefix(r.URL.Path, "/api/stock/")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required in path")
		return
	}

	force := queryBool(r, "force")

	stock, err := s.app.MarketService.GetStockData(r.Context(), ticker, force)
	if err != nil {
		if eodhd.IsNotFound(err) {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Unknown ticker %s", ticker))
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error getting stock data: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, stock)
}

func (s *Server) handleMacro(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sector := r.URL.Query().Get("sector")

	macro, err := s.app.MarketService.GetMacroContext(r.Context(), sector)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error getting macro context: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, macro)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := strings.TrimPrefix(r.URL.Path, "/api/chart/")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required in path")
		return
	}

	png, err := s.app.ChartService.RenderPriceChart(r.Context(), ticker)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error rendering chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// --- Watchlist handlers ---

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		wl, err := s.app.WatchlistService.GetWatchlist(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error getting watchlist: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, wl)

	case http.MethodPost:
		var req struct {
			Ticker string `json:"ticker"`
			Name   string `json:"name"`
			Notes  string `json:"notes"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Ticker) == "" {
			WriteError(w, http.StatusBadRequest, "ticker is required")
			return
		}
		wl, err := s.app.WatchlistService.AddOrUpdateItem(r.Context(), &models.WatchlistItem{
			Ticker: req.Ticker,
			Name:   req.Name,
			Notes:  req.Notes,
		})
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error adding watchlist item: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, wl)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleWatchlistItem(w http.ResponseWriter, r *http.Request) {
	ticker := PathParam(r, "/api/watchlist/", "")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required in path")
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		var req struct {
			Name  string `json:"name"`
			Notes string `json:"notes"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		wl, err := s.app.WatchlistService.UpdateItem(r.Context(), ticker, &models.WatchlistItem{
			Name:  req.Name,
			Notes: req.Notes,
		})
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Error updating watchlist item: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, wl)

	case http.MethodDelete:
		wl, err := s.app.WatchlistService.RemoveItem(r.Context(), ticker)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Error removing watchlist item: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, wl)

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

// queryBool parses a boolean query parameter, defaulting to false.
func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
