package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/obinkytt/analyzer/internal/ai"
	"github.com/obinkytt/analyzer/internal/analysis"
)

type AnalyzeRequest struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	Provider string `json:"provider"`
}

// handleAnalyze runs one synchronous analysis: scrape (when a URL is
// given), normalize, orchestrate, respond. Backend failures never show up
// here; the orchestrator degrades to the heuristic on its own.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	req.Text = strings.TrimSpace(req.Text)
	if req.URL == "" && req.Text == "" {
		respondError(w, http.StatusBadRequest, "Provide a URL or a text description")
		return
	}

	var override ai.Kind
	if req.Provider != "" {
		kind, ok := ai.ParseKind(req.Provider)
		if !ok {
			respondError(w, http.StatusBadRequest, "Unknown provider: "+req.Provider)
			return
		}
		override = kind
	}

	analysisReq := analysis.Request{
		Source:   analysis.SourceManual,
		Override: override,
	}

	raw := req.Text
	if req.URL != "" {
		page, err := s.scraper.Scrape(r.Context(), req.URL)
		if err != nil {
			respondError(w, http.StatusBadGateway, "Unable to fetch the website, check the URL and try again")
			return
		}
		raw = page.PromptText()
		analysisReq.Source = page.URL
		analysisReq.Meta = analysis.Meta{
			Title:       page.Title,
			Description: page.Description,
			Keywords:    page.Keywords,
			OpenGraph:   page.OpenGraph,
			Headings:    page.Headings,
		}
	}

	text, err := analysis.Normalize(raw, s.cfg.MaxContentLen)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Nothing to analyze in the provided input")
		return
	}
	analysisReq.Text = text

	result, err := s.orchestrator.Analyze(r.Context(), analysisReq)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyInput) {
			respondError(w, http.StatusBadRequest, "Nothing to analyze in the provided input")
			return
		}
		respondError(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}
