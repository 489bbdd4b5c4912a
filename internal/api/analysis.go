package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/testlens-hq/testlens/internal/analyzer"
	"github.com/testlens-hq/testlens/internal/engine"
	"github.com/testlens-hq/testlens/internal/parser"
)

// AnalyzeRequest is the request body for analyzing a class
type AnalyzeRequest struct {
	FilePath    string `json:"file_path"`
	Source      string `json:"source,omitempty"`
	ClassName   string `json:"class_name,omitempty"`
	FocusMethod string `json:"focus_method,omitempty"`
}

// analyzeClass runs the full analysis pipeline over one class
// POST /api/v1/analyze
func (s *Server) analyzeClass(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FilePath == "" {
		writeError(w, http.StatusBadRequest, "file_path is required")
		return
	}

	bundle, err := s.engine.AnalyzeClass(r.Context(), engine.AnalyzeRequest{
		FilePath:    req.FilePath,
		Source:      req.Source,
		ClassName:   req.ClassName,
		FocusMethod: req.FocusMethod,
	})
	if err != nil {
		writeAnalysisError(w, req.FilePath, err)
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

// writeAnalysisError maps analysis failures onto HTTP statuses
func writeAnalysisError(w http.ResponseWriter, filePath string, err error) {
	var classErr *parser.ClassNotFoundError
	var methodErr *analyzer.MethodNotFoundError
	switch {
	case errors.As(err, &classErr), errors.As(err, &methodErr):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Str("file", filePath).Msg("analysis failed")
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
