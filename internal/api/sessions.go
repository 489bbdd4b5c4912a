package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/testlens-hq/testlens/internal/engine"
	"github.com/testlens-hq/testlens/internal/session"
	"github.com/testlens-hq/testlens/pkg/model"
)

// CreateSessionRequest is the request body for starting a session
type CreateSessionRequest struct {
	FilePath   string `json:"file_path"`
	Source     string `json:"source,omitempty"`
	ClassName  string `json:"class_name,omitempty"`
	TestType   string `json:"test_type,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

// CompleteMethodRequest is the request body for recording a tested method
type CompleteMethodRequest struct {
	Method   string `json:"method"`
	TestPath string `json:"test_path,omitempty"`
}

// SessionResponse pairs a new session with its derived plan
type SessionResponse struct {
	Session *model.Session `json:"session"`
	Plan    *model.Plan    `json:"plan"`
}

// SessionDetailResponse adds live progress to the session view
type SessionDetailResponse struct {
	Session  *model.Session  `json:"session"`
	Plan     *model.Plan     `json:"plan"`
	Progress *model.Progress `json:"progress"`
}

// createSession analyzes a class and starts a guided testing session
// POST /api/v1/sessions
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FilePath == "" {
		writeError(w, http.StatusBadRequest, "file_path is required")
		return
	}

	sess, plan, err := s.engine.CreateSession(r.Context(), engine.SessionRequest{
		FilePath:   req.FilePath,
		Source:     req.Source,
		ClassName:  req.ClassName,
		TestType:   req.TestType,
		OutputPath: req.OutputPath,
	})
	if err != nil {
		writeAnalysisError(w, req.FilePath, err)
		return
	}

	log.Info().
		Str("session_id", sess.ID).
		Str("class", sess.ClassName).
		Int("methods", len(sess.Methods)).
		Msg("session created")

	writeJSON(w, http.StatusCreated, SessionResponse{Session: sess, Plan: plan})
}

// getSession returns a session with its plan and progress
// GET /api/v1/sessions/{sessionID}
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	sess, err := s.engine.Session(sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	plan, err := s.engine.Plan(sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	progress, err := s.engine.Progress(sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SessionDetailResponse{
		Session:  sess,
		Plan:     plan,
		Progress: progress,
	})
}

// nextMethod picks the next method to test
// POST /api/v1/sessions/{sessionID}/next
func (s *Server) nextMethod(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	next, err := s.engine.AdvanceSession(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, next)
}

// completeMethod records generated tests for a method
// POST /api/v1/sessions/{sessionID}/complete
func (s *Server) completeMethod(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var req CompleteMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Method == "" {
		writeError(w, http.StatusBadRequest, "method is required")
		return
	}

	progress, err := s.engine.CompleteMethod(r.Context(), sessionID, req.Method, req.TestPath)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// deleteSession ends a session and discards its state
// DELETE /api/v1/sessions/{sessionID}
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	s.engine.DeleteSession(sessionID)

	log.Info().Str("session_id", sessionID).Msg("session deleted")

	w.WriteHeader(http.StatusNoContent)
}

// sessionID extracts and validates the session ID route parameter
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "sessionID")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid session ID")
		return "", false
	}
	return id, true
}

// writeSessionError maps session store failures onto HTTP statuses
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrPlanNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, session.ErrMethodNotFound):
		writeError(w, http.StatusNotFound, "method not tracked in session")
	default:
		log.Error().Err(err).Msg("session operation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
