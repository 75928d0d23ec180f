// Package http implements the REST API for PrepNest.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prepnest/prepnest/internal/application/command"
	"github.com/prepnest/prepnest/internal/application/query"
	"github.com/prepnest/prepnest/internal/domain/shared"
	"github.com/prepnest/prepnest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot handles GET /.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "prepnest-api",
		"status":  "ok",
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": s.Uptime().String(),
	})
}

// handleLive handles GET /live. Liveness only means the process serves.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleReady handles GET /ready. Readiness requires a reachable store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ══════════════════════════════════════════════════════════════════════════════
// QUIZ CATALOG HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetQuestions handles GET /api/quiz/{domain}/{level}.
// Success is a bare array of questions; a miss after all matching
// stages carries the diagnostic payload with the available catalog.
func (s *Server) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	result, err := s.deps.GetQuestionsHandler.Handle(ctx, query.GetQuestionsQuery{
		Domain: r.PathValue("domain"),
		Level:  r.PathValue("level"),
	})
	if err != nil {
		s.respondError(w, r, err, "Failed to fetch questions")
		return
	}

	if result.NotFound != nil {
		writeJSON(w, http.StatusNotFound, result.NotFound)
		return
	}

	writeJSON(w, http.StatusOK, result.Questions)
}

// handleGetPracticeSet handles GET /api/quiz/practice/{domain}.
func (s *Server) handleGetPracticeSet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	result, err := s.deps.GetPracticeSetHandler.Handle(ctx, query.GetPracticeSetQuery{
		Domain: r.PathValue("domain"),
	})
	if err != nil {
		s.respondError(w, r, err, "Failed to fetch practice questions")
		return
	}

	if result.NotFound != nil {
		writeJSON(w, http.StatusNotFound, result.NotFound)
		return
	}

	writeJSON(w, http.StatusOK, result.Questions)
}

// handleGetQuestion handles GET /api/quiz/question/{id}.
func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	result, err := s.deps.GetQuestionHandler.Handle(ctx, query.GetQuestionQuery{
		ID: r.PathValue("id"),
	})
	if err != nil {
		s.respondError(w, r, err, "Failed to fetch question")
		return
	}

	writeJSON(w, http.StatusOK, result.Question)
}

// handleListDomains handles GET /api/quiz/domains/list.
// Never fails: a store outage degrades to the fixed fallback catalog.
func (s *Server) handleListDomains(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	result := s.deps.ListDomainsHandler.Handle(ctx)
	writeJSON(w, http.StatusOK, result.Domains)
}

// handleDomainStats handles GET /api/quiz/stats/domains.
func (s *Server) handleDomainStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	result, err := s.deps.DomainStatsHandler.Handle(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch domain stats", err)
		return
	}

	writeJSON(w, http.StatusOK, result.Stats)
}

// handleLevelCounts handles GET /api/quiz/counts/{domain}.
func (s *Server) handleLevelCounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	result, err := s.deps.LevelCountsHandler.Handle(ctx, query.LevelCountsQuery{
		Domain: r.PathValue("domain"),
	})
	if err != nil {
		s.respondError(w, r, err, "Failed to fetch question counts")
		return
	}

	writeJSON(w, http.StatusOK, result.Counts)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS LEDGER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetProgress handles GET /api/quiz/progress/user.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	result, err := s.deps.GetProgressHandler.Handle(ctx, query.GetProgressQuery{
		UserID: userIDFromContext(r.Context()),
	})
	if err != nil {
		s.respondError(w, r, err, "Failed to fetch progress")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// submitQuizRequest is the submission payload sent by the frontend.
type submitQuizRequest struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	CorrectAnswers int    `json:"correctAnswers"`
	Domain         string `json:"domain"`
	Level          string `json:"level"`
}

// handleSubmitQuiz handles POST /api/quiz/submit.
func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := s.queryContext(r)
	defer cancel()

	result, err := s.deps.SubmitQuizHandler.Handle(ctx, command.SubmitQuizCommand{
		UserID:         userIDFromContext(r.Context()),
		Domain:         req.Domain,
		Level:          req.Level,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
	})
	if err != nil {
		s.respondError(w, r, err, "Failed to save quiz results")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// respondError maps domain errors to HTTP status codes. Store failures
// surface as a generic message with the underlying error attached.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	switch {
	case shared.IsNotFound(err):
		writeMessage(w, http.StatusNotFound, messageOf(err, "Not found"))
	case shared.IsValidation(err):
		writeMessage(w, http.StatusBadRequest, messageOf(err, "Invalid request"))
	case shared.IsUnauthorized(err):
		writeMessage(w, http.StatusUnauthorized, messageOf(err, "Unauthorized"))
	default:
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, fallbackMsg, err)
	}
}

// messageOf returns the domain error message, or a fallback.
func messageOf(err error, fallback string) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
