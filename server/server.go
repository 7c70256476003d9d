// Package server exposes the cooking pipeline over HTTP. It owns the
// boundary rules: query validation, response fallbacks, and converting
// pipeline failures into well-formed response bodies.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cookingagent"
)

const (
	// noResponseFallback substitutes for an empty final response.
	noResponseFallback = "No response generated"

	// directResponseChain substitutes for an empty reasoning chain.
	directResponseChain = "Direct response generated"
)

type askRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server handles HTTP requests for the cooking assistant.
type Server struct {
	pipeline cookingagent.Pipeline
}

func New(pipeline cookingagent.Pipeline) *Server {
	return &Server{pipeline: pipeline}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/ask", s.handleAsk)
	r.Get("/healthz", s.handleHealth)

	return r
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query cannot be empty"})
		return
	}

	slog.Info("SERVER: Handling query", "query", query)

	result, err := s.pipeline.Answer(r.Context(), query)
	if err != nil {
		// The core never degrades; degradation is this layer's job. Any
		// pipeline failure becomes a well-formed response with the error
		// recorded in the reasoning chain.
		slog.Error("SERVER: Pipeline failed", "query", query, "error", err)
		writeJSON(w, http.StatusOK, cookingagent.Result{
			Response:       noResponseFallback,
			Relevant:       false,
			ReasoningChain: []string{fmt.Sprintf("Error processing query: %v", err)},
		})
		return
	}

	writeJSON(w, http.StatusOK, coerceResult(result))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// coerceResult applies the boundary fallbacks: a blank response becomes
// noResponseFallback and an empty reasoning chain becomes the
// direct-response marker.
func coerceResult(result cookingagent.Result) cookingagent.Result {
	result.Response = strings.TrimSpace(result.Response)
	if result.Response == "" {
		result.Response = noResponseFallback
	}
	if len(result.ReasoningChain) == 0 {
		result.ReasoningChain = []string{directResponseChain}
	}
	return result
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("SERVER: Failed to encode response", "error", err)
	}
}
