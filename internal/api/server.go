// internal/api/server.go

// Package api exposes the workflow operations over HTTP. The surface is
// deliberately thin: decode, validate, delegate, encode.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"rfp-bid-engine/internal/common/errors"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/common/validation"
	"rfp-bid-engine/internal/models"
)

// WorkflowService is the orchestrator surface the API delegates to.
type WorkflowService interface {
	Start(ctx context.Context, inlineDocument string) (*models.WorkflowInstance, error)
	ExecuteNext(ctx context.Context, workflowID string) (*models.WorkflowInstance, error)
	RunToCompletion(ctx context.Context, workflowID string) (*models.WorkflowInstance, error)
	Get(ctx context.Context, workflowID string) (*models.WorkflowInstance, error)
}

var startRequestSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"document_text": map[string]interface{}{"type": "string"},
	},
}

type startRequest struct {
	DocumentText string `json:"document_text"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Server struct {
	service WorkflowService
	logger  logger.Logger
}

func NewServer(service WorkflowService, log logger.Logger) *Server {
	return &Server{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Routes registers all handlers on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/workflows", s.handleStart)
	mux.HandleFunc("GET /api/v1/workflows/{id}", s.handleGet)
	mux.HandleFunc("POST /api/v1/workflows/{id}/steps", s.handleExecuteNext)
	mux.HandleFunc("POST /api/v1/workflows/{id}/run", s.handleRun)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body could not be read", "")
		return
	}

	var req startRequest
	if len(body) > 0 {
		if result := validation.ValidateBytes(startRequestSchema, body); !result.Valid {
			s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST",
				"request body failed validation", result.Errors[0].Message)
			return
		}
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON", "")
			return
		}
	}

	workflow, err := s.service.Start(r.Context(), req.DocumentText)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, workflow)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	workflow, err := s.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, workflow)
}

func (s *Server) handleExecuteNext(w http.ResponseWriter, r *http.Request) {
	workflow, err := s.service.ExecuteNext(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, workflow)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	workflow, err := s.service.RunToCompletion(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, workflow)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case stderrors.Is(err, errors.ErrWorkflowNotFound):
		status = http.StatusNotFound
	case stderrors.Is(err, errors.ErrWorkflowCompleted), stderrors.Is(err, errors.ErrWorkflowBusy):
		status = http.StatusConflict
	case errors.IsRetryable(err):
		status = http.StatusBadGateway
	}

	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		s.writeError(w, status, string(stdErr.Code), stdErr.Message, stdErr.Details)
		return
	}
	s.writeError(w, status, "INTERNAL_ERROR", err.Error(), "")
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message, details string) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message, Details: details})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("response encoding failed", nil)
	}
}
