// Package handlers provides HTTP request handlers for the assist service.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/telhawk-systems/telhawk-assist/common/httputil"
	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/common/middleware"
	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
	"github.com/telhawk-systems/telhawk-assist/internal/orchestrator"
	"github.com/telhawk-systems/telhawk-assist/internal/service"
)

const serviceName = "assist"

// AssistService is the subset of service.Service used by the handlers.
type AssistService interface {
	HandleMessage(ctx context.Context, userID, message string, history []models.ConversationTurn) (*models.ChatReply, error)
	GetHistory(ctx context.Context, userID string, limit int) ([]models.ConversationTurn, error)
	GetDashboardStats(ctx context.Context) models.DashboardStats
	Ready(ctx context.Context) map[string]error
}

// Handler provides HTTP handlers for the assist service
type Handler struct {
	svc    AssistService
	logger *logging.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(svc AssistService, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logging.OrDefault(logger)}
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message string                    `json:"message"`
	UserID  string                    `json:"userId,omitempty"`
	History []models.ConversationTurn `json:"history,omitempty"`
}

// HistoryResponse is the body of GET /api/v1/chat/history.
type HistoryResponse struct {
	UserID string                    `json:"userId"`
	Count  int                       `json:"count"`
	Turns  []models.ConversationTurn `json:"turns"`
}

// ToolsResponse is the body of GET /api/v1/tools.
type ToolsResponse struct {
	Tools []catalog.Definition `json:"tools"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// userID returns the caller identity from the X-User-ID header, falling
// back to the value supplied in the request.
func userID(r *http.Request, fallback string) string {
	if id := middleware.GetUserID(r.Context()); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.URL.Query().Get("userId")); id != "" {
		return id
	}
	return strings.TrimSpace(fallback)
}

// HealthCheck handles GET /healthz
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: serviceName})
}

// ReadyCheck handles GET /readyz
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	failures := h.svc.Ready(r.Context())
	if len(failures) == 0 {
		httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ready", Service: serviceName})
		return
	}

	checks := make(map[string]string, len(failures))
	for name, err := range failures {
		checks[name] = err.Error()
	}
	httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "not_ready", Service: serviceName, Checks: checks})
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ChatRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r, req.UserID)
	if uid == "" {
		httputil.WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.svc.HandleMessage(r.Context(), uid, req.Message, req.History)
	if err != nil {
		h.writeChatError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reply)
}

func (h *Handler) writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, orchestrator.ErrEmptyMessage), errors.Is(err, orchestrator.ErrMissingUser):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orchestrator.ErrEngineUnavailable):
		h.logger.ErrorContext(r.Context(), "chat failed", logging.Error(err))
		httputil.WriteError(w, http.StatusBadGateway, "the reasoning engine is unavailable, please try again")
	default:
		h.logger.ErrorContext(r.Context(), "chat failed", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// History handles GET /api/v1/chat/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	uid := userID(r, "")
	if uid == "" {
		httputil.WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	turns, err := h.svc.GetHistory(r.Context(), uid, limit)
	if err != nil {
		if errors.Is(err, service.ErrMissingUser) {
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "history read failed", logging.UserID(uid), logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HistoryResponse{UserID: uid, Count: len(turns), Turns: turns})
}

// DashboardStats handles GET /api/v1/dashboard/stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.svc.GetDashboardStats(r.Context()))
}

// Tools handles GET /api/v1/tools
func (h *Handler) Tools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ToolsResponse{Tools: catalog.Definitions()})
}
