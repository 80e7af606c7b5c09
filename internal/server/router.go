// Package server provides HTTP server setup for the assist service.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/telhawk-systems/telhawk-assist/common/middleware"
	"github.com/telhawk-systems/telhawk-assist/internal/handlers"
)

// NewRouter constructs a ServeMux with assist API routes registered.
func NewRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints
	mux.HandleFunc("/healthz", h.HealthCheck)
	mux.HandleFunc("/readyz", h.ReadyCheck)
	mux.Handle("/metrics", promhttp.Handler())

	// Assistant routes (under /api/v1/ prefix)
	mux.HandleFunc("/api/v1/chat", h.Chat)
	mux.HandleFunc("/api/v1/chat/history", h.History)
	mux.HandleFunc("/api/v1/dashboard/stats", h.DashboardStats)
	mux.HandleFunc("/api/v1/tools", h.Tools)

	return middleware.RequestID(middleware.Identity(mux))
}
