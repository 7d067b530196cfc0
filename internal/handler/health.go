package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"zoho-inquiry-relay/internal/service"
	"zoho-inquiry-relay/pkg/logger"
)

// LivenessMessage is the plain-text body served on GET /
const LivenessMessage = "Zoho inquiry relay is running"

// TokenStatusReporter exposes the cached token state
type TokenStatusReporter interface {
	Status() service.TokenStatus
}

// HealthHandler handles health check requests
type HealthHandler struct {
	tokens    TokenStatusReporter
	logger    *logger.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(tokens TokenStatusReporter, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		tokens:    tokens,
		logger:    log,
		startTime: time.Now(),
	}
}

// Liveness handles GET /
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(LivenessMessage))
}

// CheckHealth handles GET /health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"token":     h.tokens.Status(),
		"uptime":    time.Since(h.startTime).String(),
		"timestamp": time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to write health response")
	}
}
