package handler

import (
	"context"
	"net/http"

	"github.com/squadup/squadup/internal/api/middleware"
	"github.com/squadup/squadup/internal/api/response"
)

// StorePinger checks the persistence backend is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	store   StorePinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store StorePinger, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version}
}

type storeStatus struct {
	Connected bool    `json:"connected"`
	Error     *string `json:"error"`
}

type healthData struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Store   storeStatus `json:"store"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status := "healthy"
	store := storeStatus{Connected: true}

	if err := h.store.Ping(r.Context()); err != nil {
		status = "degraded"
		msg := err.Error()
		store.Connected = false
		store.Error = &msg
	}

	data := healthData{
		Status:  status,
		Version: h.version,
		Store:   store,
	}

	response.Success(w, http.StatusOK, data, requestID)
}
