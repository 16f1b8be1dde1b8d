package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/squadup/squadup/internal/api/middleware"
	"github.com/squadup/squadup/internal/api/response"
	"github.com/squadup/squadup/internal/api/validation"
	"github.com/squadup/squadup/internal/roster"
	"github.com/squadup/squadup/internal/team"
)

type createPlayerRequest struct {
	ID    string `json:"id"`
	Class string `json:"class"`
}

type updatePlayerRequest struct {
	Class string `json:"class"`
}

type playerResponse struct {
	ID       string `json:"id"`
	Class    string `json:"class"`
	Selected bool   `json:"selected"`
}

func toPlayerResponse(p roster.Player) playerResponse {
	return playerResponse{ID: p.ID, Class: p.Class, Selected: p.Selected}
}

// PlayerHandler handles roster endpoints. Reads come straight from the
// roster store; every mutation goes through the registry so it shares the
// writer lock and the persistence protocol.
type PlayerHandler struct {
	roster   *roster.Store
	registry *team.Registry
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(r *roster.Store, reg *team.Registry) *PlayerHandler {
	return &PlayerHandler{roster: r, registry: reg}
}

// List handles GET /players.
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	players := h.roster.List()
	items := make([]playerResponse, 0, len(players))
	for _, p := range players {
		items = append(items, toPlayerResponse(p))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// ListAvailable handles GET /players/available: players not yet on a team,
// the candidate pool for captain and member choices.
func (h *PlayerHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	players := h.roster.ListAvailable()
	items := make([]playerResponse, 0, len(players))
	for _, p := range players {
		items = append(items, toPlayerResponse(p))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Classes handles GET /classes: the fixed character class list the UI
// offers when adding or editing players.
func (h *PlayerHandler) Classes(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	response.Success(w, http.StatusOK, roster.Classes(), requestID)
}

// Create handles POST /players (admin).
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreatePlayerRequest(validation.CreatePlayerRequest{
		ID:    req.ID,
		Class: req.Class,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if err := h.registry.AddPlayer(r.Context(), req.ID, req.Class); err != nil {
		if errors.Is(err, roster.ErrDuplicateID) {
			response.Err(w, http.StatusConflict, "DUPLICATE_ID", fmt.Sprintf("A player with id %q already exists", req.ID), requestID)
			return
		}
		writePersistOrInternal(w, err, "create player", requestID)
		return
	}

	response.Success(w, http.StatusCreated, playerResponse{ID: req.ID, Class: req.Class}, requestID)
}

// Update handles PUT /players/{id} (admin).
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdatePlayerRequest(validation.UpdatePlayerRequest{Class: req.Class})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if err := h.registry.UpdatePlayer(r.Context(), id, req.Class); err != nil {
		if errors.Is(err, roster.ErrPlayerNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Player not found", requestID)
			return
		}
		writePersistOrInternal(w, err, "update player", requestID)
		return
	}

	p, err := h.roster.Get(id)
	if err != nil {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Player not found", requestID)
		return
	}
	response.Success(w, http.StatusOK, toPlayerResponse(p), requestID)
}

// Delete handles DELETE /players/{id} (admin). Players currently on a team
// cannot be removed.
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.registry.RemovePlayer(r.Context(), id); err != nil {
		if errors.Is(err, roster.ErrPlayerNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Player not found", requestID)
			return
		}
		var assigned *team.AlreadyAssignedError
		if errors.As(err, &assigned) {
			response.Err(w, http.StatusConflict, "ALREADY_ASSIGNED", "Player is on a team; disband it first", requestID)
			return
		}
		writePersistOrInternal(w, err, "delete player", requestID)
		return
	}

	response.NoContent(w)
}

// ResetSelections handles POST /players/reset-selections (admin).
func (h *PlayerHandler) ResetSelections(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.registry.ResetSelections(r.Context()); err != nil {
		writePersistOrInternal(w, err, "reset selections", requestID)
		return
	}

	response.NoContent(w)
}

// writePersistOrInternal maps a persistence failure to 502 and anything
// else to 500.
func writePersistOrInternal(w http.ResponseWriter, err error, op string, requestID string) {
	var pe *team.PersistError
	if errors.As(err, &pe) {
		slog.Error("persistence failed", "op", op, "error", err)
		response.Err(w, http.StatusBadGateway, "PERSIST_FAILED", "Failed to persist state; the change was rolled back", requestID)
		return
	}
	slog.Error("operation failed", "op", op, "error", err)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
}
