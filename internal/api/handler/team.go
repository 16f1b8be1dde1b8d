package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/squadup/squadup/internal/api/middleware"
	"github.com/squadup/squadup/internal/api/response"
	"github.com/squadup/squadup/internal/api/validation"
	"github.com/squadup/squadup/internal/roster"
	"github.com/squadup/squadup/internal/team"
)

type formTeamRequest struct {
	Captain string   `json:"captain"`
	Members []string `json:"members"`
}

type teamMemberResponse struct {
	ID    string `json:"id"`
	Class string `json:"class"`
	Role  string `json:"role"` // "captain" or "member"
}

type teamResponse struct {
	Index   int                  `json:"index"`
	Captain string               `json:"captain"`
	Members []teamMemberResponse `json:"members"`
}

// TeamHandler handles team formation and disband endpoints.
type TeamHandler struct {
	roster   *roster.Store
	registry *team.Registry
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(r *roster.Store, reg *team.Registry) *TeamHandler {
	return &TeamHandler{roster: r, registry: reg}
}

func (h *TeamHandler) toTeamResponse(index int, t team.Team) teamResponse {
	members := make([]teamMemberResponse, 0, len(t.Members))
	for i, id := range t.Members {
		role := "member"
		if i == 0 {
			role = "captain"
		}
		members = append(members, teamMemberResponse{
			ID:    id,
			Class: h.roster.ClassOf(id),
			Role:  role,
		})
	}
	return teamResponse{Index: index, Captain: t.Captain, Members: members}
}

// List handles GET /teams. Indexes are 1-based, matching what disband
// expects.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teams := h.registry.Teams()
	items := make([]teamResponse, 0, len(teams))
	for i, t := range teams {
		items = append(items, h.toTeamResponse(i+1, t))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// Create handles POST /teams: forms a team from a captain and the
// remaining members.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req formTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateFormTeamRequest(validation.FormTeamRequest{
		Captain: req.Captain,
		Members: req.Members,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	formed, err := h.registry.FormTeam(r.Context(), req.Captain, req.Members)
	if err != nil {
		h.writeTeamError(w, err, requestID)
		return
	}

	index := len(h.registry.Teams())
	response.Success(w, http.StatusCreated, h.toTeamResponse(index, formed), requestID)
}

// Delete handles DELETE /teams/{index} (admin): disbands the team at the
// given 1-based index and frees its members.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	indexStr := chi.URLParam(r, "index")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_INDEX", "index must be an integer", requestID)
		return
	}

	if err := h.registry.Disband(r.Context(), index); err != nil {
		h.writeTeamError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// writeTeamError maps registry errors onto the API error taxonomy.
func (h *TeamHandler) writeTeamError(w http.ResponseWriter, err error, requestID string) {
	var sizeErr *team.SizeError
	if errors.As(err, &sizeErr) {
		response.Err(w, http.StatusBadRequest, "TEAM_SIZE", sizeErr.Error(), requestID)
		return
	}

	var unknownErr *team.UnknownPlayerError
	if errors.As(err, &unknownErr) {
		response.Err(w, http.StatusNotFound, "UNKNOWN_PLAYER", unknownErr.Error(), requestID)
		return
	}

	var assignedErr *team.AlreadyAssignedError
	if errors.As(err, &assignedErr) {
		response.ErrWithDetails(w, http.StatusConflict, "ALREADY_ASSIGNED", assignedErr.Error(), assignedErr.IDs, requestID)
		return
	}

	var indexErr *team.IndexError
	if errors.As(err, &indexErr) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", indexErr.Error(), requestID)
		return
	}

	writePersistOrInternal(w, err, "team operation", requestID)
}
