package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/squadup/squadup/internal/api/middleware"
	"github.com/squadup/squadup/internal/api/response"
	"github.com/squadup/squadup/internal/auth"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AuthHandler handles admin login and logout.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	token, err := h.service.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid password", requestID)
			return
		}
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed", requestID)
		return
	}

	response.Success(w, http.StatusOK, loginResponse{Token: token}, requestID)
}

// Logout handles POST /auth/logout. Revoking an unknown token succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Header.Get(middleware.AdminTokenHeader))
	response.NoContent(w)
}
