package validation

import (
	"strings"

	"github.com/squadup/squadup/internal/roster"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreatePlayerRequest mirrors the fields needed for create player validation.
type CreatePlayerRequest struct {
	ID    string
	Class string
}

// ValidateCreatePlayerRequest validates the fields of a create player request.
func ValidateCreatePlayerRequest(req CreatePlayerRequest) []FieldError {
	var errs []FieldError

	id := strings.TrimSpace(req.ID)
	if id == "" {
		errs = append(errs, FieldError{Field: "id", Message: "id is required"})
	} else if len(id) > 64 {
		errs = append(errs, FieldError{Field: "id", Message: "id must be at most 64 characters"})
	}

	if req.Class == "" {
		errs = append(errs, FieldError{Field: "class", Message: "class is required"})
	} else if !roster.ValidClass(req.Class) {
		errs = append(errs, FieldError{Field: "class", Message: "class must be one of the game classes"})
	}

	return errs
}

// UpdatePlayerRequest mirrors the fields needed for update player validation.
type UpdatePlayerRequest struct {
	Class string
}

// ValidateUpdatePlayerRequest validates the fields of an update player request.
func ValidateUpdatePlayerRequest(req UpdatePlayerRequest) []FieldError {
	var errs []FieldError

	if req.Class == "" {
		errs = append(errs, FieldError{Field: "class", Message: "class is required"})
	} else if !roster.ValidClass(req.Class) {
		errs = append(errs, FieldError{Field: "class", Message: "class must be one of the game classes"})
	}

	return errs
}
