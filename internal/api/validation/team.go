package validation

import "strings"

// FormTeamRequest mirrors the fields needed for team formation validation.
// Size, existence, and assignment rules belong to the registry; this layer
// only rejects malformed input.
type FormTeamRequest struct {
	Captain string
	Members []string
}

// ValidateFormTeamRequest validates the fields of a form team request.
func ValidateFormTeamRequest(req FormTeamRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Captain) == "" {
		errs = append(errs, FieldError{Field: "captain", Message: "captain is required"})
	}

	for _, m := range req.Members {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, FieldError{Field: "members", Message: "members must not contain empty ids"})
			break
		}
	}

	return errs
}
