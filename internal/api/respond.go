package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/dealflow/internal/listing"
	"github.com/yourusername/dealflow/internal/models"
	"github.com/yourusername/dealflow/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps service errors onto HTTP statuses. A busy
// list controller is a conflict the client simply retries after the
// in-flight request lands; unknown errors stay opaque 500s.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBusy):
		respondError(w, http.StatusConflict, "a request is already in flight")
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, listing.ErrPageOutOfRange),
		errors.Is(err, models.ErrCompanyNameRequired),
		errors.Is(err, models.ErrInvalidID),
		errors.Is(err, models.ErrUnknownSortColumn):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
