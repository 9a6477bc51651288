package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/services"
	"gorm.io/gorm"
)

// writeServiceError maps service/storage errors onto the API error taxonomy:
// 404 for missing rows, 409 for state conflicts, 400 for rejected input,
// 500 otherwise.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		httpx.JSONError(w, http.StatusConflict, "invalid_state_transition", nil)
	case errors.Is(err, services.ErrQuoteNotApproved):
		httpx.JSONError(w, http.StatusConflict, "quote_not_approved", nil)
	case errors.Is(err, services.ErrEmailTaken):
		httpx.JSONError(w, http.StatusConflict, "email_already_registered", nil)
	case errors.Is(err, services.ErrNotPublicQuote):
		httpx.JSONError(w, http.StatusBadRequest, "not_a_public_quote", nil)
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidBasePrice),
		errors.Is(err, services.ErrProductInactive):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"reason": err.Error()})
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// pathID parses the {id} wildcard of a route pattern.
func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
