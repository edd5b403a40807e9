package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/response"
	"github.com/ndewijer/Broker-Statement-Importer/internal/apperrors"
)

// parseJSON decodes the request body into T, rejecting unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	return req, nil
}

// StatementErrorResponse is returned with 422 when a statement cannot be
// imported. Message is meant to be shown to the user as is.
type StatementErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

// respondImportError maps errors of the import pipeline to a status code.
// fallback is the message used for 500 responses.
func respondImportError(w http.ResponseWriter, err error, fallback error) {
	var configErr *apperrors.ConfigurationError

	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrImportNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrImportNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrStaleSelection):
		response.RespondError(w, http.StatusConflict, apperrors.ErrStaleSelection.Error(), "")
	case errors.Is(err, apperrors.ErrNothingToCommit):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrNothingToCommit.Error(), "")
	case errors.As(err, &configErr):
		response.RespondJSON(w, http.StatusUnprocessableEntity, StatementErrorResponse{
			Error:   "missing symbol mappings",
			Message: configErr.Error(),
			Missing: configErr.Missing,
		})
	case apperrors.IsUserFacing(err):
		response.RespondJSON(w, http.StatusUnprocessableEntity, StatementErrorResponse{
			Error:   "statement cannot be imported",
			Message: err.Error(),
		})
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
