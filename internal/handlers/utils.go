package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/exitflow/apiserver/internal/services"
	"github.com/exitflow/apiserver/internal/store"
	"github.com/exitflow/apiserver/types"
)

type contextKey string

const contextUserKey contextKey = "user"

func userFromContext(ctx context.Context) (types.User, error) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	if !ok || user.ID == "" {
		return types.User{}, errors.New("missing identity")
	}
	return user, nil
}

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service-layer failures onto the HTTP error
// taxonomy. notFoundMsg names the resource for ErrNotFound; everything
// unexpected becomes an opaque 500.
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrPendingResignation),
		errors.Is(err, services.ErrAlreadyReviewed),
		errors.Is(err, services.ErrInterviewExists),
		errors.Is(err, services.ErrInterviewNotApproved):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
