package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/exitflow/apiserver/internal/services"
	"github.com/exitflow/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ResignationHandler provides HTTP handlers for the resignation lifecycle.
type ResignationHandler struct {
	service *services.ResignationService
}

// NewResignationHandler constructs a handler with the provided service.
func NewResignationHandler(service *services.ResignationService) *ResignationHandler {
	return &ResignationHandler{service: service}
}

// ResignationRouter registers resignation routes on the given router.
// identity must resolve the bearer token to a user; role gates are
// applied per route.
func ResignationRouter(r chi.Router, service *services.ResignationService, identity func(http.Handler) http.Handler) {
	handler := NewResignationHandler(service)

	r.Use(identity)
	r.With(RequireRole(types.RoleEmployee)).Post("/", handler.Submit)
	r.Get("/", handler.List)
	r.Route("/{resignationID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(RequireRole(types.RoleHR)).Patch("/approve", handler.Approve)
		r.With(RequireRole(types.RoleHR)).Patch("/reject", handler.Reject)
	})
}

type SubmitResignationRequest struct {
	LastWorkingDay string `json:"lastWorkingDay"`
	Reason         string `json:"reason"`
}

type ApproveResignationRequest struct {
	ExitDate string `json:"exitDate"`
}

type RejectResignationRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

func (h *ResignationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SubmitResignationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.service.Submit(r.Context(), user, req.LastWorkingDay, req.Reason)
	if err != nil {
		writeServiceError(w, err, "resignation not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ResignationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	resignations, err := h.service.List(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list resignations")
		return
	}
	if resignations == nil {
		resignations = []types.Resignation{}
	}
	writeJSON(w, http.StatusOK, resignations)
}

func (h *ResignationHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	res, err := h.service.Get(r.Context(), user, chi.URLParam(r, "resignationID"))
	if err != nil {
		writeServiceError(w, err, "resignation not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ResignationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ApproveResignationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.service.Approve(r.Context(), user, chi.URLParam(r, "resignationID"), req.ExitDate)
	if err != nil {
		writeServiceError(w, err, "resignation not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ResignationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RejectResignationRequest
	if r.Body != nil {
		// Rejection reason is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	updated, err := h.service.Reject(r.Context(), user, chi.URLParam(r, "resignationID"), req.RejectionReason)
	if err != nil {
		writeServiceError(w, err, "resignation not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
