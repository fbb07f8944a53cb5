package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/exitflow/apiserver/internal/services"
	"github.com/exitflow/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ExitInterviewHandler provides HTTP handlers for exit interviews.
type ExitInterviewHandler struct {
	service *services.ExitInterviewService
}

// NewExitInterviewHandler constructs a handler with the provided service.
func NewExitInterviewHandler(service *services.ExitInterviewService) *ExitInterviewHandler {
	return &ExitInterviewHandler{service: service}
}

// ExitInterviewRouter registers exit interview routes on the given router.
func ExitInterviewRouter(r chi.Router, service *services.ExitInterviewService, identity func(http.Handler) http.Handler) {
	handler := NewExitInterviewHandler(service)

	r.Use(identity)
	r.With(RequireRole(types.RoleEmployee)).Post("/", handler.Submit)
	r.Get("/", handler.List)
	r.Get("/resignation/{resignationID}", handler.GetByResignation)
	r.Route("/{interviewID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(RequireRole(types.RoleHR)).Patch("/review", handler.Review)
	})
}

type SubmitExitInterviewRequest struct {
	ResignationID string            `json:"resignationId"`
	Answers       map[string]string `json:"answers"`
}

func (h *ExitInterviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SubmitExitInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.service.Submit(r.Context(), user, req.ResignationID, req.Answers)
	if err != nil {
		writeServiceError(w, err, "resignation not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ExitInterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	interviews, err := h.service.List(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list exit interviews")
		return
	}
	if interviews == nil {
		interviews = []types.ExitInterview{}
	}
	writeJSON(w, http.StatusOK, interviews)
}

func (h *ExitInterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	interview, err := h.service.Get(r.Context(), user, chi.URLParam(r, "interviewID"))
	if err != nil {
		writeServiceError(w, err, "exit interview not found")
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

func (h *ExitInterviewHandler) GetByResignation(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	interview, err := h.service.GetByResignation(r.Context(), user, chi.URLParam(r, "resignationID"))
	if err != nil {
		writeServiceError(w, err, "exit interview not found")
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

func (h *ExitInterviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	updated, err := h.service.Review(r.Context(), user, chi.URLParam(r, "interviewID"))
	if err != nil {
		writeServiceError(w, err, "exit interview not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
