// Package handler wires the program catalog's HTTP surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kitahub/internal/programcatalog"
	"kitahub/pkg/domain"
	"kitahub/pkg/platform/httputil"
)

type Service interface {
	CreateProgram(ctx context.Context, attrs programcatalog.ProgramAttrs) (*programcatalog.Program, error)
	GetProgram(ctx context.Context, id domain.ProgramID) (*programcatalog.Program, error)
	ListPrograms(ctx context.Context, tenantID domain.TenantID) ([]*programcatalog.Program, error)
	UpdateProgram(ctx context.Context, id domain.ProgramID, attrs programcatalog.ProgramAttrs) (*programcatalog.Program, error)
	ArchiveProgram(ctx context.Context, id domain.ProgramID) (*programcatalog.Program, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/programs", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{programID}", h.handleGet)
		r.Put("/{programID}", h.handleUpdate)
		r.Post("/{programID}/archive", h.handleArchive)
	})
}

type programRequest struct {
	TenantID     string `json:"tenant_id"`
	Name         string `json:"name"`
	Capacity     int    `json:"capacity"`
	AgeMinMonths int    `json:"age_min_months"`
	AgeMaxMonths int    `json:"age_max_months"`
}

func (r programRequest) toAttrs() (programcatalog.ProgramAttrs, error) {
	tenantID, err := domain.ParseTenantID(r.TenantID)
	if err != nil {
		return programcatalog.ProgramAttrs{}, err
	}
	return programcatalog.ProgramAttrs{
		TenantID:     tenantID,
		Name:         r.Name,
		Capacity:     r.Capacity,
		AgeMinMonths: r.AgeMinMonths,
		AgeMaxMonths: r.AgeMaxMonths,
	}, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[programRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attrs, err := req.toAttrs()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	program, err := h.service.CreateProgram(r.Context(), attrs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, program)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	tenantID, err := domain.ParseTenantID(r.URL.Query().Get("tenant_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	programs, err := h.service.ListPrograms(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, programs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	programID, err := domain.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	program, err := h.service.GetProgram(r.Context(), programID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, program)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	programID, err := domain.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.DecodeJSON[programRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attrs, err := req.toAttrs()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	program, err := h.service.UpdateProgram(r.Context(), programID, attrs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, program)
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	programID, err := domain.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	program, err := h.service.ArchiveProgram(r.Context(), programID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "program archive failed",
			"program_id", programID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, program)
}
