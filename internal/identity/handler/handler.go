// Package handler wires the identity context's HTTP surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kitahub/internal/identity"
	"kitahub/pkg/domain"
	"kitahub/pkg/platform/httputil"
)

type Service interface {
	CreateStaff(ctx context.Context, attrs identity.StaffAttrs) (*identity.StaffMember, error)
	GetStaff(ctx context.Context, id domain.StaffID) (*identity.StaffMember, error)
	ListStaff(ctx context.Context, tenantID domain.TenantID) ([]*identity.StaffMember, error)
	UpdateStaff(ctx context.Context, id domain.StaffID, attrs identity.StaffAttrs) (*identity.StaffMember, error)
	DeactivateStaff(ctx context.Context, id domain.StaffID) (*identity.StaffMember, error)
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
	r.Route("/staff", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{staffID}", h.handleGet)
		r.Put("/{staffID}", h.handleUpdate)
		r.Post("/{staffID}/deactivate", h.handleDeactivate)
	})
}

type staffRequest struct {
	TenantID string `json:"tenant_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (r staffRequest) toAttrs() (identity.StaffAttrs, error) {
	tenantID, err := domain.ParseTenantID(r.TenantID)
	if err != nil {
		return identity.StaffAttrs{}, err
	}
	return identity.StaffAttrs{
		TenantID: tenantID,
		FullName: r.FullName,
		Email:    r.Email,
		Role:     identity.StaffRole(r.Role),
	}, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[staffRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attrs, err := req.toAttrs()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	staff, err := h.service.CreateStaff(r.Context(), attrs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, staff)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	tenantID, err := domain.ParseTenantID(r.URL.Query().Get("tenant_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	staff, err := h.service.ListStaff(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, staff)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	staffID, err := domain.ParseStaffID(chi.URLParam(r, "staffID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	staff, err := h.service.GetStaff(r.Context(), staffID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, staff)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	staffID, err := domain.ParseStaffID(chi.URLParam(r, "staffID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.DecodeJSON[staffRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attrs, err := req.toAttrs()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	staff, err := h.service.UpdateStaff(r.Context(), staffID, attrs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, staff)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	staffID, err := domain.ParseStaffID(chi.URLParam(r, "staffID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	staff, err := h.service.DeactivateStaff(r.Context(), staffID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, staff)
}
