// Package handler wires the family context's HTTP surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kitahub/internal/family"
	"kitahub/pkg/domain"
	dErrors "kitahub/pkg/domain-errors"
	"kitahub/pkg/platform/httputil"
)

// Service is the slice of the family service the handlers need.
type Service interface {
	RegisterChild(ctx context.Context, attrs family.ChildAttrs) (*family.Child, error)
	GetChild(ctx context.Context, id domain.ChildID) (*family.Child, error)
	ListChildren(ctx context.Context, tenantID domain.TenantID) ([]*family.Child, error)
	UpdateChild(ctx context.Context, id domain.ChildID, attrs family.ChildAttrs) (*family.Child, error)
	LinkGuardian(ctx context.Context, childID domain.ChildID, guardian family.Guardian) (*family.Child, error)
	AnonymizeChildData(ctx context.Context, childID domain.ChildID) error
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
	r.Route("/children", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.Get("/", h.handleList)
		r.Get("/{childID}", h.handleGet)
		r.Put("/{childID}", h.handleUpdate)
		r.Post("/{childID}/guardians", h.handleLinkGuardian)
		r.Post("/{childID}/anonymize", h.handleAnonymize)
	})
}

type childRequest struct {
	TenantID  string `json:"tenant_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
}

func (r childRequest) toAttrs() (family.ChildAttrs, error) {
	tenantID, err := domain.ParseTenantID(r.TenantID)
	if err != nil {
		return family.ChildAttrs{}, err
	}
	birthDate, err := time.Parse("2006-01-02", r.BirthDate)
	if err != nil {
		return family.ChildAttrs{}, dErrors.New(dErrors.CodeBadRequest, "birth_date must be YYYY-MM-DD")
	}
	return family.ChildAttrs{
		TenantID:  tenantID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: birthDate,
	}, nil
}

type guardianRequest struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[childRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attrs, err := req.toAttrs()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	child, err := h.service.RegisterChild(r.Context(), attrs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, child)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	tenantID, err := domain.ParseTenantID(r.URL.Query().Get("tenant_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	children, err := h.service.ListChildren(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, children)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	childID, err := domain.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	child, err := h.service.GetChild(r.Context(), childID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, child)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	childID, err := domain.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.DecodeJSON[childRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	attrs, err := req.toAttrs()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	child, err := h.service.UpdateChild(r.Context(), childID, attrs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, child)
}

func (h *Handler) handleLinkGuardian(w http.ResponseWriter, r *http.Request) {
	childID, err := domain.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.DecodeJSON[guardianRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	child, err := h.service.LinkGuardian(r.Context(), childID, family.Guardian{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Email:        req.Email,
		Relationship: req.Relationship,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, child)
}

func (h *Handler) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	childID, err := domain.ParseChildID(chi.URLParam(r, "childID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.AnonymizeChildData(r.Context(), childID); err != nil {
		h.logger.ErrorContext(r.Context(), "anonymization failed",
			"child_id", childID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
