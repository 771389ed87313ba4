// Package handler wires the enrollment context's HTTP surface: enrollments,
// participant policies and consent records.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kitahub/internal/enrollment"
	"kitahub/pkg/domain"
	"kitahub/pkg/platform/httputil"
)

type Service interface {
	EnrollChild(ctx context.Context, attrs enrollment.EnrollAttrs) (*enrollment.Enrollment, error)
	GetEnrollment(ctx context.Context, id domain.EnrollmentID) (*enrollment.Enrollment, error)
	ListEnrollmentsForChild(ctx context.Context, childID domain.ChildID) ([]*enrollment.Enrollment, error)
	WithdrawEnrollment(ctx context.Context, id domain.EnrollmentID) (*enrollment.Enrollment, error)
	SetParticipantPolicy(ctx context.Context, programID domain.ProgramID, attrs enrollment.PolicyAttrs) (*enrollment.ParticipantPolicy, error)
	GetParticipantPolicy(ctx context.Context, programID domain.ProgramID) (*enrollment.ParticipantPolicy, error)
	GrantConsent(ctx context.Context, attrs enrollment.ConsentAttrs) (*enrollment.ConsentRecord, error)
	WithdrawConsent(ctx context.Context, id domain.ConsentID) (*enrollment.ConsentRecord, error)
	GetActiveForChild(ctx context.Context, childID domain.ChildID, purpose enrollment.ConsentPurpose) (*enrollment.ConsentRecord, error)
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
	r.Route("/enrollments", func(r chi.Router) {
		r.Post("/", h.handleEnroll)
		r.Get("/", h.handleListForChild)
		r.Get("/{enrollmentID}", h.handleGet)
		r.Post("/{enrollmentID}/withdraw", h.handleWithdraw)
	})
	r.Route("/programs/{programID}/policy", func(r chi.Router) {
		r.Put("/", h.handleSetPolicy)
		r.Get("/", h.handleGetPolicy)
	})
	r.Route("/consents", func(r chi.Router) {
		r.Post("/", h.handleGrantConsent)
		r.Get("/active", h.handleGetActiveConsent)
		r.Post("/{consentID}/withdraw", h.handleWithdrawConsent)
	})
}

type enrollRequest struct {
	TenantID  string `json:"tenant_id"`
	ChildID   string `json:"child_id"`
	ProgramID string `json:"program_id"`
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[enrollRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tenantID, err := domain.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	childID, err := domain.ParseChildID(req.ChildID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	programID, err := domain.ParseProgramID(req.ProgramID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	enr, err := h.service.EnrollChild(r.Context(), enrollment.EnrollAttrs{
		TenantID:  tenantID,
		ChildID:   childID,
		ProgramID: programID,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, enr)
}

func (h *Handler) handleListForChild(w http.ResponseWriter, r *http.Request) {
	childID, err := domain.ParseChildID(r.URL.Query().Get("child_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	enrollments, err := h.service.ListEnrollmentsForChild(r.Context(), childID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, enrollments)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	enrollmentID, err := domain.ParseEnrollmentID(chi.URLParam(r, "enrollmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	enr, err := h.service.GetEnrollment(r.Context(), enrollmentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, enr)
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	enrollmentID, err := domain.ParseEnrollmentID(chi.URLParam(r, "enrollmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	enr, err := h.service.WithdrawEnrollment(r.Context(), enrollmentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, enr)
}

type policyRequest struct {
	TenantID         string   `json:"tenant_id"`
	MaxAbsences      int      `json:"max_absences"`
	RequiredConsents []string `json:"required_consents"`
}

func (h *Handler) handleSetPolicy(w http.ResponseWriter, r *http.Request) {
	programID, err := domain.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := httputil.DecodeJSON[policyRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tenantID, err := domain.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	consents := make([]enrollment.ConsentPurpose, 0, len(req.RequiredConsents))
	for _, c := range req.RequiredConsents {
		consents = append(consents, enrollment.ConsentPurpose(c))
	}
	policy, err := h.service.SetParticipantPolicy(r.Context(), programID, enrollment.PolicyAttrs{
		TenantID:         tenantID,
		MaxAbsences:      req.MaxAbsences,
		RequiredConsents: consents,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, policy)
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	programID, err := domain.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	policy, err := h.service.GetParticipantPolicy(r.Context(), programID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, policy)
}

type consentRequest struct {
	TenantID string `json:"tenant_id"`
	ChildID  string `json:"child_id"`
	Purpose  string `json:"purpose"`
}

func (h *Handler) handleGrantConsent(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.DecodeJSON[consentRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	tenantID, err := domain.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	childID, err := domain.ParseChildID(req.ChildID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	consent, err := h.service.GrantConsent(r.Context(), enrollment.ConsentAttrs{
		TenantID: tenantID,
		ChildID:  childID,
		Purpose:  enrollment.ConsentPurpose(req.Purpose),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, consent)
}

func (h *Handler) handleGetActiveConsent(w http.ResponseWriter, r *http.Request) {
	childID, err := domain.ParseChildID(r.URL.Query().Get("child_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	consent, err := h.service.GetActiveForChild(r.Context(), childID,
		enrollment.ConsentPurpose(r.URL.Query().Get("purpose")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, consent)
}

func (h *Handler) handleWithdrawConsent(w http.ResponseWriter, r *http.Request) {
	consentID, err := domain.ParseConsentID(chi.URLParam(r, "consentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	consent, err := h.service.WithdrawConsent(r.Context(), consentID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "consent withdrawal failed",
			"consent_id", consentID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, consent)
}
