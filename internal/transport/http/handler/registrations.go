package handler

import (
	"net/http"

	"github.com/email-access-policy/internal/application/registration"
	"github.com/email-access-policy/internal/domain"
	"github.com/email-access-policy/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// Alternatives suggested to callers whose address the policy rejects.
var defaultAlternatives = []string{
	"Try a different email address for registration",
	"Check whether your network or VPN is causing the block",
	"Try a different sign-in method such as Google or GitHub",
	"Contact your organization's admin if you are using a work email",
	"Clear browser cookies and cache before trying again",
}

// RegistrationHandler serves registration, appeal and policy lookup endpoints.
type RegistrationHandler struct {
	svc        registration.Service
	supportURL string
}

func NewRegistrationHandler(svc registration.Service, supportURL string) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, supportURL: supportURL}
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Email is not validated here; a malformed address is an invalid_email result.
	autoWhitelist := true
	if req.AutoWhitelist != nil {
		autoWhitelist = *req.AutoWhitelist
	}

	res := h.svc.Register(r.Context(), req.Email, autoWhitelist)
	switch {
	case res.Success:
		writeJSON(w, http.StatusCreated, res)
	case res.Error == nil:
		writeJSON(w, http.StatusInternalServerError, res)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *RegistrationHandler) Check(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter required")
		return
	}
	check := h.svc.Check(r.Context(), email)
	if !check.ValidSyntax || check.Blocked {
		check.SupportURL = h.supportURL
		check.Alternatives = defaultAlternatives
	}
	writeJSON(w, http.StatusOK, check)
}

func (h *RegistrationHandler) SubmitAppeal(w http.ResponseWriter, r *http.Request) {
	var req domain.AppealInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	appeal, err := h.svc.SubmitAppeal(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appeal)
}

func (h *RegistrationHandler) ListAppeals(w http.ResponseWriter, r *http.Request) {
	appeals, err := h.svc.ListAppeals(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AppealsEnvelope{Data: appeals, Total: len(appeals)})
}

func (h *RegistrationHandler) GetAppeal(w http.ResponseWriter, r *http.Request) {
	appeal, err := h.svc.GetAppeal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appeal)
}

func (h *RegistrationHandler) Whitelist(w http.ResponseWriter, r *http.Request) {
	var req domain.WhitelistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Whitelist(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email whitelisted"})
}
