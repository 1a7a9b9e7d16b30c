package handler

import (
	"log/slog"
	"net/http"

	"github.com/email-access-policy/internal/application/auth"
	"github.com/email-access-policy/internal/domain"
	"github.com/email-access-policy/internal/pkg/upstream"
	"github.com/go-chi/chi/v5"
)

// SessionHandler serves authentication decisions and session lookups.
type SessionHandler struct {
	svc auth.Service
}

func NewSessionHandler(svc auth.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Authenticate returns the AuthResult with 200 whatever the decision; the
// result body carries success or the error kind.
func (h *SessionHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthenticateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	uc, err := upstream.Parse(req.UpstreamURL)
	if err != nil {
		slog.Warn("rejecting malformed upstream url", "err", err)
		writeJSON(w, http.StatusOK, domain.AuthFailure(domain.AuthInvalidSession, "Invalid upstream redirect URL"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Authenticate(r.Context(), req.Email, uc))
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListSessions(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionsEnvelope{Data: sessions, Total: len(sessions)})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
