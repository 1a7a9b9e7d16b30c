// Package upstream turns the redirect URL handed back by an identity front
// door into a domain.UpstreamContext the auth policy can consume.
package upstream

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/email-access-policy/internal/domain"
)

// Query parameter names carried by the upstream redirect.
const (
	paramError       = "error"
	paramState       = "state"
	paramRedirectURI = "redirect_uri"
	paramSessionID   = "authorization_session_id"
)

// Parse extracts the upstream signal from rawURL. An empty rawURL means no
// upstream context and returns nil, nil. Values are URL-decoded once.
func Parse(rawURL string) (*domain.UpstreamContext, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %v: %w", err, domain.ErrBadRequest)
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("parse upstream query: %v: %w", err, domain.ErrBadRequest)
	}
	return &domain.UpstreamContext{
		Error:       q.Get(paramError),
		State:       q.Get(paramState),
		RedirectURI: q.Get(paramRedirectURI),
		SessionID:   q.Get(paramSessionID),
	}, nil
}
