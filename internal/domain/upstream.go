package domain

// UpstreamErrorPolicyDenied is the error signal that makes authentication take the override branch.
const UpstreamErrorPolicyDenied = "policy_denied"

// UpstreamContext is the parsed form of an upstream authorization redirect.
type UpstreamContext struct {
	Error       string `json:"error,omitempty"`
	State       string `json:"state,omitempty"`
	RedirectURI string `json:"redirect_uri,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}
