package domain

// PolicyCheck is the read-only view of how the policy tables see an email.
type PolicyCheck struct {
	Email        string   `json:"email"`
	ValidSyntax  bool     `json:"valid_syntax"`
	Domain       string   `json:"domain,omitempty"`
	ValidSuffix  bool     `json:"valid_suffix"`
	Corporate    bool     `json:"corporate"`
	Whitelisted  bool     `json:"whitelisted"`
	Blocked      bool     `json:"blocked"`
	SupportURL   string   `json:"support_url,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}
