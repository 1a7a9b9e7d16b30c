package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy holds the static policy tables. They are read once at startup and
// never mutated afterwards.
type Policy struct {
	BlockedDomains     []string `yaml:"blocked_domains"`
	BlockedEmails      []string `yaml:"blocked_emails"`
	WhitelistedDomains []string `yaml:"whitelisted_domains"`
	AllowedAuthDomains []string `yaml:"allowed_auth_domains"`
}

// DefaultPolicy returns the built-in tables used when no policy file is configured.
func DefaultPolicy() Policy {
	return Policy{
		BlockedDomains: []string{"tempmail.com", "disposable.com", "throwaway.com"},
		BlockedEmails:  []string{"blocked@example.com", "spam@example.com"},
		WhitelistedDomains: []string{
			"gmail.com", "yahoo.com", "outlook.com", "hotmail.com", "company.com",
		},
		AllowedAuthDomains: []string{
			"gmail.com", "yahoo.com", "outlook.com", "hotmail.com", "company.com",
			"ac.id", "co.id", "go.id",
		},
	}
}

// LoadPolicy reads policy tables from a YAML file. Sections missing from the
// file keep their defaults. An empty path returns DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	var file Policy
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	if file.BlockedDomains != nil {
		p.BlockedDomains = file.BlockedDomains
	}
	if file.BlockedEmails != nil {
		p.BlockedEmails = file.BlockedEmails
	}
	if file.WhitelistedDomains != nil {
		p.WhitelistedDomains = file.WhitelistedDomains
	}
	if file.AllowedAuthDomains != nil {
		p.AllowedAuthDomains = file.AllowedAuthDomains
	}
	p.normalize()
	return p, nil
}

func (p *Policy) normalize() {
	for _, list := range [][]string{p.BlockedDomains, p.BlockedEmails, p.WhitelistedDomains, p.AllowedAuthDomains} {
		for i, v := range list {
			list[i] = strings.ToLower(strings.TrimSpace(v))
		}
	}
}
