// Package emailcheck holds the stateless email rules shared by registration,
// authentication and request validation.
package emailcheck

import (
	"regexp"
	"strings"
)

var syntaxRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// validSuffixes are the top-level suffixes a registrable domain must end with.
var validSuffixes = []string{".com", ".co.id", ".ac.id", ".go.id", ".net", ".org", ".edu"}

// disposableMarkers flag a domain as throwaway when any appears in it.
var disposableMarkers = []string{"temp", "fake", "dummy", "trash"}

// Classification summarises every rule for one email.
type Classification struct {
	ValidSyntax bool
	Domain      string
	ValidSuffix bool
	Corporate   bool
}

// IsValidSyntax reports whether s looks like local@domain.tld with a 2+ letter TLD.
func IsValidSyntax(s string) bool {
	return syntaxRe.MatchString(s)
}

// Domain returns everything after the last '@', or "" when there is none.
func Domain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return ""
	}
	return email[i+1:]
}

// HasValidDomainSuffix reports whether domain ends in one of the accepted
// suffixes, ignoring case.
func HasValidDomainSuffix(domain string) bool {
	domain = strings.ToLower(domain)
	for _, suffix := range validSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return true
		}
	}
	return false
}

// LooksCorporate is false when the domain carries a disposable marker.
func LooksCorporate(email string) bool {
	domain := strings.ToLower(Domain(email))
	for _, marker := range disposableMarkers {
		if strings.Contains(domain, marker) {
			return false
		}
	}
	return true
}

// Classify applies every rule to email. Domain-level fields stay zero when the
// syntax check fails.
func Classify(email string) Classification {
	c := Classification{ValidSyntax: IsValidSyntax(email)}
	if !c.ValidSyntax {
		return c
	}
	c.Domain = Domain(email)
	c.ValidSuffix = HasValidDomainSuffix(c.Domain)
	c.Corporate = LooksCorporate(email)
	return c
}
