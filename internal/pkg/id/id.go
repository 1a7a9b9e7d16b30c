package id

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Prefixes keep the human-readable shape of appeal and session identifiers.
const (
	AppealPrefix  = "APP_"
	SessionPrefix = "sess_"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New generates a new ULID string. IDs from the same millisecond are strictly
// increasing, so two calls never return the same value within a process.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

func NewAppealID() string { return AppealPrefix + New() }

func NewSessionID() string { return SessionPrefix + New() }
