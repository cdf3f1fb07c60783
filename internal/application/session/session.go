// Package session derives the effective role and tenant from the client-held
// session projection and decides where a dashboard visit lands.
//
// The projection is a read-only copy of the user record cached on the client
// under one of several legacy storage keys; it is never authoritative. All
// downstream code consumes the typed Session produced here, never raw storage.
package session

import "strings"

// Session is the validated projection of a User record held by the client.
type Session struct {
	UserID      string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	TenantID    string `json:"tenantId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CompanyName string `json:"companyName"`
}

// NormalizeRole lower-cases a role string for comparison. Unknown roles pass
// through unmodified apart from casing; routing then treats them as having no
// matching destination.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// State classifies the outcome of a resolution attempt.
type State int

const (
	// StateUndetermined means storage was not ready yet (pre-hydration
	// environments); callers defer until determination completes.
	StateUndetermined State = iota
	// StateAnonymous means storage was readable but held no usable session.
	StateAnonymous
	// StateAuthenticated means a session projection was extracted.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUndetermined:
		return "undetermined"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Resolution is the result of probing storage: a state and, when
// authenticated, the session.
type Resolution struct {
	State   State
	Session *Session
}

// Store abstracts the client-held persistent storage the resolver probes.
// The HTTP adapter reads request cookies; tests use an in-memory map.
type Store interface {
	// Ready reports whether storage can be consulted at all. A not-ready
	// store resolves to StateUndetermined rather than StateAnonymous.
	Ready() bool
	// Get returns the raw payload under key and whether the key was present.
	Get(key string) (string, bool)
}
