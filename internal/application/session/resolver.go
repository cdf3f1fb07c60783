package session

import "encoding/json"

// Default storage keys probed by the resolver, highest priority first. The
// second and third are legacy names still written by older deployed clients.
var DefaultStorageKeys = []string{"user", "userData", "mockUserData"}

// Resolver extracts a normalized Session from client-held storage.
//
// Keys are probed in the configured order; the first key present with
// parseable content wins and later keys are never merged in. A payload that
// fails to parse counts as absent — malformed storage resolves to anonymous,
// it never raises.
type Resolver struct {
	keys []string
}

// NewResolver builds a resolver with the given probe order. An empty list
// falls back to DefaultStorageKeys.
func NewResolver(keys []string) *Resolver {
	if len(keys) == 0 {
		keys = DefaultStorageKeys
	}
	return &Resolver{keys: keys}
}

// Resolve probes the store and classifies the outcome. It is safe to call
// when storage is unavailable: that case yields StateUndetermined, distinct
// from a determined absence.
func (r *Resolver) Resolve(store Store) Resolution {
	if store == nil || !store.Ready() {
		return Resolution{State: StateUndetermined}
	}
	for _, key := range r.keys {
		raw, ok := store.Get(key)
		if !ok {
			continue
		}
		var s Session
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			// Unreadable payload under this key: treat as absent.
			continue
		}
		if s.Role == "" && s.UserID == "" && s.Email == "" {
			// Parseable but empty object carries no identity.
			continue
		}
		s.Role = NormalizeRole(s.Role)
		return Resolution{State: StateAuthenticated, Session: &s}
	}
	return Resolution{State: StateAnonymous}
}
