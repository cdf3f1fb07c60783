// Package password wraps bcrypt hashing for credential records.
//
// bcrypt only considers the first 72 bytes of its input. Hash truncates longer
// plaintexts to that limit before hashing so that hashing never fails for
// well-formed UTF-8 input; the tail beyond 72 bytes is silently ignored, which
// matches what verification against the resulting hash will do.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt's effective input limit, in bytes.
const maxInputBytes = 72

// Re-exported bcrypt costs so callers and tests need not import bcrypt.
const (
	DefaultCost = bcrypt.DefaultCost
	MinTestCost = bcrypt.MinCost // cheapest valid factor, for tests
)

// Hasher hashes and verifies passwords with a fixed work factor.
type Hasher struct {
	cost int
}

// New builds a Hasher with the given bcrypt cost. Costs below the bcrypt
// minimum are raised to the library default.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns the salted bcrypt hash of plaintext (truncated to 72 bytes).
func (h *Hasher) Hash(plaintext string) (string, error) {
	in := []byte(plaintext)
	if len(in) > maxInputBytes {
		in = in[:maxInputBytes]
	}
	out, err := bcrypt.GenerateFromPassword(in, h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(out), nil
}

// Verify reports whether plaintext matches hash. A mismatch or a malformed
// hash yields false, never an error.
func (h *Hasher) Verify(plaintext, hash string) bool {
	in := []byte(plaintext)
	if len(in) > maxInputBytes {
		in = in[:maxInputBytes]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), in) == nil
}
