// Package identity normalizes user identifiers so comparisons behave the same
// at every boundary (store, login, provisioning).
package identity

import (
	"strings"

	"golang.org/x/text/secure/precis"
)

// NormalizeEmail lower-cases and case-folds an email address using the PRECIS
// UsernameCaseMapped profile, so lookups are case-insensitive and Unicode-safe.
// Input the profile rejects falls back to a plain lower-casing rather than
// failing; the store's unique index is on the normalized form.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if norm, err := precis.UsernameCaseMapped.String(email); err == nil {
		return norm
	}
	return strings.ToLower(email)
}
