package entity

import "time"

// Tenant is an isolated customer organization. Every resource and user hangs
// off exactly one tenant id.
type Tenant struct {
	ID        string
	Name      string
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}
