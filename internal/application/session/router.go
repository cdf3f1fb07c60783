package session

import (
	"github.com/rs/zerolog"

	"github.com/vendorflow/vendorflow-api/internal/domain/entity"
)

// RouterState is the role router's lifecycle state.
type RouterState int

const (
	// StateInitializing: no resolution attempted yet; the router waits for
	// the store to report ready.
	StateInitializing RouterState = iota
	// StateChecking: the resolver is being consulted (transient).
	StateChecking
	// StateRedirecting: terminal; exactly one navigation was issued.
	StateRedirecting
	// StateAdmitted: terminal; the caller stays on the current destination.
	StateAdmitted
)

func (s RouterState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateChecking:
		return "checking"
	case StateRedirecting:
		return "redirecting"
	case StateAdmitted:
		return "admitted"
	default:
		return "unknown"
	}
}

// Destinations maps outcomes to navigation targets.
type Destinations struct {
	Login             string // unauthenticated entry point, carries mode=login
	VendorDashboard   string
	SupplierDashboard string
}

// DefaultDestinations mirrors the deployed frontend routes.
var DefaultDestinations = Destinations{
	Login:             "/auth?mode=login",
	VendorDashboard:   "/dashboard/vendor",
	SupplierDashboard: "/dashboard/supplier",
}

// Navigator receives the single navigation command a terminal redirect emits.
type Navigator interface {
	Navigate(destination string)
}

// NavigatorFunc adapts a func to Navigator.
type NavigatorFunc func(destination string)

func (f NavigatorFunc) Navigate(destination string) { f(destination) }

// RoleRouter gates dashboard access: it resolves the session once and either
// admits the caller or issues exactly one redirect.
//
//	Initializing → Checking → {Redirecting, Admitted}
//
// Redirecting and Admitted are terminal for a given router instance; a fresh
// evaluation requires a fresh router. Resolver trouble of any kind fails
// closed to the login destination, never propagates, and never leaves the
// router stuck in Checking.
type RoleRouter struct {
	resolver *Resolver
	dest     Destinations
	nav      Navigator
	log      zerolog.Logger

	state   RouterState
	session *Session
}

// NewRoleRouter builds a router in Initializing state. Zero-value destination
// fields fall back to the defaults.
func NewRoleRouter(resolver *Resolver, dest Destinations, nav Navigator, log zerolog.Logger) *RoleRouter {
	if dest.Login == "" {
		dest.Login = DefaultDestinations.Login
	}
	if dest.VendorDashboard == "" {
		dest.VendorDashboard = DefaultDestinations.VendorDashboard
	}
	if dest.SupplierDashboard == "" {
		dest.SupplierDashboard = DefaultDestinations.SupplierDashboard
	}
	return &RoleRouter{
		resolver: resolver,
		dest:     dest,
		nav:      nav,
		log:      log,
		state:    StateInitializing,
	}
}

// State returns the current lifecycle state.
func (r *RoleRouter) State() RouterState {
	return r.state
}

// Session returns the resolved session once the router reached a terminal
// state, nil otherwise.
func (r *RoleRouter) Session() *Session {
	return r.session
}

// Evaluate runs one session-check cycle against the store. In a terminal
// state it is a no-op, so re-renders can call it freely without triggering a
// second navigation. A not-ready store keeps the router in Initializing; the
// check itself happens at most once.
func (r *RoleRouter) Evaluate(store Store) RouterState {
	if r.state == StateRedirecting || r.state == StateAdmitted {
		return r.state
	}

	res := r.safeResolve(store)
	if res.State == StateUndetermined {
		r.state = StateInitializing
		return r.state
	}

	r.state = StateChecking
	if res.State == StateAnonymous {
		return r.redirect(r.dest.Login)
	}

	r.session = res.Session
	switch res.Session.Role {
	case entity.RoleVendor:
		return r.redirect(r.dest.VendorDashboard)
	case entity.RoleSupplier:
		return r.redirect(r.dest.SupplierDashboard)
	case entity.RoleAdmin:
		r.state = StateAdmitted
	default:
		// Authenticated with a role outside the known set: admitted to the
		// default view rather than failing closed. Logged so the behavior is
		// visible in the field.
		r.log.Warn().
			Str("role", res.Session.Role).
			Str("user_id", res.Session.UserID).
			Msg("unrecognized role admitted to default dashboard")
		r.state = StateAdmitted
	}
	return r.state
}

// safeResolve shields the router from a panicking store or resolver; any
// failure counts as not authenticated (fail closed).
func (r *RoleRouter) safeResolve(store Store) (res Resolution) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("session resolution panicked, failing closed")
			res = Resolution{State: StateAnonymous}
		}
	}()
	return r.resolver.Resolve(store)
}

func (r *RoleRouter) redirect(destination string) RouterState {
	r.state = StateRedirecting
	if r.nav != nil {
		r.nav.Navigate(destination)
	}
	return r.state
}
