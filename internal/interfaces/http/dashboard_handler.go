package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/vendorflow/vendorflow-api/internal/application/session"
)

// DashboardHandler is the role-gated entry point. Each request builds a fresh
// RoleRouter (one evaluation per mount), resolves the cached session from the
// request cookies and either admits or issues the single redirect.
type DashboardHandler struct {
	resolver *session.Resolver
	dest     session.Destinations
	log      zerolog.Logger
}

// NewDashboardHandler builds the gate.
func NewDashboardHandler(resolver *session.Resolver, dest session.Destinations, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{resolver: resolver, dest: dest, log: log}
}

// Gate godoc
// @Summary      Role-gated dashboard entry
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      302  "redirect to role dashboard or login"
// @Router       /dashboard [get]
func (h *DashboardHandler) Gate(c *fiber.Ctx) error {
	var redirected string
	nav := session.NavigatorFunc(func(dest string) {
		redirected = dest
	})

	router := session.NewRoleRouter(h.resolver, h.dest, nav, h.log)
	state := router.Evaluate(NewCookieStore(c))

	switch state {
	case session.StateRedirecting:
		return c.Redirect(redirected, fiber.StatusFound)
	case session.StateAdmitted:
		s := router.Session()
		return c.JSON(fiber.Map{
			"dashboard": "default",
			"role":      s.Role,
			"tenant_id": s.TenantID,
		})
	default:
		// A cookie store is always ready, so the router cannot stay in
		// Initializing here; keep the failure closed regardless.
		return c.Redirect(h.loginDestination(), fiber.StatusFound)
	}
}

func (h *DashboardHandler) loginDestination() string {
	if h.dest.Login != "" {
		return h.dest.Login
	}
	return session.DefaultDestinations.Login
}

// VendorDashboard and SupplierDashboard are the role-specific landing
// endpoints the gate redirects to. They re-check the role from the token
// rather than trusting the redirect.
func VendorDashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"dashboard": "vendor", "tenant_id": GetTenantID(c)})
}

func SupplierDashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"dashboard": "supplier", "tenant_id": GetTenantID(c)})
}
