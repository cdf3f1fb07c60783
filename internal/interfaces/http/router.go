package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/vendorflow/vendorflow-api/internal/application/auth"
	"github.com/vendorflow/vendorflow-api/internal/application/session"
	"github.com/vendorflow/vendorflow-api/internal/application/usecase"
	"github.com/vendorflow/vendorflow-api/internal/domain/entity"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	Resolver    *session.Resolver
	Dest        session.Destinations
	SessionKey  string // primary client storage key, written at login
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.SessionKey)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	// Own account (Bearer token)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)
	authGroup.Put("/password", AuthMiddleware(deps.JWTSecret), authHandler.ChangePassword)

	// Dashboard gate: session projection from cookies, role decides the
	// destination. Public on purpose; the role landings re-check the token.
	dashboard := NewDashboardHandler(deps.Resolver, deps.Dest, deps.Log)
	app.Get("/dashboard", dashboard.Gate)
	app.Get("/dashboard/vendor",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleVendor, entity.RoleAdmin),
		VendorDashboard,
	)
	app.Get("/dashboard/supplier",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleSupplier, entity.RoleAdmin),
		SupplierDashboard,
	)

	// User administration (admin only, tenant-scoped)
	users := api.Group("/users", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
}
