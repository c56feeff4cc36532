package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/api/http/handlers"
	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
	"github.com/carnage999-max/ultimate-app-manager/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Leases         *handlers.LeasesHandler
	Maintenance    *handlers.MaintenanceHandler
	Users          *handlers.UsersHandler
	Files          *handlers.FilesHandler
	Payments       *handlers.PaymentsHandler
	Account        *handlers.AccountHandler
	AuthMiddleware *auth.AuthMiddleware
	Authorizer     policy.Authorizer
	Limiter        ratelimit.Limiter
	AuthPerMinute  int
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	limit := func(scope string) fiber.Handler {
		return ratelimit.Middleware(cfg.Limiter, scope, cfg.AuthPerMinute, time.Minute, cfg.Logger)
	}
	protected := cfg.AuthMiddleware.Handle

	authGroup := app.Group("/auth")
	authGroup.Post("/register", limit("register"), cfg.Auth.Register)
	authGroup.Post("/login", limit("login"), cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/me", protected, cfg.Auth.Me)
	authGroup.Patch("/update", protected, cfg.Auth.Update)
	authGroup.Post("/change-password", protected, cfg.Auth.ChangePassword)

	// Role-only checks run before the body is parsed or the record is loaded.
	can := func(action policy.Action) fiber.Handler {
		return auth.RequireAction(cfg.Authorizer, action)
	}

	leases := app.Group("/leases", protected)
	leases.Get("/", cfg.Leases.List)
	leases.Post("/", can(policy.ActionLeaseCreate), cfg.Leases.Create)
	leases.Get("/:id", cfg.Leases.Get)
	leases.Patch("/:id", can(policy.ActionLeaseUpdate), cfg.Leases.Update)
	leases.Delete("/:id", can(policy.ActionLeaseDelete), cfg.Leases.Delete)
	leases.Get("/:id/download", cfg.Leases.Download)

	maintenance := app.Group("/maintenance", protected)
	maintenance.Get("/", cfg.Maintenance.List)
	maintenance.Post("/", can(policy.ActionTicketCreate), cfg.Maintenance.Create)
	maintenance.Get("/:id", cfg.Maintenance.Get)
	maintenance.Patch("/:id", cfg.Maintenance.Update)
	maintenance.Delete("/:id", cfg.Maintenance.Delete)

	app.Get("/users", protected, can(policy.ActionUserList), cfg.Users.List)

	app.Post("/files/upload-url", protected, cfg.Files.UploadURL)

	app.Post("/payments/webhook", cfg.Payments.Webhook)
	app.Post("/payments/create-intent", protected, cfg.Payments.CreateIntent)
	app.Get("/payments", protected, cfg.Payments.List)

	app.Post("/delete-account", limit("delete-account"), cfg.Account.RequestDeletion)
}
