package portal

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the portal API. Signup and login are public,
// everything else sits behind the JWT middleware. Notification writes
// additionally require the admin role.
func RegisterRoutes(app *fiber.App, cfg Config, repo RepositoryManager, auther Authenticator, validator TokenValidator, logger Logger) {
	if logger == nil {
		logger = defLogger{}
	}

	authController := NewAuthController(
		WithControllerLogger(logger),
		WithControllerRepo(repo),
		WithControllerAuthenticator(auther),
		WithControllerBcryptCost(cfg.GetBcryptCost()),
	)

	recordsController := NewRecordsController(repo, cfg.GetContextKey()).WithLogger(logger)
	notificationsController := NewNotificationsController(repo).WithLogger(logger)

	protected := ProtectedRoute(cfg, validator)
	adminOnly := RequireRole(cfg.GetContextKey(), RoleAdmin)

	user := app.Group("/api/user")
	user.Post("/signup", authController.Signup)
	user.Post("/login", authController.Login)

	data := app.Group("/api/data", protected)
	data.Get("/", recordsController.List)
	data.Post("/", recordsController.Create)
	data.Delete("/:id", recordsController.Delete)

	notifications := app.Group("/api/notifications", protected)
	notifications.Get("/", notificationsController.List)
	notifications.Post("/", adminOnly, notificationsController.Create)
	notifications.Delete("/:id", adminOnly, notificationsController.Delete)
}
