package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bascore/appointment-app/controllers"
	"github.com/bascore/appointment-app/middleware"
)

// SetupAuthRoutes wires registration, login and the admin user-management
// surface. User search and enable/disable are admin-only.
func SetupAuthRoutes(app *fiber.App, auth *controllers.AuthController, users *controllers.UserController, secret string) {
	group := app.Group("/auth")

	group.Post("/register", auth.Register)
	group.Post("/login", auth.Login)
	group.Post("/refresh", auth.RefreshToken)
	group.Get("/logout", middleware.Protected(secret), auth.Logout)
	group.Get("/user", middleware.Protected(secret), auth.Profile)

	admin := group.Group("/user", middleware.Protected(secret), middleware.RequireAdmin())
	admin.Get("/search", users.SearchUsers)
	admin.Put("/enable/:username", users.EnableUser)
	admin.Put("/disable/:username", users.DisableUser)
	admin.Get("/:username", users.GetUser)
}
