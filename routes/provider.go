package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bascore/appointment-app/controllers"
	"github.com/bascore/appointment-app/middleware"
)

func SetupProviderRoutes(app *fiber.App, users *controllers.UserController, secret string) {
	group := app.Group("/provider", middleware.Protected(secret))

	group.Post("/qualification", users.CreateQualification)
}
