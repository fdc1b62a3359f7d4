package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bascore/appointment-app/controllers"
	"github.com/bascore/appointment-app/middleware"
)

func SetupNotificationRoutes(app *fiber.App, notifications *controllers.NotificationController, secret string) {
	group := app.Group("/notifications", middleware.Protected(secret))

	group.Get("/list", notifications.List)
	group.Put("/view/:id", notifications.MarkViewed)
	group.Get("/:id", notifications.Get)
}
