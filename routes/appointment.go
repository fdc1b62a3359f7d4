package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bascore/appointment-app/controllers"
	"github.com/bascore/appointment-app/middleware"
)

func SetupAppointmentRoutes(app *fiber.App, appointments *controllers.AppointmentController, secret string) {
	group := app.Group("/appointments", middleware.Protected(secret))

	group.Post("/", appointments.Create)
	group.Get("/search", appointments.Search)
	group.Post("/book", appointments.Book)
	group.Post("/cancel", appointments.Cancel)
	group.Get("/:id", appointments.Get)
}
