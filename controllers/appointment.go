package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/bascore/appointment-app/dto"
	"github.com/bascore/appointment-app/services"
	"github.com/bascore/appointment-app/utils"
)

type AppointmentController struct {
	appointments *services.AppointmentService
	search       *services.SearchService
}

func NewAppointmentController(appointments *services.AppointmentService, search *services.SearchService) *AppointmentController {
	return &AppointmentController{appointments: appointments, search: search}
}

// Create publishes a new slot. The provider is the authenticated identity;
// a provider id in the body is ignored.
func (ct *AppointmentController) Create(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	var args dto.CreateAppointment
	if err := c.BodyParser(&args); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Failed to parse request body", err))
	}

	appointment, err := ct.appointments.Create(c.Context(), username, args)
	if err != nil {
		return fail(c, "Failed to create appointment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

func (ct *AppointmentController) Book(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	var args dto.BookAppointment
	if err := c.BodyParser(&args); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Failed to parse request body", err))
	}

	appointment, err := ct.appointments.Book(c.Context(), args.ID, username)
	if err != nil {
		return fail(c, "Failed to book appointment", err)
	}
	return c.JSON(appointment)
}

func (ct *AppointmentController) Cancel(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	var args dto.CancelAppointment
	if err := c.BodyParser(&args); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Failed to parse request body", err))
	}

	appointment, err := ct.appointments.Cancel(c.Context(), args.ID, username)
	if err != nil {
		return fail(c, "Failed to cancel appointment", err)
	}
	return c.JSON(appointment)
}

// Search lists appointments within the requester's visibility scope.
func (ct *AppointmentController) Search(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	var req dto.SearchAppointments
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Failed to parse query parameters", err))
	}

	results, err := ct.search.SearchAppointments(c.Context(), req, username)
	if err != nil {
		return fail(c, "Failed to search appointments", err)
	}
	return c.JSON(results)
}

func (ct *AppointmentController) Get(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Invalid appointment id", err))
	}

	appointment, err := ct.search.GetAppointment(c.Context(), uint(id), username)
	if err != nil {
		return fail(c, "Appointment not found", err)
	}
	return c.JSON(fiber.Map{"appointment": appointment})
}
