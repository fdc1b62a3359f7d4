package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/bascore/appointment-app/services"
	"github.com/bascore/appointment-app/utils"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// List returns the authenticated user's unviewed notifications, newest
// first.
func (ct *NotificationController) List(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	list, err := ct.notifications.List(c.Context(), username)
	if err != nil {
		return fail(c, "Failed to list notifications", err)
	}
	return c.JSON(fiber.Map{"notifications": list})
}

func (ct *NotificationController) Get(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Invalid notification id", err))
	}

	notification, err := ct.notifications.Get(c.Context(), uint(id), username)
	if err != nil {
		return fail(c, "Notification not found", err)
	}
	return c.JSON(fiber.Map{"notification": notification})
}

func (ct *NotificationController) MarkViewed(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Invalid notification id", err))
	}

	notification, err := ct.notifications.MarkViewed(c.Context(), uint(id), username)
	if err != nil {
		return fail(c, "Notification not found", err)
	}
	return c.JSON(fiber.Map{"notification": notification})
}
