package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bascore/appointment-app/dto"
	"github.com/bascore/appointment-app/services"
	"github.com/bascore/appointment-app/utils"
)

type UserController struct {
	users  *services.UserService
	search *services.SearchService
}

func NewUserController(users *services.UserService, search *services.SearchService) *UserController {
	return &UserController{users: users, search: search}
}

// SearchUsers lists accounts for administrators.
func (ct *UserController) SearchUsers(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	var req dto.SearchUsers
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Failed to parse query parameters", err))
	}

	results, err := ct.search.SearchUsers(c.Context(), req, username)
	if err != nil {
		return fail(c, "Failed to search users", err)
	}
	return c.JSON(results)
}

func (ct *UserController) GetUser(c *fiber.Ctx) error {
	user, err := ct.users.Get(c.Context(), c.Params("username"))
	if err != nil {
		return fail(c, "No user data was found", err)
	}
	return c.JSON(user)
}

func (ct *UserController) EnableUser(c *fiber.Ctx) error {
	user, err := ct.users.Enable(c.Context(), c.Params("username"))
	if err != nil {
		return fail(c, "Failed to enable user", err)
	}
	return c.JSON(user)
}

// DisableUser flips the enabled flag; the cancellation sweep of the user's
// appointments runs afterwards in the worker.
func (ct *UserController) DisableUser(c *fiber.Ctx) error {
	user, err := ct.users.Disable(c.Context(), c.Params("username"))
	if err != nil {
		return fail(c, "Failed to disable user", err)
	}
	return c.JSON(user)
}

// CreateQualification appends a qualification to the authenticated
// provider's record.
func (ct *UserController) CreateQualification(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	var args dto.CreateQualification
	if err := c.BodyParser(&args); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Failed to parse request body", err))
	}

	user, err := ct.users.CreateQualification(c.Context(), username, args.Description)
	if err != nil {
		return fail(c, "Failed to create qualification", err)
	}
	return c.JSON(fiber.Map{"user": user})
}
