package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/bascore/appointment-app/dto"
	"github.com/bascore/appointment-app/services"
	"github.com/bascore/appointment-app/utils"
)

type AuthController struct {
	users  *services.UserService
	secret string
}

func NewAuthController(users *services.UserService, secret string) *AuthController {
	return &AuthController{users: users, secret: secret}
}

// Register handles public user registration. The service rejects admin
// creation through this path.
func (ct *AuthController) Register(c *fiber.Ctx) error {
	var args dto.RegisterUser
	if err := c.BodyParser(&args); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Cannot parse JSON", err))
	}

	user, err := ct.users.Register(c.Context(), args)
	if err != nil {
		return fail(c, "Failed to register", err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles user authentication
func (ct *AuthController) Login(c *fiber.Ctx) error {
	var input dto.Login
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Cannot parse JSON", err))
	}

	user, err := ct.users.CheckCredentials(c.Context(), input.Username, input.Password)
	if err != nil {
		return fail(c, "Invalid credentials", err)
	}

	token, err := ct.signToken(user.Username, string(user.Role), 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.NewErrorResponse("Failed to generate token", err))
	}
	refreshToken, err := ct.signToken(user.Username, string(user.Role), 7*24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.NewErrorResponse("Failed to generate refresh token", err))
	}

	return c.JSON(fiber.Map{
		"token":        token,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// RefreshToken issues a fresh access token. The user is re-read so a role
// change or disable since login takes effect here.
func (ct *AuthController) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Cannot parse JSON", err))
	}

	username, err := parseIdentityToken(ct.secret, input.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.NewErrorResponse("Invalid refresh token", err))
	}

	user, err := ct.users.Get(c.Context(), username)
	if err != nil {
		return fail(c, "Failed to refresh token", err)
	}
	if !user.Enabled {
		return fail(c, "Failed to refresh token", services.ErrAccountDisabled)
	}

	newToken, err := ct.signToken(user.Username, string(user.Role), 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.NewErrorResponse("Failed to generate token", err))
	}
	return c.JSON(fiber.Map{"token": newToken})
}

// Logout doesn't invalidate the token as JWTs are stateless.
func (ct *AuthController) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}

// Profile returns the authenticated user's own record.
func (ct *AuthController) Profile(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	user, err := ct.users.Get(c.Context(), username)
	if err != nil {
		return fail(c, "No user data was found", err)
	}
	return c.JSON(user)
}

func (ct *AuthController) signToken(username, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ct.secret))
}

// parseIdentityToken verifies a token we issued and returns its username
// claim. The signing method is pinned to HMAC: a token claiming any other
// algorithm is rejected before signature verification.
func parseIdentityToken(secret, raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", errors.New("no identity in token")
	}
	return username, nil
}
