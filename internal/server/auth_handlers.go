package server

import (
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Email        string              `json:"email"`
	Username     string              `json:"username"`
	Password     string              `json:"password"`
	Name         string              `json:"name"`
	Location     *string             `json:"location"`
	Bio          *string             `json:"bio"`
	Availability models.Availability `json:"availability"`
	Visibility   models.Visibility   `json:"visibility"`
}

// Register handles POST /api/auth/register
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Email:        req.Email,
		Username:     req.Username,
		Password:     req.Password,
		Name:         req.Name,
		Location:     req.Location,
		Bio:          req.Bio,
		Availability: req.Availability,
		Visibility:   req.Visibility,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/auth/login
// Accepts a JSON body {email, password} or an OAuth2 password form where the
// username field carries the email.
// @Summary Log in and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} service.TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var email, password string

	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if strings.HasPrefix(contentType, fiber.MIMEApplicationForm) || strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		email = c.FormValue("username")
		password = c.FormValue("password")
	} else {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := parseBody(c, &req); err != nil {
			return nil
		}
		email, password = req.Email, req.Password
	}

	if strings.TrimSpace(email) == "" || password == "" {
		return badRequest(c, "Email and password are required")
	}

	token, err := s.authService.Login(c.UserContext(), email, password)
	if err != nil {
		if statusFor(err) == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return s.respondError(c, err)
	}
	return c.JSON(token)
}
