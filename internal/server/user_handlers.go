package server

import (
	"io"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	Email        *string              `json:"email"`
	Username     *string              `json:"username"`
	Name         *string              `json:"name"`
	Location     *string              `json:"location"`
	Bio          *string              `json:"bio"`
	Availability *models.Availability `json:"availability"`
	Visibility   *models.Visibility   `json:"visibility"`
	Password     *string              `json:"password"`
}

// GetMyProfile handles GET /api/users/me
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), currentActor(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), currentActor(c), service.UpdateProfileInput{
		Email:        req.Email,
		Username:     req.Username,
		Name:         req.Name,
		Location:     req.Location,
		Bio:          req.Bio,
		Availability: req.Availability,
		Visibility:   req.Visibility,
		Password:     req.Password,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// UploadProfilePhoto handles POST /api/users/me/profile-photo
// @Summary Upload a profile photo
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 415 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me/profile-photo [post]
func (s *Server) UploadProfilePhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	limit := s.config.MaxUploadBytes()
	if fileHeader.Size > limit {
		return s.respondError(c, models.NewPayloadTooLargeError(limit))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Unable to read uploaded file")
	}
	defer func() { _ = file.Close() }()

	// One byte past the limit lets the service reject parts whose declared
	// size understates the payload.
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return badRequest(c, "Unable to read uploaded file")
	}

	user, err := s.userService.UploadPhoto(c.UserContext(), currentActor(c), fileHeader.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a public profile
// @Tags users
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.UserPublic
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), currentActor(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// SearchUsers handles GET /api/users?query=
// @Summary Search public profiles
// @Tags users
// @Produce json
// @Success 200 {array} models.UserPublic
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	page := parsePagination(c)
	users, err := s.userService.Search(c.UserContext(), c.Query("query"), page.Limit, page.Offset)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(users)
}
