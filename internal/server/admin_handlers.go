package server

import (
	"context"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers handles GET /api/admin/users
// @Summary List all users
// @Tags admin
// @Produce json
// @Success 200 {object} service.UserPage
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	page := parsePagination(c)
	result, err := s.adminService.ListUsers(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(result)
}

// AdminBanUser handles PUT /api/admin/users/:id/ban
// @Summary Ban a user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/ban [put]
func (s *Server) AdminBanUser(c *fiber.Ctx) error {
	return s.adminUserAction(c, s.adminService.Ban, "User banned")
}

// AdminUnbanUser handles PUT /api/admin/users/:id/unban
func (s *Server) AdminUnbanUser(c *fiber.Ctx) error {
	return s.adminUserAction(c, s.adminService.Unban, "User unbanned")
}

// AdminPromoteUser handles PUT /api/admin/users/:id/make-admin
func (s *Server) AdminPromoteUser(c *fiber.Ctx) error {
	return s.adminUserAction(c, s.adminService.Promote, "User promoted to admin")
}

type userAction func(ctx context.Context, id uint) (*models.User, error)

func (s *Server) adminUserAction(c *fiber.Ctx, action userAction, message string) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := action(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": message,
		"user":    user,
	})
}

// AdminPendingSkills handles GET /api/admin/skills/pending
func (s *Server) AdminPendingSkills(c *fiber.Ctx) error {
	skills, err := s.adminService.PendingSkills(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skills)
}

// AdminApproveSkill handles PUT /api/admin/skills/:id/approve
func (s *Server) AdminApproveSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	skill, err := s.adminService.ApproveSkill(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skill)
}

// AdminRejectSkill handles PUT /api/admin/skills/:id/reject
func (s *Server) AdminRejectSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	skill, err := s.adminService.RejectSkill(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skill)
}

// AdminListSwaps handles GET /api/admin/swaps?status=
// @Summary List all swaps
// @Tags admin
// @Produce json
// @Success 200 {array} models.SwapWithDetails
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/swaps [get]
func (s *Server) AdminListSwaps(c *fiber.Ctx) error {
	page := parsePagination(c)
	swaps, err := s.adminService.ListSwaps(c.UserContext(), models.SwapStatus(c.Query("status")), page.Limit, page.Offset)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.SwapDetails(swaps))
}

// AdminStats handles GET /api/admin/stats
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Success 200 {object} models.PlatformStats
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (s *Server) AdminStats(c *fiber.Ctx) error {
	stats, err := s.adminService.Stats(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(stats)
}

// AdminBroadcast handles POST /api/admin/message
// @Summary Send a platform-wide message
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} service.BroadcastResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/message [post]
func (s *Server) AdminBroadcast(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	result, err := s.adminService.Broadcast(c.UserContext(), currentActor(c), service.BroadcastInput{
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(result)
}

// GetFeatureFlags handles GET /api/admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags":   s.featureFlags.Raw(),
		"enabled": s.featureFlags.Snapshot(currentActor(c).ID),
	})
}
