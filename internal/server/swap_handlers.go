package server

import (
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createSwapRequest struct {
	ProviderID     uint    `json:"provider_id"`
	SkillOfferedID *uint   `json:"skill_offered_id"`
	SkillWantedID  *uint   `json:"skill_wanted_id"`
	Message        *string `json:"message"`
}

type updateSwapRequest struct {
	Status  models.SwapStatus `json:"status"`
	Message *string           `json:"message"`
}

type createFeedbackRequest struct {
	SwapID     uint    `json:"swap_id"`
	ReceiverID uint    `json:"receiver_id"`
	Rating     float64 `json:"rating"`
	Comment    *string `json:"comment"`
}

// CreateSwap handles POST /api/swaps
// @Summary Request a swap
// @Tags swaps
// @Accept json
// @Produce json
// @Success 201 {object} models.SwapWithDetails
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /swaps [post]
func (s *Server) CreateSwap(c *fiber.Ctx) error {
	var req createSwapRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	swap, err := s.swapService.Create(c.UserContext(), currentActor(c), service.CreateSwapInput{
		ProviderID:     req.ProviderID,
		SkillOfferedID: req.SkillOfferedID,
		SkillWantedID:  req.SkillWantedID,
		Message:        req.Message,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(swap.Details())
}

// GetMySwaps handles GET /api/swaps
// @Summary List the caller's swaps
// @Tags swaps
// @Produce json
// @Success 200 {array} models.SwapWithDetails
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /swaps [get]
func (s *Server) GetMySwaps(c *fiber.Ctx) error {
	return s.listSwaps(c, "")
}

// GetSentSwaps handles GET /api/swaps/sent
func (s *Server) GetSentSwaps(c *fiber.Ctx) error {
	return s.listSwaps(c, repository.SwapRoleRequester)
}

// GetReceivedSwaps handles GET /api/swaps/received
func (s *Server) GetReceivedSwaps(c *fiber.Ctx) error {
	return s.listSwaps(c, repository.SwapRoleProvider)
}

func (s *Server) listSwaps(c *fiber.Ctx, role repository.SwapRole) error {
	page := parsePagination(c)
	swaps, err := s.swapService.List(c.UserContext(), currentActor(c), service.SwapListInput{
		Role:   role,
		Status: models.SwapStatus(c.Query("status")),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.SwapDetails(swaps))
}

// GetSwap handles GET /api/swaps/:id
// @Summary Get a swap
// @Tags swaps
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.SwapWithDetails
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /swaps/{id} [get]
func (s *Server) GetSwap(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	swap, err := s.swapService.Get(c.UserContext(), currentActor(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(swap.Details())
}

// UpdateSwap handles PUT /api/swaps/:id
// @Summary Change a swap's status
// @Tags swaps
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.SwapWithDetails
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /swaps/{id} [put]
func (s *Server) UpdateSwap(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateSwapRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	swap, err := s.swapService.Update(c.UserContext(), currentActor(c), id, service.UpdateSwapInput{
		Status:  req.Status,
		Message: req.Message,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(swap.Details())
}

// DeleteSwap handles DELETE /api/swaps/:id
// @Summary Withdraw a pending swap
// @Tags swaps
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /swaps/{id} [delete]
func (s *Server) DeleteSwap(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.swapService.Delete(c.UserContext(), currentActor(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateFeedback handles POST /api/swaps/feedback
// @Summary Rate the other participant of a completed swap
// @Tags feedback
// @Accept json
// @Produce json
// @Success 201 {object} models.FeedbackWithDetails
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /swaps/feedback [post]
func (s *Server) CreateFeedback(c *fiber.Ctx) error {
	var req createFeedbackRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	fb, err := s.feedbackService.Create(c.UserContext(), currentActor(c), service.FeedbackInput{
		SwapID:     req.SwapID,
		ReceiverID: req.ReceiverID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fb.Details())
}

// GetGivenFeedback handles GET /api/swaps/feedback/given
func (s *Server) GetGivenFeedback(c *fiber.Ctx) error {
	list, err := s.feedbackService.Given(c.UserContext(), currentActor(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.FeedbackDetails(list))
}

// GetReceivedFeedback handles GET /api/swaps/feedback/received
func (s *Server) GetReceivedFeedback(c *fiber.Ctx) error {
	list, err := s.feedbackService.Received(c.UserContext(), currentActor(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.FeedbackDetails(list))
}

// GetSwapFeedback handles GET /api/swaps/:id/feedback
// @Summary List feedback on a swap
// @Tags feedback
// @Produce json
// @Param id path int true "ID"
// @Success 200 {array} models.FeedbackWithDetails
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /swaps/{id}/feedback [get]
func (s *Server) GetSwapFeedback(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	list, err := s.feedbackService.ForSwap(c.UserContext(), currentActor(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.FeedbackDetails(list))
}
