package server

import (
	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/gofiber/fiber/v2"
)

type skillRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type skillUpdateRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Status      *models.SkillStatus `json:"status"`
}

func (r skillUpdateRequest) toUpdate() service.SkillUpdate {
	return service.SkillUpdate{Name: r.Name, Description: r.Description, Status: r.Status}
}

// CreateOfferedSkill handles POST /api/skills/offered
// @Summary Add an offered skill
// @Tags skills
// @Accept json
// @Produce json
// @Success 201 {object} models.SkillOffered
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /skills/offered [post]
func (s *Server) CreateOfferedSkill(c *fiber.Ctx) error {
	var req skillRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	skill, err := s.skillService.CreateOffered(c.UserContext(), currentActor(c), service.SkillInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

// GetMyOfferedSkills handles GET /api/skills/offered
// @Summary List the caller's offered skills
// @Tags skills
// @Produce json
// @Success 200 {array} models.SkillOffered
// @Security BearerAuth
// @Router /skills/offered [get]
func (s *Server) GetMyOfferedSkills(c *fiber.Ctx) error {
	skills, err := s.skillService.ListOffered(c.UserContext(), currentActor(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skills)
}

// GetOfferedSkill handles GET /api/skills/offered/:id
// @Summary Get an offered skill
// @Tags skills
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.SkillOffered
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /skills/offered/{id} [get]
func (s *Server) GetOfferedSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	skill, err := s.skillService.GetOffered(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skill)
}

// UpdateOfferedSkill handles PUT /api/skills/offered/:id
// @Summary Update an owned offered skill
// @Tags skills
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.SkillOffered
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /skills/offered/{id} [put]
func (s *Server) UpdateOfferedSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req skillUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	skill, err := s.skillService.UpdateOffered(c.UserContext(), currentActor(c), id, req.toUpdate())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skill)
}

// DeleteOfferedSkill handles DELETE /api/skills/offered/:id
// @Summary Delete an owned offered skill
// @Tags skills
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /skills/offered/{id} [delete]
func (s *Server) DeleteOfferedSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.skillService.DeleteOffered(c.UserContext(), currentActor(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateWantedSkill handles POST /api/skills/wanted
// @Summary Add a wanted skill
// @Tags skills
// @Accept json
// @Produce json
// @Success 201 {object} models.SkillWanted
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /skills/wanted [post]
func (s *Server) CreateWantedSkill(c *fiber.Ctx) error {
	var req skillRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	skill, err := s.skillService.CreateWanted(c.UserContext(), currentActor(c), service.SkillInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

// GetMyWantedSkills handles GET /api/skills/wanted
// @Summary List the caller's wanted skills
// @Tags skills
// @Produce json
// @Success 200 {array} models.SkillWanted
// @Security BearerAuth
// @Router /skills/wanted [get]
func (s *Server) GetMyWantedSkills(c *fiber.Ctx) error {
	skills, err := s.skillService.ListWanted(c.UserContext(), currentActor(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skills)
}

// GetWantedSkill handles GET /api/skills/wanted/:id
// @Summary Get a wanted skill
// @Tags skills
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.SkillWanted
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /skills/wanted/{id} [get]
func (s *Server) GetWantedSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	skill, err := s.skillService.GetWanted(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skill)
}

// UpdateWantedSkill handles PUT /api/skills/wanted/:id
// @Summary Update an owned wanted skill
// @Tags skills
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} models.SkillWanted
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /skills/wanted/{id} [put]
func (s *Server) UpdateWantedSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req skillUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	skill, err := s.skillService.UpdateWanted(c.UserContext(), currentActor(c), id, req.toUpdate())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(skill)
}

// DeleteWantedSkill handles DELETE /api/skills/wanted/:id
// @Summary Delete an owned wanted skill
// @Tags skills
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /skills/wanted/{id} [delete]
func (s *Server) DeleteWantedSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.skillService.DeleteWanted(c.UserContext(), currentActor(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SearchSkills handles GET /api/skills/search?query=&skill_type=
// @Summary Search skills by name
// @Tags skills
// @Produce json
// @Success 200 {array} models.SkillSearchResult
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /skills/search [get]
func (s *Server) SearchSkills(c *fiber.Ctx) error {
	page := parsePagination(c)
	results, err := s.skillService.Search(c.UserContext(), c.Query("query"), c.Query("skill_type"), page.Limit)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(results)
}
