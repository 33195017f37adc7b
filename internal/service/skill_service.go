package service

import (
	"context"
	"strings"

	"skillswap/internal/auth"
	"skillswap/internal/featureflags"
	"skillswap/internal/models"
	"skillswap/internal/repository"
	"skillswap/internal/validation"
)

type SkillService struct {
	skills repository.SkillRepository
	flags  *featureflags.Manager
}

type SkillInput struct {
	Name        string
	Description *string
}

// SkillUpdate is a partial skill update. Status applies to offered skills and
// only when the caller is an admin; otherwise it is dropped.
type SkillUpdate struct {
	Name        *string
	Description *string
	Status      *models.SkillStatus
}

func NewSkillService(skills repository.SkillRepository, flags *featureflags.Manager) *SkillService {
	return &SkillService{skills: skills, flags: flags}
}

func validateSkillName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateSkillName(name); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	return name, nil
}

func (s *SkillService) CreateOffered(ctx context.Context, actor *models.User, in SkillInput) (*models.SkillOffered, error) {
	name, err := validateSkillName(in.Name)
	if err != nil {
		return nil, err
	}
	status := models.SkillStatusApproved
	if s.flags.Enabled(featureflags.OfferedSkillReview, actor.ID) {
		status = models.SkillStatusPending
	}
	skill := &models.SkillOffered{UserID: actor.ID, Name: name, Description: in.Description, Status: status}
	if err := s.skills.CreateOffered(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) CreateWanted(ctx context.Context, actor *models.User, in SkillInput) (*models.SkillWanted, error) {
	name, err := validateSkillName(in.Name)
	if err != nil {
		return nil, err
	}
	skill := &models.SkillWanted{UserID: actor.ID, Name: name, Description: in.Description}
	if err := s.skills.CreateWanted(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) ListOffered(ctx context.Context, actor *models.User) ([]models.SkillOffered, error) {
	return s.skills.ListOfferedByUser(ctx, actor.ID)
}

func (s *SkillService) ListWanted(ctx context.Context, actor *models.User) ([]models.SkillWanted, error) {
	return s.skills.ListWantedByUser(ctx, actor.ID)
}

func (s *SkillService) GetOffered(ctx context.Context, id uint) (*models.SkillOffered, error) {
	return s.skills.GetOffered(ctx, id)
}

func (s *SkillService) GetWanted(ctx context.Context, id uint) (*models.SkillWanted, error) {
	return s.skills.GetWanted(ctx, id)
}

// ownedOffered loads a skill the actor owns. Foreign skills look absent.
func (s *SkillService) ownedOffered(ctx context.Context, actor *models.User, id uint) (*models.SkillOffered, error) {
	skill, err := s.skills.GetOffered(ctx, id)
	if err != nil {
		return nil, err
	}
	if skill.UserID != actor.ID {
		return nil, notFoundOrNotOwned()
	}
	return skill, nil
}

func (s *SkillService) ownedWanted(ctx context.Context, actor *models.User, id uint) (*models.SkillWanted, error) {
	skill, err := s.skills.GetWanted(ctx, id)
	if err != nil {
		return nil, err
	}
	if skill.UserID != actor.ID {
		return nil, notFoundOrNotOwned()
	}
	return skill, nil
}

func notFoundOrNotOwned() *models.AppError {
	return &models.AppError{Code: models.CodeNotFound, Message: "Skill not found or not owned by you"}
}

func (s *SkillService) UpdateOffered(ctx context.Context, actor *models.User, id uint, in SkillUpdate) (*models.SkillOffered, error) {
	skill, err := s.ownedOffered(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if skill.Name, err = validateSkillName(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		skill.Description = in.Description
	}
	if in.Status != nil && auth.IsAdmin(actor) {
		if !in.Status.Valid() {
			return nil, models.NewValidationError("status must be pending, approved or rejected")
		}
		skill.Status = *in.Status
	}
	if err := s.skills.UpdateOffered(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) UpdateWanted(ctx context.Context, actor *models.User, id uint, in SkillUpdate) (*models.SkillWanted, error) {
	skill, err := s.ownedWanted(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if skill.Name, err = validateSkillName(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		skill.Description = in.Description
	}
	if err := s.skills.UpdateWanted(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) DeleteOffered(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.ownedOffered(ctx, actor, id); err != nil {
		return err
	}
	return s.skills.DeleteOffered(ctx, id)
}

func (s *SkillService) DeleteWanted(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.ownedWanted(ctx, actor, id); err != nil {
		return err
	}
	return s.skills.DeleteWanted(ctx, id)
}

// Search finds skills by name across both catalogs, or one when skillType is set.
func (s *SkillService) Search(ctx context.Context, query, skillType string, limit int) ([]models.SkillSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("query is required")
	}
	kind := models.SkillType(strings.ToLower(strings.TrimSpace(skillType)))
	if kind != "" && !kind.Valid() {
		return nil, models.NewValidationError("skill_type must be offered or wanted")
	}
	return s.skills.Search(ctx, query, kind, limit)
}
