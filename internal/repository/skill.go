package repository

import (
	"context"
	"errors"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SkillRepository defines persistence operations for offered and wanted skills.
type SkillRepository interface {
	CreateOffered(ctx context.Context, skill *models.SkillOffered) error
	CreateWanted(ctx context.Context, skill *models.SkillWanted) error
	GetOffered(ctx context.Context, id uint) (*models.SkillOffered, error)
	GetWanted(ctx context.Context, id uint) (*models.SkillWanted, error)
	ListOfferedByUser(ctx context.Context, userID uint) ([]models.SkillOffered, error)
	ListWantedByUser(ctx context.Context, userID uint) ([]models.SkillWanted, error)
	UpdateOffered(ctx context.Context, skill *models.SkillOffered) error
	UpdateWanted(ctx context.Context, skill *models.SkillWanted) error
	// DeleteOffered and DeleteWanted clear swap references in the same transaction.
	DeleteOffered(ctx context.Context, id uint) error
	DeleteWanted(ctx context.Context, id uint) error
	ListPendingOffered(ctx context.Context) ([]models.SkillOffered, error)
	SetOfferedStatus(ctx context.Context, id uint, status models.SkillStatus) (*models.SkillOffered, error)
	Search(ctx context.Context, query string, skillType models.SkillType, limit int) ([]models.SkillSearchResult, error)
}

type skillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) CreateOffered(ctx context.Context, skill *models.SkillOffered) error {
	return r.create(ctx, skill)
}

func (r *skillRepository) CreateWanted(ctx context.Context, skill *models.SkillWanted) error {
	return r.create(ctx, skill)
}

func (r *skillRepository) create(ctx context.Context, skill any) error {
	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", "owner")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateStats(ctx)
	return nil
}

func (r *skillRepository) GetOffered(ctx context.Context, id uint) (*models.SkillOffered, error) {
	var skill models.SkillOffered
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Offered skill", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &skill, nil
}

func (r *skillRepository) GetWanted(ctx context.Context, id uint) (*models.SkillWanted, error) {
	var skill models.SkillWanted
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Wanted skill", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &skill, nil
}

func (r *skillRepository) ListOfferedByUser(ctx context.Context, userID uint) ([]models.SkillOffered, error) {
	var skills []models.SkillOffered
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

func (r *skillRepository) ListWantedByUser(ctx context.Context, userID uint) ([]models.SkillWanted, error) {
	var skills []models.SkillWanted
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&skills).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

func (r *skillRepository) UpdateOffered(ctx context.Context, skill *models.SkillOffered) error {
	err := r.db.WithContext(ctx).Model(skill).
		Select("Name", "Description", "Status").
		Updates(skill).Error
	return wrapError(err)
}

func (r *skillRepository) UpdateWanted(ctx context.Context, skill *models.SkillWanted) error {
	err := r.db.WithContext(ctx).Model(skill).
		Select("Name", "Description").
		Updates(skill).Error
	return wrapError(err)
}

func (r *skillRepository) DeleteOffered(ctx context.Context, id uint) error {
	return r.deleteSkill(ctx, &models.SkillOffered{}, "skill_offered_id", id)
}

func (r *skillRepository) DeleteWanted(ctx context.Context, id uint) error {
	return r.deleteSkill(ctx, &models.SkillWanted{}, "skill_wanted_id", id)
}

func (r *skillRepository) deleteSkill(ctx context.Context, model any, swapColumn string, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Swap{}).Where(swapColumn+" = ?", id).Update(swapColumn, nil).Error; err != nil {
			return err
		}
		res := tx.Delete(model, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Skill", id)
		}
		return nil
	})
	if err != nil {
		return wrapError(err)
	}
	cache.InvalidateStats(ctx)
	return nil
}

func (r *skillRepository) ListPendingOffered(ctx context.Context) ([]models.SkillOffered, error) {
	var skills []models.SkillOffered
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SkillStatusPending).
		Order("created_at ASC, id ASC").
		Find(&skills).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return skills, nil
}

func (r *skillRepository) SetOfferedStatus(ctx context.Context, id uint, status models.SkillStatus) (*models.SkillOffered, error) {
	res := r.db.WithContext(ctx).Model(&models.SkillOffered{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Offered skill", id)
	}
	return r.GetOffered(ctx, id)
}

// Search matches skill names case-insensitively. Offered skills must be
// approved; both kinds require an active, unbanned owner. An empty
// skillType searches both tables.
func (r *skillRepository) Search(ctx context.Context, query string, skillType models.SkillType, limit int) ([]models.SkillSearchResult, error) {
	limit, _ = clampPage(limit, 0)
	pattern := likePattern(query)
	results := make([]models.SkillSearchResult, 0)

	if skillType == "" || skillType == models.SkillTypeOffered {
		var offered []models.SkillSearchResult
		err := r.searchTable(ctx, "skills_offered", pattern, limit).
			Where("s.status = ?", models.SkillStatusApproved).
			Scan(&offered).Error
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		for i := range offered {
			offered[i].SkillType = models.SkillTypeOffered
		}
		results = append(results, offered...)
	}

	if skillType == "" || skillType == models.SkillTypeWanted {
		var wanted []models.SkillSearchResult
		if err := r.searchTable(ctx, "skills_wanted", pattern, limit).Scan(&wanted).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		for i := range wanted {
			wanted[i].SkillType = models.SkillTypeWanted
		}
		results = append(results, wanted...)
	}

	return results, nil
}

func (r *skillRepository) searchTable(ctx context.Context, table, pattern string, limit int) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(table+" AS s").
		Select("s.id AS skill_id, s.name AS name, s.description AS description, s.user_id AS user_id, u.username AS username, u.name AS user_name").
		Joins("JOIN users u ON u.id = s.user_id").
		Where(`LOWER(s.name) LIKE ? ESCAPE '\'`, pattern).
		Where("u.is_active = ? AND u.is_banned = ?", true, false).
		Order("s.name ASC, s.id ASC").
		Limit(limit)
}
