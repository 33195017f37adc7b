package repository

import (
	"context"
	"errors"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetActor loads the account behind a bearer token. Results are cached
	// and carry no password hash.
	GetActor(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SetBanned(ctx context.Context, id uint, banned bool) error
	// BanNonAdmin bans the user unless it holds the admin role at write time.
	BanNonAdmin(ctx context.Context, id uint) error
	SetRole(ctx context.Context, id uint, role models.Role) error
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.User, error)
	CountBroadcastRecipients(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetActor(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.ActorKey(id), &user, cache.ActorTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// findOne returns nil, nil when no row matches.
func (r *userRepository) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(where, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email or username already registered")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateStats(ctx)
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email or username already registered")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateActor(ctx, user.ID)
	return nil
}

func (r *userRepository) SetBanned(ctx context.Context, id uint, banned bool) error {
	return r.updateColumn(ctx, id, "is_banned", banned)
}

func (r *userRepository) BanNonAdmin(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.User{}).
		Where("id = ? AND role <> ?", id, models.RoleAdmin).
		Update("is_banned", true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return models.NewInternalError(err)
		}
		if n == 0 {
			return models.NewNotFoundError("User", id)
		}
		return models.NewForbiddenError("Cannot ban an admin user")
	}
	cache.InvalidateActor(ctx, id)
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role models.Role) error {
	return r.updateColumn(ctx, id, "role", role)
}

func (r *userRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateActor(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	limit, offset = clampPage(limit, offset)
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Order("id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Search matches name or username case-insensitively among public, active, unbanned users.
func (r *userRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	limit, offset = clampPage(limit, offset)
	pattern := likePattern(query)
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("visibility = ? AND is_active = ? AND is_banned = ?", models.VisibilityPublic, true, false).
		Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(username) LIKE ? ESCAPE '\')`, pattern, pattern).
		Order("username ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// CountBroadcastRecipients counts accounts that receive platform messages.
func (r *userRepository) CountBroadcastRecipients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("is_active = ? AND is_banned = ?", true, false).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
