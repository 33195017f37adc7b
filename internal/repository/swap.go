package repository

import (
	"context"
	"errors"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// SwapRole narrows a participant's swap list.
type SwapRole string

const (
	SwapRoleAny       SwapRole = ""
	SwapRoleRequester SwapRole = "requester"
	SwapRoleProvider  SwapRole = "provider"
)

// SwapFilter selects swaps for listing. Zero values mean "no restriction".
type SwapFilter struct {
	UserID uint
	Role   SwapRole
	Status models.SwapStatus
	Limit  int
	Offset int
}

// SwapMutator inspects a locked swap and changes it in place. Returning an
// error aborts the surrounding transaction.
type SwapMutator func(swap *models.Swap) error

// SwapRepository defines persistence operations for swaps.
type SwapRepository interface {
	Create(ctx context.Context, swap *models.Swap) error
	// GetByID returns the swap with participants and skills preloaded.
	GetByID(ctx context.Context, id uint) (*models.Swap, error)
	List(ctx context.Context, filter SwapFilter) ([]models.Swap, error)
	// Transition loads the swap under a row lock, applies mutate and persists
	// status, message and completion time in one transaction.
	Transition(ctx context.Context, id uint, mutate SwapMutator) (*models.Swap, error)
	// DeleteIf deletes the swap when check passes, under the same lock.
	DeleteIf(ctx context.Context, id uint, check SwapMutator) error
}

type swapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) SwapRepository {
	return &swapRepository{db: db}
}

func withSwapDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Requester").Preload("Provider").Preload("SkillOffered").Preload("SkillWanted")
}

func (r *swapRepository) Create(ctx context.Context, swap *models.Swap) error {
	if err := r.db.WithContext(ctx).Create(swap).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User or skill", "referenced by swap")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateStats(ctx)
	return nil
}

func (r *swapRepository) GetByID(ctx context.Context, id uint) (*models.Swap, error) {
	var swap models.Swap
	if err := withSwapDetails(r.db.WithContext(ctx)).First(&swap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Swap", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &swap, nil
}

func (r *swapRepository) List(ctx context.Context, filter SwapFilter) ([]models.Swap, error) {
	limit, offset := clampPage(filter.Limit, filter.Offset)
	q := withSwapDetails(r.db.WithContext(ctx).Model(&models.Swap{}))

	if filter.UserID != 0 {
		switch filter.Role {
		case SwapRoleRequester:
			q = q.Where("requester_id = ?", filter.UserID)
		case SwapRoleProvider:
			q = q.Where("provider_id = ?", filter.UserID)
		default:
			q = q.Where("(requester_id = ? OR provider_id = ?)", filter.UserID, filter.UserID)
		}
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var swaps []models.Swap
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&swaps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return swaps, nil
}

func (r *swapRepository) lockSwap(tx *gorm.DB, id uint) (*models.Swap, error) {
	var swap models.Swap
	if err := forUpdate(tx).First(&swap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Swap", id)
		}
		return nil, err
	}
	return &swap, nil
}

func (r *swapRepository) Transition(ctx context.Context, id uint, mutate SwapMutator) (*models.Swap, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swap, err := r.lockSwap(tx, id)
		if err != nil {
			return err
		}
		if err := mutate(swap); err != nil {
			return err
		}
		return tx.Model(swap).
			Select("Status", "Message", "CompletedAt", "UpdatedAt").
			Updates(swap).Error
	})
	if err != nil {
		return nil, wrapError(err)
	}
	cache.InvalidateStats(ctx)
	return r.GetByID(ctx, id)
}

func (r *swapRepository) DeleteIf(ctx context.Context, id uint, check SwapMutator) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swap, err := r.lockSwap(tx, id)
		if err != nil {
			return err
		}
		if err := check(swap); err != nil {
			return err
		}
		return tx.Delete(swap).Error
	})
	if err != nil {
		return wrapError(err)
	}
	cache.InvalidateStats(ctx)
	return nil
}
