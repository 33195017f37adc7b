package repository

import (
	"context"
	"errors"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// FeedbackRepository defines persistence operations for swap feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ExistsForGiver(ctx context.Context, swapID, giverID uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Feedback, error)
	ListByGiver(ctx context.Context, giverID uint) ([]models.Feedback, error)
	ListByReceiver(ctx context.Context, receiverID uint) ([]models.Feedback, error)
	ListBySwap(ctx context.Context, swapID uint) ([]models.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func withFeedbackDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Giver").Preload("Receiver")
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateFeedbackError()
		}
		if isForeignKeyError(err) {
			return models.NewNotFoundError("Swap", feedback.SwapID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *feedbackRepository) ExistsForGiver(ctx context.Context, swapID, giverID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("swap_id = ? AND giver_id = ?", swapID, giverID).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *feedbackRepository) GetByID(ctx context.Context, id uint) (*models.Feedback, error) {
	var fb models.Feedback
	if err := withFeedbackDetails(r.db.WithContext(ctx)).First(&fb, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Feedback", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &fb, nil
}

func (r *feedbackRepository) ListByGiver(ctx context.Context, giverID uint) ([]models.Feedback, error) {
	return r.list(ctx, "giver_id = ?", giverID)
}

func (r *feedbackRepository) ListByReceiver(ctx context.Context, receiverID uint) ([]models.Feedback, error) {
	return r.list(ctx, "receiver_id = ?", receiverID)
}

func (r *feedbackRepository) ListBySwap(ctx context.Context, swapID uint) ([]models.Feedback, error) {
	return r.list(ctx, "swap_id = ?", swapID)
}

func (r *feedbackRepository) list(ctx context.Context, where string, arg uint) ([]models.Feedback, error) {
	var rows []models.Feedback
	err := withFeedbackDetails(r.db.WithContext(ctx)).
		Where(where, arg).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}
