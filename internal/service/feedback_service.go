package service

import (
	"context"
	"log/slog"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type FeedbackService struct {
	feedback repository.FeedbackRepository
	swaps    repository.SwapRepository
	notifier *notifications.Notifier
}

type FeedbackInput struct {
	SwapID     uint
	ReceiverID uint
	Rating     float64
	Comment    *string
}

func NewFeedbackService(
	feedback repository.FeedbackRepository,
	swaps repository.SwapRepository,
	notifier *notifications.Notifier,
) *FeedbackService {
	return &FeedbackService{feedback: feedback, swaps: swaps, notifier: notifier}
}

// Create records the caller's rating of the other participant of a completed swap.
func (s *FeedbackService) Create(ctx context.Context, actor *models.User, in FeedbackInput) (_ *models.Feedback, err error) {
	ctx, span := observability.StartSpan(ctx, "FeedbackService.Create",
		attribute.Int64("swap.id", int64(in.SwapID)),
	)
	defer func() { observability.FinishSpan(span, err) }()

	if !validation.ValidateRating(in.Rating) {
		return nil, models.NewInvalidRatingError(in.Rating)
	}

	swap, err := s.swaps.GetByID(ctx, in.SwapID)
	if err != nil {
		return nil, err
	}
	if swap.Status != models.SwapStatusCompleted || !swap.IsParticipant(actor.ID) {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "Completed swap not found or you are not a participant"}
	}
	if !swap.IsParticipant(in.ReceiverID) {
		return nil, models.NewInvalidReceiverError()
	}
	if in.ReceiverID == actor.ID {
		return nil, models.NewSelfFeedbackError()
	}

	exists, err := s.feedback.ExistsForGiver(ctx, swap.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewDuplicateFeedbackError()
	}

	fb := &models.Feedback{
		SwapID:     swap.ID,
		GiverID:    actor.ID,
		ReceiverID: in.ReceiverID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}
	observability.FeedbackCreated.Inc()

	created, err := s.feedback.GetByID(ctx, fb.ID)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.NotifyUser(ctx, created.ReceiverID, notifications.EventFeedback, created.Details()); err != nil {
		middleware.Logger.WarnContext(ctx, "feedback notification failed", slog.String("error", err.Error()))
	}
	return created, nil
}

func (s *FeedbackService) Given(ctx context.Context, actor *models.User) ([]models.Feedback, error) {
	return s.feedback.ListByGiver(ctx, actor.ID)
}

func (s *FeedbackService) Received(ctx context.Context, actor *models.User) ([]models.Feedback, error) {
	return s.feedback.ListByReceiver(ctx, actor.ID)
}

// ForSwap lists feedback on a swap the caller participates in.
func (s *FeedbackService) ForSwap(ctx context.Context, actor *models.User, swapID uint) ([]models.Feedback, error) {
	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !swap.IsParticipant(actor.ID) {
		return nil, models.NewNotFoundError("Swap", swapID)
	}
	return s.feedback.ListBySwap(ctx, swapID)
}
