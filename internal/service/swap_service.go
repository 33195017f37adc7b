package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/observability"
	"skillswap/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type SwapService struct {
	swaps    repository.SwapRepository
	users    repository.UserRepository
	skills   repository.SkillRepository
	notifier *notifications.Notifier
	now      func() time.Time
}

type CreateSwapInput struct {
	ProviderID     uint
	SkillOfferedID *uint
	SkillWantedID  *uint
	Message        *string
}

// UpdateSwapInput requests a status change. A non-empty Message replaces the
// stored message once the transition has been accepted.
type UpdateSwapInput struct {
	Status  models.SwapStatus
	Message *string
}

// SwapListInput narrows the caller's swaps.
type SwapListInput struct {
	Role   repository.SwapRole
	Status models.SwapStatus
	Limit  int
	Offset int
}

func NewSwapService(
	swaps repository.SwapRepository,
	users repository.UserRepository,
	skills repository.SkillRepository,
	notifier *notifications.Notifier,
) *SwapService {
	return &SwapService{
		swaps:    swaps,
		users:    users,
		skills:   skills,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a pending swap from the caller to the provider.
func (s *SwapService) Create(ctx context.Context, actor *models.User, in CreateSwapInput) (*models.Swap, error) {
	if in.ProviderID == 0 {
		return nil, models.NewValidationError("provider_id is required")
	}
	if in.ProviderID == actor.ID {
		return nil, models.NewValidationError("Cannot create a swap with yourself")
	}
	if _, err := s.users.GetByID(ctx, in.ProviderID); err != nil {
		return nil, err
	}
	if in.SkillOfferedID != nil {
		if _, err := s.skills.GetOffered(ctx, *in.SkillOfferedID); err != nil {
			return nil, err
		}
	}
	if in.SkillWantedID != nil {
		if _, err := s.skills.GetWanted(ctx, *in.SkillWantedID); err != nil {
			return nil, err
		}
	}

	swap := &models.Swap{
		RequesterID:    actor.ID,
		ProviderID:     in.ProviderID,
		SkillOfferedID: in.SkillOfferedID,
		SkillWantedID:  in.SkillWantedID,
		Message:        in.Message,
		Status:         models.SwapStatusPending,
	}
	if err := s.swaps.Create(ctx, swap); err != nil {
		return nil, err
	}
	observability.SwapsCreated.Inc()

	created, err := s.swaps.GetByID(ctx, swap.ID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, created.ProviderID, notifications.EventSwapRequested, created)
	return created, nil
}

// Update applies a status transition under a row lock.
func (s *SwapService) Update(ctx context.Context, actor *models.User, id uint, in UpdateSwapInput) (_ *models.Swap, err error) {
	ctx, span := observability.StartSpan(ctx, "SwapService.Update",
		attribute.Int64("swap.id", int64(id)),
		attribute.String("swap.requested_status", string(in.Status)),
	)
	defer func() { observability.FinishSpan(span, err) }()

	if !in.Status.Valid() {
		return nil, models.NewValidationError("status must be one of pending, accepted, rejected, cancelled, completed")
	}

	var from models.SwapStatus
	updated, err := s.swaps.Transition(ctx, id, func(swap *models.Swap) error {
		if err := ResolveTransition(swap, actor.ID, in.Status); err != nil {
			return err
		}
		from = swap.Status
		swap.Status = in.Status
		if in.Status == models.SwapStatusCompleted {
			now := s.now()
			swap.CompletedAt = &now
		}
		if in.Message != nil && *in.Message != "" {
			swap.Message = in.Message
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code != models.CodeInternal {
			observability.SwapTransitionRejections.WithLabelValues(appErr.Code).Inc()
		}
		return nil, err
	}

	observability.SwapTransitions.WithLabelValues(string(from), string(updated.Status)).Inc()
	counterpart := updated.ProviderID
	if actor.ID == updated.ProviderID {
		counterpart = updated.RequesterID
	}
	s.notify(ctx, counterpart, notifications.EventSwapUpdated, updated)
	return updated, nil
}

// Delete removes a pending swap the caller requested. Every refusal looks
// like a missing swap.
func (s *SwapService) Delete(ctx context.Context, actor *models.User, id uint) error {
	var providerID uint
	err := s.swaps.DeleteIf(ctx, id, func(swap *models.Swap) error {
		if swap.RequesterID != actor.ID || swap.Status != models.SwapStatusPending {
			return models.NewNotFoundError("Swap", id)
		}
		providerID = swap.ProviderID
		return nil
	})
	if err != nil {
		return err
	}
	s.notify(ctx, providerID, notifications.EventSwapDeleted, map[string]uint{"swap_id": id})
	return nil
}

// Get returns one swap the caller participates in.
func (s *SwapService) Get(ctx context.Context, actor *models.User, id uint) (*models.Swap, error) {
	swap, err := s.swaps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !swap.IsParticipant(actor.ID) {
		return nil, models.NewNotFoundError("Swap", id)
	}
	return swap, nil
}

// List returns the caller's swaps, newest first.
func (s *SwapService) List(ctx context.Context, actor *models.User, in SwapListInput) ([]models.Swap, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, models.NewValidationError("invalid status filter")
	}
	return s.swaps.List(ctx, repository.SwapFilter{
		UserID: actor.ID,
		Role:   in.Role,
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
}

// notify publishes a swap event. Delivery failures are logged and never fail the request.
func (s *SwapService) notify(ctx context.Context, userID uint, eventType string, payload any) {
	if swap, ok := payload.(*models.Swap); ok {
		payload = swap.Details()
	}
	if err := s.notifier.NotifyUser(ctx, userID, eventType, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "swap notification failed",
			slog.String("event", eventType),
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
	}
}
