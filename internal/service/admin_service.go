package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"skillswap/internal/auth"
	"skillswap/internal/cache"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
)

const broadcastTimeout = 30 * time.Second

type AdminService struct {
	users    repository.UserRepository
	skills   repository.SkillRepository
	swaps    repository.SwapRepository
	stats    repository.StatsRepository
	notifier *notifications.Notifier
	// spawn runs detached work; tests replace it to run inline.
	spawn func(func())
}

type BroadcastInput struct {
	Title   string
	Message string
}

// BroadcastResult is returned as soon as delivery has been scheduled.
type BroadcastResult struct {
	Status          string `json:"status"`
	RecipientsCount int64  `json:"recipients_count"`
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users  []models.User `json:"users"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func NewAdminService(
	users repository.UserRepository,
	skills repository.SkillRepository,
	swaps repository.SwapRepository,
	stats repository.StatsRepository,
	notifier *notifications.Notifier,
) *AdminService {
	return &AdminService{
		users:    users,
		skills:   skills,
		swaps:    swaps,
		stats:    stats,
		notifier: notifier,
		spawn:    func(fn func()) { go fn() },
	}
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) (*UserPage, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total, Limit: limit, Offset: offset}, nil
}

// Ban blocks a non-admin account.
func (s *AdminService) Ban(ctx context.Context, id uint) (*models.User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if auth.IsAdmin(target) {
		return nil, models.NewForbiddenError("Cannot ban an admin user")
	}
	// The role is checked again in the write; a promotion may land in between.
	if err := s.users.BanNonAdmin(ctx, id); err != nil {
		return nil, err
	}
	target.IsBanned = true
	s.audit(ctx, "user banned", id)
	return target, nil
}

func (s *AdminService) Unban(ctx context.Context, id uint) (*models.User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetBanned(ctx, id, false); err != nil {
		return nil, err
	}
	target.IsBanned = false
	s.audit(ctx, "user unbanned", id)
	return target, nil
}

// Promote grants the admin role. There is no demotion.
func (s *AdminService) Promote(ctx context.Context, id uint) (*models.User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRole(ctx, id, models.RoleAdmin); err != nil {
		return nil, err
	}
	target.Role = models.RoleAdmin
	s.audit(ctx, "user promoted to admin", id)
	return target, nil
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.users.ListAdmins(ctx)
}

func (s *AdminService) PendingSkills(ctx context.Context) ([]models.SkillOffered, error) {
	return s.skills.ListPendingOffered(ctx)
}

func (s *AdminService) ApproveSkill(ctx context.Context, id uint) (*models.SkillOffered, error) {
	return s.skills.SetOfferedStatus(ctx, id, models.SkillStatusApproved)
}

func (s *AdminService) RejectSkill(ctx context.Context, id uint) (*models.SkillOffered, error) {
	return s.skills.SetOfferedStatus(ctx, id, models.SkillStatusRejected)
}

func (s *AdminService) ListSwaps(ctx context.Context, status models.SwapStatus, limit, offset int) ([]models.Swap, error) {
	if status != "" && !status.Valid() {
		return nil, models.NewValidationError("invalid status filter")
	}
	return s.swaps.List(ctx, repository.SwapFilter{Status: status, Limit: limit, Offset: offset})
}

// Stats returns platform counters, cached briefly when Redis is available.
func (s *AdminService) Stats(ctx context.Context) (*models.PlatformStats, error) {
	var stats models.PlatformStats
	err := cache.Aside(ctx, cache.StatsKey, &stats, cache.StatsTTL, func() error {
		fresh, err := s.stats.PlatformStats(ctx)
		if err != nil {
			return err
		}
		stats = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Broadcast schedules a platform message and returns immediately. Delivery
// runs detached from the request and failures are only logged.
func (s *AdminService) Broadcast(ctx context.Context, actor *models.User, in BroadcastInput) (*BroadcastResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if in.Title == "" || in.Message == "" {
		return nil, models.NewValidationError("title and message are required")
	}

	recipients, err := s.users.CountBroadcastRecipients(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"title":   in.Title,
		"message": in.Message,
		"sent_by": actor.Username,
	}
	logger := middleware.Logger.With(
		slog.Uint64("admin_id", uint64(actor.ID)),
		slog.String("title", in.Title),
	)

	s.spawn(func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
		defer cancel()

		if !s.notifier.Enabled() {
			observability.BroadcastsSent.WithLabelValues("skipped").Inc()
			logger.Warn("platform message not delivered: notifier disabled")
			return
		}
		if err := s.notifier.NotifyAll(sendCtx, notifications.EventBroadcast, payload); err != nil {
			observability.BroadcastsSent.WithLabelValues("failed").Inc()
			logger.Error("platform message delivery failed", slog.String("error", err.Error()))
			return
		}
		observability.BroadcastsSent.WithLabelValues("sent").Inc()
		logger.Info("platform message sent", slog.Int64("recipients", recipients))
	})

	return &BroadcastResult{Status: "Message sending started", RecipientsCount: recipients}, nil
}

func (s *AdminService) audit(ctx context.Context, action string, userID uint) {
	middleware.Logger.InfoContext(ctx, action, slog.Uint64("target_user_id", uint64(userID)))
}
