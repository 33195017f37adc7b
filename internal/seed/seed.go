package seed

import (
	"context"
	"fmt"
	"log/slog"

	"skillswap/internal/middleware"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers      int
	SkillsPerUser int
	NumSwaps      int
	Seed          int64
	FastHash      bool
}

// DefaultOptions seeds a small but complete demo platform.
func DefaultOptions() Options {
	return Options{NumUsers: 20, SkillsPerUser: 2, NumSwaps: 30}
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Skills   int
	Swaps    int
	Feedback int
}

// Seeder populates a database through a Factory.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	factory, err := NewFactory(db, opts.Seed, opts.FastHash)
	if err != nil {
		return nil, err
	}
	return &Seeder{db: db, factory: factory, opts: opts}, nil
}

// ClearAll removes all domain rows, children first.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.Feedback{},
		&models.Swap{},
		&models.SkillOffered{},
		&models.SkillWanted{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	middleware.Logger.Info("seed data cleared")
	return nil
}

// swapStatusCycle spreads seeded swaps across every lifecycle status.
var swapStatusCycle = []models.SwapStatus{
	models.SwapStatusPending,
	models.SwapStatusAccepted,
	models.SwapStatusCompleted,
	models.SwapStatusCompleted,
	models.SwapStatusRejected,
	models.SwapStatusCancelled,
}

// Run creates users with skills, then swaps between random pairs. Completed
// swaps get feedback from both participants.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if s.opts.NumUsers < 2 {
		return nil, fmt.Errorf("at least 2 users are required, got %d", s.opts.NumUsers)
	}

	summary := &Summary{}
	users := make([]*models.User, 0, s.opts.NumUsers)
	offered := make(map[uint][]*models.SkillOffered, s.opts.NumUsers)

	for i := 0; i < s.opts.NumUsers; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		user, err := s.factory.CreateUser()
		if err != nil {
			return summary, err
		}
		users = append(users, user)
		summary.Users++

		for j := 0; j < s.opts.SkillsPerUser; j++ {
			skill, err := s.factory.CreateOfferedSkill(user)
			if err != nil {
				return summary, err
			}
			offered[user.ID] = append(offered[user.ID], skill)
			if _, err := s.factory.CreateWantedSkill(user); err != nil {
				return summary, err
			}
			summary.Skills += 2
		}
	}

	faker := s.factory.faker
	for i := 0; i < s.opts.NumSwaps; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		requester := users[faker.Number(0, len(users)-1)]
		provider := users[faker.Number(0, len(users)-1)]
		if requester.ID == provider.ID {
			continue
		}

		var skill *models.SkillOffered
		if skills := offered[provider.ID]; len(skills) > 0 {
			skill = skills[faker.Number(0, len(skills)-1)]
		}

		status := swapStatusCycle[i%len(swapStatusCycle)]
		swap, err := s.factory.CreateSwap(requester, provider, skill, status)
		if err != nil {
			return summary, err
		}
		summary.Swaps++

		if status == models.SwapStatusCompleted {
			if _, err := s.factory.CreateFeedback(swap, requester.ID, provider.ID); err != nil {
				return summary, err
			}
			if _, err := s.factory.CreateFeedback(swap, provider.ID, requester.ID); err != nil {
				return summary, err
			}
			summary.Feedback += 2
		}
	}

	middleware.Logger.Info("seed completed",
		slog.Int("users", summary.Users),
		slog.Int("skills", summary.Skills),
		slog.Int("swaps", summary.Swaps),
		slog.Int("feedback", summary.Feedback),
	)
	return summary, nil
}
