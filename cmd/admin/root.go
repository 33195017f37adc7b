package main

import (
	"context"
	"fmt"
	"strconv"

	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/notifications"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// cliApp holds the lazily opened dependencies shared by every subcommand.
type cliApp struct {
	cfg *config.Config
	db  *gorm.DB
}

func (a *cliApp) connect() error {
	if a.db != nil {
		return nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	// Ban and promote invalidate cached actors when Redis is reachable.
	cache.InitRedis(cfg.RedisURL)

	a.cfg, a.db = cfg, db
	return nil
}

func (a *cliApp) adminService() *service.AdminService {
	return service.NewAdminService(
		repository.NewUserRepository(a.db),
		repository.NewSkillRepository(a.db),
		repository.NewSwapRepository(a.db),
		repository.NewStatsRepository(a.db),
		notifications.NewNotifier(cache.GetClient()),
	)
}

func (a *cliApp) authService() *service.AuthService {
	return service.NewAuthService(repository.NewUserRepository(a.db), nil)
}

func newRootCmd(app *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Skill Swap operator tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.connect()
		},
	}
	root.AddCommand(
		newUserActionCmd(app, "promote", "Grant the admin role to a user", "promoted to admin",
			func(ctx context.Context, s *service.AdminService, id uint) error {
				_, err := s.Promote(ctx, id)
				return err
			}),
		newUserActionCmd(app, "ban", "Ban a non-admin user", "banned",
			func(ctx context.Context, s *service.AdminService, id uint) error {
				_, err := s.Ban(ctx, id)
				return err
			}),
		newUserActionCmd(app, "unban", "Lift a ban", "unbanned",
			func(ctx context.Context, s *service.AdminService, id uint) error {
				_, err := s.Unban(ctx, id)
				return err
			}),
		newListAdminsCmd(app),
		newCreateAdminCmd(app),
		newMigrateCmd(app),
	)
	return root
}

func parseUserID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", arg)
	}
	return uint(id), nil
}
