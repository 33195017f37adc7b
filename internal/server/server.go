// Package server contains the HTTP handlers and routing for the skill swap API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"skillswap/internal/auth"
	"skillswap/internal/bootstrap"
	"skillswap/internal/config"
	"skillswap/internal/featureflags"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/repository"
	"skillswap/internal/service"
	"skillswap/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	shutdownCtx     context.Context
	shutdownFn      context.CancelFunc
	notifier        *notifications.Notifier
	featureFlags    *featureflags.Manager
	authService     *service.AuthService
	userService     *service.UserService
	skillService    *service.SkillService
	swapService     *service.SwapService
	feedbackService *service.FeedbackService
	adminService    *service.AdminService
}

// NewServer runs the startup routine and wires a server on top of it.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedDemoData: cfg.SeedDemoData})
	if err != nil {
		return nil, fmt.Errorf("runtime initialization failed: %w", err)
	}
	return NewServerWithDeps(cfg, rt.DB, rt.Redis, rt.Photos)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests pass an in-memory database and a nil or miniredis-backed client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, photos storage.PhotoStore) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if photos == nil {
		photos = storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
	}

	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	notifier := notifications.NewNotifier(redisClient)
	flags := featureflags.NewManager(cfg.FeatureFlags)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("skillswap-api"),
		notifier:       notifier,
		featureFlags:   flags,
	}
	s.authService = service.NewAuthService(userRepo, auth.NewTokenIssuerFromConfig(cfg))
	s.userService = service.NewUserService(userRepo, photos, cfg.MaxUploadBytes())
	s.skillService = service.NewSkillService(skillRepo, flags)
	s.swapService = service.NewSwapService(swapRepo, userRepo, skillRepo, notifier)
	s.feedbackService = service.NewFeedbackService(feedbackRepo, swapRepo, notifier)
	s.adminService = service.NewAdminService(userRepo, skillRepo, swapRepo, statsRepo, notifier)

	return s, nil
}

// NewApp builds a Fiber app with the full middleware chain and route table.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: s.config.AppName,
		// Leave headroom above the photo limit so oversize uploads reach the
		// handler and get a proper 413 body.
		BodyLimit: int(s.config.MaxUploadBytes()) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, errors.New(fe.Message))
			}
			return s.respondError(c, err)
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// Uploaded photos are embedded by a frontend on another origin.
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: !strings.Contains(origins, "*"),
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || !s.config.IsProduction()
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health", s.HealthCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	api.Get("/health", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if s.config.PhotoStore == "" || s.config.PhotoStore == "local" {
		app.Static(s.config.UploadURLPrefix, s.config.UploadDir)
	}

	authGroup := api.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/me/profile-photo", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "profile_photo"), s.UploadProfilePhoto)
	users.Get("/", middleware.RateLimit(
		s.redis, 30, time.Minute, "user_search"), s.SearchUsers)
	users.Get("/:id", s.GetUserProfile)

	skills := protected.Group("/skills")
	skills.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "skill_search"), s.SearchSkills)
	offered := skills.Group("/offered")
	offered.Post("/", s.CreateOfferedSkill)
	offered.Get("/", s.GetMyOfferedSkills)
	offered.Get("/:id", s.GetOfferedSkill)
	offered.Put("/:id", s.UpdateOfferedSkill)
	offered.Delete("/:id", s.DeleteOfferedSkill)
	wanted := skills.Group("/wanted")
	wanted.Post("/", s.CreateWantedSkill)
	wanted.Get("/", s.GetMyWantedSkills)
	wanted.Get("/:id", s.GetWantedSkill)
	wanted.Put("/:id", s.UpdateWantedSkill)
	wanted.Delete("/:id", s.DeleteWantedSkill)

	// Specific swap paths are registered before the generic /:id routes.
	swaps := protected.Group("/swaps")
	swaps.Post("/", s.CreateSwap)
	swaps.Get("/", s.GetMySwaps)
	swaps.Get("/sent", s.GetSentSwaps)
	swaps.Get("/received", s.GetReceivedSwaps)
	swaps.Post("/feedback", s.CreateFeedback)
	swaps.Get("/feedback/given", s.GetGivenFeedback)
	swaps.Get("/feedback/received", s.GetReceivedFeedback)
	swaps.Get("/:id/feedback", s.GetSwapFeedback)
	swaps.Get("/:id", s.GetSwap)
	swaps.Put("/:id", s.UpdateSwap)
	swaps.Delete("/:id", s.DeleteSwap)

	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/users", s.AdminListUsers)
	admin.Put("/users/:id/ban", s.AdminBanUser)
	admin.Put("/users/:id/unban", s.AdminUnbanUser)
	admin.Put("/users/:id/make-admin", s.AdminPromoteUser)
	admin.Get("/skills/pending", s.AdminPendingSkills)
	admin.Put("/skills/:id/approve", s.AdminApproveSkill)
	admin.Put("/skills/:id/reject", s.AdminRejectSkill)
	admin.Get("/swaps", s.AdminListSwaps)
	admin.Get("/stats", s.AdminStats)
	admin.Post("/message", s.AdminBroadcast)
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// HealthCheck reports liveness and the running version.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.config.AppVersion,
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; without it the API runs uncached.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overallStatus,
		"version": s.config.AppVersion,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// AuthRequired resolves the bearer token into an actor and stores it in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		actor, err := s.authService.ResolveActor(c.UserContext(), token)
		if err != nil {
			if statusFor(err) == fiber.StatusUnauthorized {
				c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			}
			return s.respondError(c, err)
		}

		c.Locals("userID", actor.ID)
		c.Locals("actor", actor)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, actor.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired rejects non-admin actors with 403.
// Must be placed after AuthRequired so the actor is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.RequireAdmin(currentActor(c)); err != nil {
			return s.respondError(c, err)
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Start listens on the configured port and relays published notifications
// to the log until Shutdown is called.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.notifier.Enabled() {
		if err := s.notifier.StartSubscriber(s.shutdownCtx, s.logNotification); err != nil {
			middleware.Logger.Warn("notification relay not started", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

func (s *Server) logNotification(channel, payload string) {
	middleware.Logger.Debug("notification published",
		slog.String("channel", channel),
		slog.Int("bytes", len(payload)),
	)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
