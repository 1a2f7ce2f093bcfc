// Package server contains the HTTP handlers for the alumni network API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "alumnet/docs" // swagger docs
	"alumnet/internal/auth"
	"alumnet/internal/cache"
	"alumnet/internal/config"
	"alumnet/internal/database"
	"alumnet/internal/middleware"
	"alumnet/internal/models"
	"alumnet/internal/repository"
	"alumnet/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.TokenService

	authService         *service.AuthService
	userService         *service.UserService
	verificationService *service.VerificationService
	connectionService   *service.ConnectionService
	eventService        *service.EventService
	postService         *service.PostService
	messageService      *service.MessageService
	jobService          *service.JobService
	donationService     *service.DonationService
}

// NewServer connects to the database and Redis and builds a server on them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis. A nil
// Redis client disables token revocation and per-route rate limits.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and database are required")
	}

	logger := middleware.Logger
	models.ExposeErrorDetails = !cfg.IsProduction()

	ttl := time.Duration(cfg.JWTTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	tokens := auth.NewTokenService(cfg.JWTSecret, ttl, auth.NewRedisRevocationStore(redisClient), logger)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	userRepo := repository.NewUserRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	eventRepo := repository.NewEventRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	jobRepo := repository.NewJobRepository(db)
	donationRepo := repository.NewDonationRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("alumnet-api"),
		tokens:         tokens,

		authService:         service.NewAuthService(userRepo, hasher, tokens, logger),
		userService:         service.NewUserService(userRepo),
		verificationService: service.NewVerificationService(verificationRepo, logger),
		connectionService:   service.NewConnectionService(connectionRepo, userRepo),
		eventService:        service.NewEventService(eventRepo),
		postService:         service.NewPostService(postRepo, commentRepo),
		messageService:      service.NewMessageService(messageRepo, userRepo, logger),
		jobService:          service.NewJobService(jobRepo),
		donationService:     service.NewDonationService(donationRepo, logger),
	}, nil
}

// JobService exposes the job board service for the expiry scheduler.
func (s *Server) JobService() *service.JobService {
	return s.jobService
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "AlumNet API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				if fe.Code == fiber.StatusNotFound {
					return respondError(c, &models.AppError{Code: models.CodeNotFound, Message: "Route not found"})
				}
				if fe.Code < fiber.StatusInternalServerError {
					return c.Status(fe.Code).JSON(models.Envelope{Success: false, Message: fe.Message})
				}
			}
			return respondError(c, models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS must run before the limiter so browser clients still receive CORS
	// headers on 429 responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.Envelope{
				Success: false,
				Message: "Too many requests, please try again later",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	api := app.Group("/api")
	api.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "AlumNet Backend Metrics"}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	authed := middleware.AuthRequired(s.tokens)
	admin := middleware.RequireRoles(models.RoleAdmin)
	reviewers := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Post("/logout", authed, s.Logout)
	authGroup.Get("/me", authed, s.Me)
	authGroup.Post("/admin/register", authed, admin, s.RegisterPrivileged)

	protected := api.Group("", authed)

	users := protected.Group("/users")
	users.Get("/", s.GetUsers)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)

	verification := protected.Group("/verification", reviewers)
	verification.Get("/pending", s.GetPendingVerifications)
	verification.Get("/stats", s.GetVerificationStats)
	verification.Post("/:id/approve", s.ApproveVerification)
	verification.Post("/:id/reject", s.RejectVerification)

	// Specific routes before generic /:id routes
	connections := protected.Group("/connections")
	connections.Post("/", middleware.RateLimit(s.redis, 20, 5*time.Minute, "connection_request"), s.RequestConnection)
	connections.Get("/", s.GetConnections)
	connections.Get("/pending", s.GetPendingConnections)
	connections.Get("/suggestions", s.GetConnectionSuggestions)
	connections.Put("/:id/respond", s.RespondConnection)

	events := protected.Group("/events")
	events.Post("/", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), s.CreateEvent)
	events.Get("/", s.GetEvents)
	events.Post("/:id/rsvp", s.RSVPEvent)
	events.Get("/:id/attendees", s.GetEventAttendees)
	events.Get("/:id", s.GetEvent)
	events.Put("/:id", s.UpdateEvent)
	events.Delete("/:id", s.DeleteEvent)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/", s.GetPosts)
	posts.Get("/mine", s.GetMyPosts)
	posts.Post("/:id/like", s.ToggleLike)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	messages := protected.Group("/messages")
	messages.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "send_message"), s.SendMessage)
	messages.Get("/conversations", s.GetConversations)
	messages.Get("/with/:userId", s.GetThread)

	jobs := protected.Group("/jobs")
	jobs.Post("/", middleware.RequireRoles(models.RoleAlumni, models.RoleTeacher, models.RoleAdmin), s.CreateJob)
	jobs.Get("/", s.GetJobs)
	jobs.Get("/categories", s.GetJobCategories)
	jobs.Get("/:id", s.GetJob)
	jobs.Put("/:id", s.UpdateJob)
	jobs.Delete("/:id", s.DeleteJob)

	donations := protected.Group("/donations")
	donations.Post("/", s.Donate)
	donations.Get("/mine", s.GetMyDonations)
	donations.Get("/funds", s.GetFundSummary)
	donations.Post("/expenses", admin, s.RecordExpense)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: an
// unreachable Redis degrades logout and rate limiting but keeps the API up.
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

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	} else if redisStatus != "healthy" {
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
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

	middleware.Logger.Info("server shutdown complete")
	return nil
}
