// Package server contains the HTTP routing table and page handlers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/render"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config   *config.Config
	db       *gorm.DB
	redis    *redis.Client
	app      *fiber.App
	sessions *auth.Sessions
	renderer render.Renderer

	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository

	feeds    *service.FeedService
	posts    *service.PostService
	comments *service.CommentService
}

// NewServer creates a server instance, establishing the database and the
// optional Redis connection from configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	}

	return NewServerWithDeps(cfg, db, redisClient), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	return &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		sessions:    auth.NewSessions(cfg.JWTSecret, redisClient),
		renderer:    render.ContextRenderer{},
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		feeds:       service.NewFeedService(postRepo, groupRepo, userRepo, commentRepo),
		posts:       service.NewPostService(postRepo, groupRepo),
		comments:    service.NewCommentService(commentRepo, postRepo),
	}
}

// SetRenderer swaps in a presentation collaborator. The default renderer
// emits the raw page context.
func (s *Server) SetRenderer(r render.Renderer) {
	s.renderer = r
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(fiberrecover.New())
	app.Use(helmet.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())
}

// SetupRoutes configures the routing table. Each entry binds (method, path
// pattern) to a handler; path parameters are bound by pattern, and write
// routes carry the explicit authentication guard.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	app.Get("/auth/login", s.LoginForm)
	app.Post("/auth/login", s.Login)
	app.Get("/auth/signup", s.SignupForm)
	app.Post("/auth/signup", s.Signup)
	app.Post("/auth/logout", s.RequireUser(), s.Logout)

	app.Get("/", s.Index)
	app.Get("/group/:slug", s.GroupPosts)
	app.Get("/profile/:username", s.Profile)

	app.Get("/create", s.RequireUser(), s.PostCreateForm)
	app.Post("/create", s.RequireUser(), s.PostCreate)

	// Specific /:id/:action routes before the generic /:id route.
	app.Get("/posts/:id/edit", s.RequireUser(), s.PostEditForm)
	app.Post("/posts/:id/edit", s.RequireUser(), s.PostEdit)
	app.Post("/posts/:id/comment", s.RequireUser(), s.AddComment)
	app.Get("/posts/:id", s.PostDetail)

	// Any unmatched path renders the not-found page, never a server error.
	app.Use(func(c *fiber.Ctx) error {
		return s.renderNotFound(c)
	})
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": dbStatus,
		"checks": fiber.Map{
			"database": dbStatus,
		},
		"time": time.Now(),
	})
}

// RequireUser returns the authentication guard for write routes. Callers
// without a valid session are redirected to the login page with the original
// path preserved.
func (s *Server) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := s.currentIdentity(c)
		if !ok {
			return c.Redirect("/auth/login?next="+c.Path(), fiber.StatusFound)
		}

		c.Locals("userID", identity.UserID)
		c.Locals("username", identity.Username)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, identity.UserID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// currentIdentity resolves the caller from the session cookie (or a bearer
// header) without enforcing authentication.
func (s *Server) currentIdentity(c *fiber.Ctx) (*auth.Identity, bool) {
	token := c.Cookies(auth.SessionCookie)
	if token == "" {
		header := c.Get("Authorization")
		const prefix = "Bearer "
		if len(header) > len(prefix) && header[:len(prefix)] == prefix {
			token = header[len(prefix):]
		}
	}
	if token == "" {
		return nil, false
	}

	identity, err := s.sessions.Verify(c.Context(), token)
	if err != nil {
		return nil, false
	}
	return identity, true
}

// Start starts the server.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Quill",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				slog.String("error", err.Error()))
			c.Status(fiber.StatusInternalServerError)
			return s.renderer.Render(c, "500", fiber.Map{
				"error": models.NewInternalError(err).Message,
			})
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
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

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
