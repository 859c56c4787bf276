package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nexium/recipe-service/internal/config"
	"github.com/nexium/recipe-service/internal/handler"
	"github.com/nexium/recipe-service/internal/middleware"
)

// Handlers groups the route handlers the server mounts
type Handlers struct {
	System *handler.SystemHandler
	User   *handler.UserHandler
	Recipe *handler.RecipeHandler
}

// Options carries the collaborators the router needs beyond handlers
type Options struct {
	// Resolver identifies the caller on protected routes
	Resolver middleware.IdentityResolver
	// Session runs before identity resolution, typically Clerk's header verification
	Session gin.HandlerFunc
	// Metrics records per-route request metrics; MetricsHandler serves /metrics
	Metrics        middleware.RequestRecorder
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// Server represents the HTTP server for the recipe service
type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	rateLimiter *middleware.RateLimiter
	config      *config.Config
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config, handlers Handlers, opts Options) *Server {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.RequestResponseLogger(middleware.LoggerConfig{
		Logger:    opts.Logger,
		LogBodies: cfg.LogLevel == "debug",
	}))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}

	server := &Server{
		router: router,
		config: cfg,
		rateLimiter: middleware.NewRateLimiter(middleware.RateLimiterConfig{
			PerMinute: cfg.RateLimitPerMinute,
			Burst:     cfg.RateLimitBurst,
		}),
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	server.setupRoutes(handlers, opts)

	return server
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes(h Handlers, opts Options) {
	s.router.GET("/", h.System.Welcome)
	s.router.GET("/health", h.System.Health)

	if opts.MetricsHandler != nil {
		s.router.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	// Swagger UI at /api-docs/index.html
	s.router.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})

	api := s.router.Group("/api")
	if opts.Session != nil {
		api.Use(opts.Session)
	}

	requireAuth := middleware.AuthMiddleware(opts.Resolver)
	optionalAuth := middleware.OptionalAuthMiddleware(opts.Resolver)
	throttle := s.rateLimiter.Middleware()

	users := api.Group("/users", requireAuth)
	{
		users.GET("/me", h.User.GetCurrentUser)
		users.POST("", h.User.CreateUser)
	}

	recipes := api.Group("/recipes")
	{
		recipes.GET("", requireAuth, h.Recipe.ListRecipes)
		recipes.GET("/:id", h.Recipe.GetRecipe)
		recipes.POST("", optionalAuth, throttle, h.Recipe.CreateRecipe)
	}

	api.POST("/upload-image", requireAuth, throttle, h.Recipe.UploadImage)
	api.GET("/n8n", h.Recipe.PingWorkflow)
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		s.rateLimiter.Stop()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server")
	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
