package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/nexium/recipe-service/docs"
	"github.com/nexium/recipe-service/internal/config"
	"github.com/nexium/recipe-service/internal/database"
	"github.com/nexium/recipe-service/internal/handler"
	"github.com/nexium/recipe-service/internal/identity"
	"github.com/nexium/recipe-service/internal/imagegen"
	"github.com/nexium/recipe-service/internal/logging"
	"github.com/nexium/recipe-service/internal/metrics"
	"github.com/nexium/recipe-service/internal/middleware"
	"github.com/nexium/recipe-service/internal/n8n"
	"github.com/nexium/recipe-service/internal/repository"
	"github.com/nexium/recipe-service/internal/server"
	"github.com/nexium/recipe-service/internal/service"
	"github.com/nexium/recipe-service/internal/storage"
)

// tokenLeeway absorbs clock skew between this host and the identity provider
const tokenLeeway = 5 * time.Second

// @title Recipe Service API
// @version 1.0
// @description Recipe generation backend: users, recipes, image generation and uploads.
// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.SetupDefault(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.db.Close(closeCtx); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()
	logger.Info("connected to database", "backend", cfg.StoreBackend)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Identity
	clerk.SetKey(cfg.ClerkSecretKey)
	jwksClient := identity.NewJWKSClient(cfg.ClerkSecretKey, cfg.ClerkAPIURL, nil)
	resolver := identity.NewResolver(
		identity.NewSessionStrategy(),
		identity.NewBearerStrategy(identity.NewClerkKeySource(jwksClient), identity.BearerConfig{Leeway: tokenLeeway}),
	)

	// Images
	uploader, err := newUploader(cfg)
	if err != nil {
		logger.Warn("image store unavailable, uploads will fail", "store", cfg.ImageStore, "error", err)
	}

	var generator imagegen.ContentGenerator
	if gemini, err := imagegen.NewGeminiClient(cfg.GeminiAPIKey); err != nil {
		logger.Warn("image generation disabled", "error", err)
	} else {
		generator = gemini
	}

	pipeline := imagegen.NewPipeline(generator, uploader, imagegen.Config{
		Model: cfg.GeminiModel,
		Folders: imagegen.Folders{
			Generated: cfg.ImageFolderGenerated,
			Edited:    cfg.ImageFolderEdited,
			Uploads:   cfg.ImageFolderUploads,
		},
	}).WithRecorder(collector)

	workflow := n8n.NewClient(&n8n.Config{
		PingURL:   cfg.N8NPingURL,
		RecipeURL: cfg.N8NRecipeURL,
		Timeout:   cfg.N8NTimeout,
	}).WithRecorder(collector)

	// Services
	userService := service.NewUserService(store.users, identity.NewClerkProfileFetcher())
	recipeService := service.NewRecipeService(store.recipes, workflow, pipeline, cfg.ImageMaxWorkers)

	appServer := server.NewServer(cfg, server.Handlers{
		System: handler.NewSystemHandler(store.db),
		User:   handler.NewUserHandler(userService),
		Recipe: handler.NewRecipeHandler(recipeService),
	}, server.Options{
		Resolver:       resolver,
		Session:        middleware.ClerkSession(jwksClient, tokenLeeway),
		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),
		Logger:         logger,
	})

	if err := appServer.Start(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

type storeConn interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type store struct {
	db      storeConn
	users   repository.UserRepository
	recipes repository.RecipeRepository
}

// openStore connects the configured backend and builds its repositories
func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	if cfg.StoreBackend == config.StorePostgres {
		pg, err := database.NewPostgresDB(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return &store{
			db:      pg,
			users:   repository.NewPostgresUserRepository(pg.GetPool()),
			recipes: repository.NewPostgresRecipeRepository(pg.GetPool()),
		}, nil
	}

	mongoDB, err := database.NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if err := mongoDB.EnsureIndexes(ctx); err != nil {
		slog.Warn("failed to ensure mongo indexes", "error", err)
	}
	return &store{
		db:      mongoDB,
		users:   repository.NewMongoUserRepository(mongoDB.Collection(database.UsersCollection)),
		recipes: repository.NewMongoRecipeRepository(mongoDB.Collection(database.RecipesCollection)),
	}, nil
}

// newUploader builds the configured image store
func newUploader(cfg *config.Config) (storage.ImageUploader, error) {
	if cfg.ImageStore == config.ImageStoreS3 {
		s3Uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return s3Uploader, nil
	}

	cdn, err := storage.NewCloudinaryUploader(storage.CloudinaryConfig{
		CloudName: cfg.CloudinaryName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
	})
	if err != nil {
		return nil, err
	}
	return cdn, nil
}
