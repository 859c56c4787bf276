package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store backends
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Image stores
const (
	ImageStoreCloudinary = "cloudinary"
	ImageStoreS3         = "s3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port               int           `envconfig:"PORT" default:"5000"`
	ReadTimeout        time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout       time.Duration `envconfig:"WRITE_TIMEOUT" default:"120s"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:9002,https://nexium-saad-assign2.vercel.app"`
	LogFormat          string        `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"20"`
	RateLimitBurst     int           `envconfig:"RATE_LIMIT_BURST" default:"5"`

	// Persistence
	StoreBackend  string `envconfig:"STORE_BACKEND" default:"mongo"`
	MongoURI      string `envconfig:"MONGO_DB_URI"`
	MongoDatabase string `envconfig:"MONGO_DB_NAME" default:"recipes"`
	PostgresURL   string `envconfig:"POSTGRES_DB_URL"`

	// Identity provider
	ClerkPublishableKey string `envconfig:"CLERK_PUBLISHABLE_KEY"`
	ClerkSecretKey      string `envconfig:"CLERK_SECRET_KEY"`
	ClerkAPIURL         string `envconfig:"CLERK_API_URL"`

	// Workflow engine
	N8NPingURL   string        `envconfig:"N8N_WEBHOOK_URL_PING"`
	N8NRecipeURL string        `envconfig:"N8N_WEBHOOK_URL_RECIPE_URL"`
	N8NTimeout   time.Duration `envconfig:"N8N_TIMEOUT" default:"120s"`

	// Generative image model
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash-preview-image-generation"`

	// ImageMaxWorkers bounds concurrent image generations
	ImageMaxWorkers int `envconfig:"IMAGE_MAX_WORKERS" default:"4"`

	// Image storage
	ImageStore           string `envconfig:"IMAGE_STORE" default:"cloudinary"`
	CloudinaryName       string `envconfig:"CLOUDINARY_NAME"`
	CloudinaryAPIKey     string `envconfig:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret  string `envconfig:"CLOUDINARY_API_SECRET"`
	ImageFolderGenerated string `envconfig:"IMAGE_FOLDER_GENERATED" default:"gemini-generated-images"`
	ImageFolderEdited    string `envconfig:"IMAGE_FOLDER_EDITED" default:"gemini-edited-images"`
	ImageFolderUploads   string `envconfig:"IMAGE_FOLDER_UPLOADS" default:"user-uploads"`
	S3Endpoint           string `envconfig:"S3_ENDPOINT"`
	S3AccessKeyID        string `envconfig:"S3_ACCESS_KEY_ID"`
	S3AccessKeySecret    string `envconfig:"S3_ACCESS_KEY_SECRET"`
	S3Bucket             string `envconfig:"S3_BUCKET" default:"recipe-images"`
	S3Region             string `envconfig:"S3_REGION" default:"us-east-1"`
	S3PublicBaseURL      string `envconfig:"S3_PUBLIC_BASE_URL"`
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv loads a .env file next to the binary's project root, falling back to the working directory.
func loadDotEnv() {
	execPath, err := os.Executable()
	if err != nil {
		slog.Warn("could not determine executable path", "error", err)
	}

	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err == nil {
		slog.Info("loaded environment variables", "path", envPath)
		return
	}
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
		return
	}
	slog.Info("loaded environment variables from current directory .env file")
}

// validateConfig rejects structurally invalid values and warns about missing collaborator credentials
func validateConfig(cfg *Config) error {
	var problems []string

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	switch cfg.StoreBackend {
	case StoreMongo:
		if cfg.MongoURI == "" {
			problems = append(problems, "MONGO_DB_URI is required when STORE_BACKEND=mongo")
		}
	case StorePostgres:
		if cfg.PostgresURL == "" {
			problems = append(problems, "POSTGRES_DB_URL is required when STORE_BACKEND=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown STORE_BACKEND %q", cfg.StoreBackend))
	}

	cfg.ImageStore = strings.ToLower(strings.TrimSpace(cfg.ImageStore))
	switch cfg.ImageStore {
	case ImageStoreCloudinary:
		if cfg.CloudinaryName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			slog.Warn("cloudinary credentials are incomplete, image uploads will fail")
		}
	case ImageStoreS3:
		if cfg.S3Endpoint == "" || cfg.S3AccessKeyID == "" || cfg.S3AccessKeySecret == "" {
			slog.Warn("S3 credentials are incomplete, image uploads will fail")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown IMAGE_STORE %q", cfg.ImageStore))
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d is out of range", cfg.Port))
	}

	if cfg.ImageMaxWorkers < 1 {
		problems = append(problems, fmt.Sprintf("IMAGE_MAX_WORKERS must be at least 1, got %d", cfg.ImageMaxWorkers))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}

	if cfg.GeminiAPIKey == "" {
		slog.Warn("no Gemini API key provided, image generation will fail")
	}
	if cfg.ClerkSecretKey == "" {
		slog.Warn("no Clerk secret key provided, session authentication and profile lookup will fail")
	}
	if cfg.N8NRecipeURL == "" {
		slog.Warn("no n8n recipe webhook configured, recipe creation will fail")
	}

	return nil
}
