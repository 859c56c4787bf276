package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGO_DB_URI", "mongodb://localhost:27017")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreBackend)
	assert.Equal(t, ImageStoreCloudinary, cfg.ImageStore)
	assert.Equal(t, "gemini-2.0-flash-preview-image-generation", cfg.GeminiModel)
	assert.Equal(t, "gemini-generated-images", cfg.ImageFolderGenerated)
	assert.Equal(t, "gemini-edited-images", cfg.ImageFolderEdited)
	assert.Equal(t, 120*time.Second, cfg.N8NTimeout)
	assert.Equal(t, 4, cfg.ImageMaxWorkers)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://localhost:9002",
		"https://nexium-saad-assign2.vercel.app",
	}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("POSTGRES_DB_URL", "postgres://localhost/recipes")
	t.Setenv("PORT", "8081")
	t.Setenv("IMAGE_STORE", "s3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	assert.Equal(t, ImageStoreS3, cfg.ImageStore)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing mongo uri",
			env:  map[string]string{"MONGO_DB_URI": ""},
			want: "MONGO_DB_URI is required",
		},
		{
			name: "unknown backend",
			env:  map[string]string{"STORE_BACKEND": "sqlite"},
			want: `unknown STORE_BACKEND "sqlite"`,
		},
		{
			name: "unknown image store",
			env:  map[string]string{"MONGO_DB_URI": "mongodb://x", "IMAGE_STORE": "ftp"},
			want: `unknown IMAGE_STORE "ftp"`,
		},
		{
			name: "port out of range",
			env:  map[string]string{"MONGO_DB_URI": "mongodb://x", "PORT": "70000"},
			want: "PORT 70000 is out of range",
		},
		{
			name: "no image workers",
			env:  map[string]string{"MONGO_DB_URI": "mongodb://x", "IMAGE_MAX_WORKERS": "0"},
			want: "IMAGE_MAX_WORKERS must be at least 1",
		},
		{
			name: "malformed port",
			env:  map[string]string{"PORT": "abc"},
			want: "failed to load environment variables",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
