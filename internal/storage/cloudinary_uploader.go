package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryUploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader uploads images to the Cloudinary CDN
type CloudinaryUploader struct {
	api cloudinaryUploadAPI
}

// CloudinaryConfig holds Cloudinary account credentials
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// NewCloudinaryUploader creates an uploader for the given account
func NewCloudinaryUploader(config CloudinaryConfig) (*CloudinaryUploader, error) {
	if config.CloudName == "" || config.APIKey == "" || config.APISecret == "" {
		return nil, fmt.Errorf("cloudinary configuration is incomplete")
	}

	cld, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &CloudinaryUploader{api: &cld.Upload}, nil
}

// Upload sends the data URI to Cloudinary and returns the secure URL
func (u *CloudinaryUploader) Upload(ctx context.Context, dataURI, folder string) (string, error) {
	res, err := u.api.Upload(ctx, dataURI, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if res == nil {
		return "", fmt.Errorf("cloudinary returned no upload result")
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no secure URL")
	}

	return res.SecureURL, nil
}
