package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/nexium/recipe-service/internal/imageutil"
)

// S3Uploader handles uploading images to S3-compatible storage
type S3Uploader struct {
	s3Client      *s3.S3
	bucket        string
	publicBaseURL string
	newKey        func(folder, ext string) string
}

// Config holds configuration for S3 uploader
type Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
	// PublicBaseURL prefixes object keys in returned URLs; defaults to Endpoint/Bucket
	PublicBaseURL string
}

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(config *Config) (*S3Uploader, error) {
	if config.Endpoint == "" || config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(config.Region),
		Endpoint:         aws.String(config.Endpoint),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	publicBaseURL := config.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = strings.TrimRight(config.Endpoint, "/") + "/" + config.Bucket
	}

	return &S3Uploader{
		s3Client:      s3.New(sess),
		bucket:        config.Bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		newKey: func(folder, ext string) string {
			return path.Join(folder, uuid.NewString()+ext)
		},
	}, nil
}

// Upload decodes the data URI, stores it under folder and returns the public URL
func (u *S3Uploader) Upload(ctx context.Context, dataURI, folder string) (string, error) {
	mimeType, data, err := imageutil.ParseDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := u.newKey(folder, imageutil.ExtensionFor(mimeType))
	_, err = u.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return u.publicBaseURL + "/" + key, nil
}
