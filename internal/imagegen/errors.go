package imagegen

import "errors"

var (
	// ErrNoImage is returned when the model answered without an image part
	ErrNoImage = errors.New("no image data found in model response")
	// ErrMissingAPIKey is returned when the model client is built without credentials
	ErrMissingAPIKey = errors.New("gemini API key is required")
	// ErrNoUploader is returned when no image store is configured
	ErrNoUploader = errors.New("image store is not configured")
)

// GenerationError represents a failure to obtain an image from the model
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "image generation error: " + e.Op
	}
	return "image generation error: " + e.Op + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// UploadError represents a CDN rejection or transport failure while storing an image
type UploadError struct {
	Op  string
	Err error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return "image upload error: " + e.Op
	}
	return "image upload error: " + e.Op + ": " + e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
