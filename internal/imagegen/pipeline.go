// Package imagegen turns prompts into hosted images: it asks the generative model
// for an image, extracts the inline image part and uploads it to the image store.
package imagegen

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/nexium/recipe-service/internal/domain"
	"github.com/nexium/recipe-service/internal/imageutil"
	"github.com/nexium/recipe-service/internal/storage"
)

// Outcome labels passed to the Recorder
const (
	OutcomeSuccess = "success"
	OutcomeNoImage = "no_image"
	OutcomeError   = "error"
)

// Recorder receives pipeline outcomes for metrics
type Recorder interface {
	RecordImageGeneration(outcome string)
	RecordImageUpload(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordImageGeneration(string) {}
func (nopRecorder) RecordImageUpload(string)     {}

// Folders names the image store folders for each kind of image
type Folders struct {
	Generated string
	Edited    string
	Uploads   string
}

// Config holds pipeline settings
type Config struct {
	Model   string
	Folders Folders
}

// Pipeline generates and uploads images
type Pipeline struct {
	generator ContentGenerator
	uploader  storage.ImageUploader
	config    Config
	recorder  Recorder
}

// NewPipeline creates a pipeline. A nil generator makes every generation fail
// with ErrMissingAPIKey while raw uploads keep working.
func NewPipeline(generator ContentGenerator, uploader storage.ImageUploader, config Config) *Pipeline {
	return &Pipeline{
		generator: generator,
		uploader:  uploader,
		config:    config,
		recorder:  nopRecorder{},
	}
}

// WithRecorder sets the metrics recorder
func (p *Pipeline) WithRecorder(r Recorder) *Pipeline {
	if r != nil {
		p.recorder = r
	}
	return p
}

// Generate produces an image for prompt and returns its hosted URL
func (p *Pipeline) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return p.generateAndUpload(ctx, "generate", contents, p.config.Folders.Generated)
}

// GenerateFromImage produces an image from prompt and an input image given as a data URI
func (p *Pipeline) GenerateFromImage(ctx context.Context, prompt, inputDataURI string) (string, error) {
	mimeType, data, err := imageutil.ParseDataURI(inputDataURI)
	if err != nil {
		return "", &GenerationError{Op: "edit", Err: err}
	}

	data, mimeType, err = imageutil.Downscale(data, mimeType, nil)
	if err != nil {
		return "", &GenerationError{Op: "edit", Err: err}
	}

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(data, mimeType),
	}, genai.RoleUser)}
	return p.generateAndUpload(ctx, "edit", contents, p.config.Folders.Edited)
}

// UploadRaw stores a user supplied data URI without any generation step.
// Payloads that are not base64 image data URIs fail with domain.ErrValidation.
func (p *Pipeline) UploadRaw(ctx context.Context, dataURI string) (string, error) {
	mimeType, _, err := imageutil.ParseDataURI(dataURI)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if !imageutil.IsImageMIME(mimeType) {
		return "", fmt.Errorf("%w: unsupported media type %q", domain.ErrValidation, mimeType)
	}
	return p.upload(ctx, "upload", dataURI, p.config.Folders.Uploads)
}

func (p *Pipeline) generateAndUpload(ctx context.Context, op string, contents []*genai.Content, folder string) (string, error) {
	if p.generator == nil {
		p.recorder.RecordImageGeneration(OutcomeError)
		return "", &GenerationError{Op: op, Err: ErrMissingAPIKey}
	}

	resp, err := p.generator.GenerateContent(ctx, p.config.Model, contents, &genai.GenerateContentConfig{
		// the model rejects image-only requests
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		p.recorder.RecordImageGeneration(OutcomeError)
		return "", &GenerationError{Op: op, Err: err}
	}

	dataURI, ok := ExtractImageDataURI(resp)
	if !ok {
		p.recorder.RecordImageGeneration(OutcomeNoImage)
		slog.WarnContext(ctx, "model returned no image part", "op", op)
		return "", &GenerationError{Op: op, Err: ErrNoImage}
	}
	p.recorder.RecordImageGeneration(OutcomeSuccess)

	return p.upload(ctx, op, dataURI, folder)
}

func (p *Pipeline) upload(ctx context.Context, op, dataURI, folder string) (string, error) {
	if p.uploader == nil {
		p.recorder.RecordImageUpload(OutcomeError)
		return "", &UploadError{Op: op, Err: ErrNoUploader}
	}
	url, err := p.uploader.Upload(ctx, dataURI, folder)
	if err != nil {
		p.recorder.RecordImageUpload(OutcomeError)
		return "", &UploadError{Op: op, Err: err}
	}
	p.recorder.RecordImageUpload(OutcomeSuccess)
	slog.InfoContext(ctx, "image uploaded", "op", op, "folder", folder, "url", url)
	return url, nil
}

// ExtractImageDataURI scans the first candidate's parts in order and returns
// the first inline part with an image media type as a data URI.
func ExtractImageDataURI(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return "", false
	}
	for _, part := range cand.Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		if imageutil.IsImageMIME(part.InlineData.MIMEType) && len(part.InlineData.Data) > 0 {
			return imageutil.EncodeDataURI(part.InlineData.MIMEType, part.InlineData.Data), true
		}
	}
	return "", false
}
