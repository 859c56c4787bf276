package imagegen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/nexium/recipe-service/internal/domain"
	"github.com/nexium/recipe-service/internal/imageutil"
)

type fakeGenerator struct {
	resp        *genai.GenerateContentResponse
	err         error
	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
	calls       int
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	return f.resp, f.err
}

type fakeUploader struct {
	url       string
	err       error
	calls     int
	gotURI    string
	gotFolder string
}

func (f *fakeUploader) Upload(_ context.Context, dataURI, folder string) (string, error) {
	f.calls++
	f.gotURI = dataURI
	f.gotFolder = folder
	return f.url, f.err
}

type countingRecorder struct {
	generations map[string]int
	uploads     map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{generations: map[string]int{}, uploads: map[string]int{}}
}

func (r *countingRecorder) RecordImageGeneration(o string) { r.generations[o]++ }
func (r *countingRecorder) RecordImageUpload(o string)     { r.uploads[o]++ }

var testConfig = Config{
	Model: "gemini-test",
	Folders: Folders{
		Generated: "gemini-generated-images",
		Edited:    "gemini-edited-images",
		Uploads:   "user-uploads",
	},
}

func response(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: genai.RoleModel, Parts: parts},
	}}}
}

func imagePart(mime string, data []byte) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: data}}
}

func TestPipeline_Generate(t *testing.T) {
	gen := &fakeGenerator{resp: response(imagePart("image/png", []byte("png-bytes")))}
	up := &fakeUploader{url: "https://cdn.example.com/soup.png"}
	rec := newCountingRecorder()
	p := NewPipeline(gen, up, testConfig).WithRecorder(rec)

	url, err := p.Generate(context.Background(), "a bowl of tomato soup")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/soup.png", url)

	assert.Equal(t, "gemini-test", gen.gotModel)
	assert.Equal(t, []string{"TEXT", "IMAGE"}, gen.gotConfig.ResponseModalities)
	require.Len(t, gen.gotContents, 1)
	assert.Equal(t, "a bowl of tomato soup", gen.gotContents[0].Parts[0].Text)

	assert.Equal(t, imageutil.EncodeDataURI("image/png", []byte("png-bytes")), up.gotURI)
	assert.Equal(t, "gemini-generated-images", up.gotFolder)
	assert.Equal(t, 1, rec.generations[OutcomeSuccess])
	assert.Equal(t, 1, rec.uploads[OutcomeSuccess])
}

func TestPipeline_Generate_PicksFirstImageAfterNonImageParts(t *testing.T) {
	gen := &fakeGenerator{resp: response(
		genai.NewPartFromText("Here is your image"),
		&genai.Part{InlineData: &genai.Blob{MIMEType: "application/json", Data: []byte("{}")}},
		imagePart("image/jpeg", []byte("first")),
		imagePart("image/png", []byte("second")),
	)}
	up := &fakeUploader{url: "https://cdn.example.com/x.jpg"}

	_, err := NewPipeline(gen, up, testConfig).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, imageutil.EncodeDataURI("image/jpeg", []byte("first")), up.gotURI)
}

func TestPipeline_Generate_NoImagePart(t *testing.T) {
	responses := map[string]*genai.GenerateContentResponse{
		"text only":     response(genai.NewPartFromText("I cannot draw that")),
		"non image":     response(&genai.Part{InlineData: &genai.Blob{MIMEType: "audio/wav", Data: []byte("x")}}),
		"no candidates": {},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
		"empty payload": response(imagePart("image/png", nil)),
	}

	for name, resp := range responses {
		t.Run(name, func(t *testing.T) {
			up := &fakeUploader{url: "unused"}
			rec := newCountingRecorder()
			p := NewPipeline(&fakeGenerator{resp: resp}, up, testConfig).WithRecorder(rec)

			_, err := p.Generate(context.Background(), "prompt")

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.ErrorIs(t, err, ErrNoImage)
			assert.Equal(t, 0, up.calls, "no upload may happen without an image")
			assert.Equal(t, 1, rec.generations[OutcomeNoImage])
		})
	}
}

func TestPipeline_Generate_ModelError(t *testing.T) {
	boom := errors.New("quota exceeded")
	up := &fakeUploader{}
	_, err := NewPipeline(&fakeGenerator{err: boom}, up, testConfig).Generate(context.Background(), "prompt")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, up.calls)
}

func TestPipeline_Generate_NoGenerator(t *testing.T) {
	_, err := NewPipeline(nil, &fakeUploader{}, testConfig).Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestPipeline_Generate_UploadError(t *testing.T) {
	gen := &fakeGenerator{resp: response(imagePart("image/png", []byte("x")))}
	up := &fakeUploader{err: errors.New("cloudinary rejected upload: Invalid image file")}
	rec := newCountingRecorder()

	_, err := NewPipeline(gen, up, testConfig).WithRecorder(rec).Generate(context.Background(), "prompt")

	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "generate", upErr.Op)
	assert.Equal(t, 1, rec.uploads[OutcomeError])
}

func TestPipeline_GenerateFromImage(t *testing.T) {
	gen := &fakeGenerator{resp: response(imagePart("image/png", []byte("edited")))}
	up := &fakeUploader{url: "https://cdn.example.com/edited.png"}
	input := imageutil.EncodeDataURI("image/heic", []byte("raw-photo"))

	url, err := NewPipeline(gen, up, testConfig).GenerateFromImage(context.Background(), "plate this nicely", input)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/edited.png", url)
	assert.Equal(t, "gemini-edited-images", up.gotFolder)

	require.Len(t, gen.gotContents, 1)
	parts := gen.gotContents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "plate this nicely", parts[0].Text)
	assert.Equal(t, "image/heic", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte("raw-photo"), parts[1].InlineData.Data)
}

func TestPipeline_GenerateFromImage_BadInput(t *testing.T) {
	gen := &fakeGenerator{}
	_, err := NewPipeline(gen, &fakeUploader{}, testConfig).GenerateFromImage(context.Background(), "p", "not a data uri")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 0, gen.calls)
}

func TestPipeline_UploadRaw(t *testing.T) {
	gen := &fakeGenerator{}
	up := &fakeUploader{url: "https://cdn.example.com/photo.jpg"}
	uri := imageutil.EncodeDataURI("image/jpeg", []byte("photo"))

	url, err := NewPipeline(gen, up, testConfig).UploadRaw(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/photo.jpg", url)
	assert.Equal(t, uri, up.gotURI)
	assert.Equal(t, "user-uploads", up.gotFolder)
	assert.Equal(t, 0, gen.calls)
}

func TestPipeline_UploadRaw_Invalid(t *testing.T) {
	up := &fakeUploader{}
	p := NewPipeline(nil, up, testConfig)

	_, err := p.UploadRaw(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = p.UploadRaw(context.Background(), imageutil.EncodeDataURI("text/plain", []byte("hi")))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, up.calls)
}

func TestPipeline_UploadRaw_UploadError(t *testing.T) {
	up := &fakeUploader{err: errors.New("503")}
	_, err := NewPipeline(nil, up, testConfig).UploadRaw(context.Background(), imageutil.EncodeDataURI("image/png", []byte("x")))

	var upErr *UploadError
	assert.ErrorAs(t, err, &upErr)
}

func TestPipeline_UploadRaw_NoStore(t *testing.T) {
	_, err := NewPipeline(nil, nil, testConfig).UploadRaw(context.Background(), imageutil.EncodeDataURI("image/png", []byte("x")))

	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.ErrorIs(t, err, ErrNoUploader)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	c, err := NewGeminiClient("key")
	require.NoError(t, err)
	assert.NotNil(t, c)
}
