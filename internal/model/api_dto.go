package model

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error" example:"Recipe not found"`
}

// UploadImageRequest carries a base64 image data URI
type UploadImageRequest struct {
	Image string `json:"image" example:"data:image/png;base64,iVBORw0KGgo="`
}

// UploadImageResponse carries the hosted image URL
type UploadImageResponse struct {
	ImageURL string `json:"imageUrl" example:"https://res.cloudinary.com/demo/image/upload/v1/user-uploads/abc.png"`
}

// HealthResponse reports service health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database,omitempty" example:"ok"`
}

// CreateRecipeRequest documents the body forwarded to the workflow engine.
// The body is passed through verbatim; fields beyond these are preserved.
type CreateRecipeRequest struct {
	Type    string         `json:"type" example:"ingredients" enums:"random,image,ingredients"`
	Content map[string]any `json:"content" swaggertype:"object"`
}
