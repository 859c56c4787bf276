package storage

import "context"

// ImageUploader stores an image given as a base64 data URI under folder and
// returns its durable public URL.
type ImageUploader interface {
	Upload(ctx context.Context, dataURI, folder string) (string, error)
}
