package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension is the default bound for the longer image side
const DefaultMaxDimension = 1024

// ResizeConfig holds configuration for image resizing
type ResizeConfig struct {
	MaxDimension int // Maximum width or height (default 1024)
	Quality      int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default resize configuration
func DefaultConfig() *ResizeConfig {
	return &ResizeConfig{
		MaxDimension: DefaultMaxDimension,
		Quality:      85,
	}
}

// Downscale shrinks an image whose longer side exceeds the configured maximum,
// keeping its aspect ratio. JPEG input stays JPEG; everything else is re-encoded as PNG.
// Images that are small enough, or in a format the decoder does not know, are returned unchanged.
func Downscale(data []byte, mimeType string, config *ResizeConfig) ([]byte, string, error) {
	if config == nil {
		config = DefaultConfig()
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return data, mimeType, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= config.MaxDimension && height <= config.MaxDimension {
		return data, mimeType, nil
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = config.MaxDimension
		newHeight = int(float64(height) * float64(config.MaxDimension) / float64(width))
	} else {
		newHeight = config.MaxDimension
		newWidth = int(float64(width) * float64(config.MaxDimension) / float64(height))
	}

	dst := image.NewRGBA(image.Rect(0, 0, max(newWidth, 1), max(newHeight, 1)))
	// CatmullRom is close to Lanczos in quality
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	outMime := "image/png"
	if format == "jpeg" {
		outMime = "image/jpeg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: config.Quality})
	} else {
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), outMime, nil
}
