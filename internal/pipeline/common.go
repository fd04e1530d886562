package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"image-monitor/internal/models"
)

// ErrNoImageData means the decoder produced nothing for the path: the file is
// missing, unreadable, locked or not an image.
var ErrNoImageData = errors.New("no image data")

// FrameLoader reads a file into an RGB frame holding the raw decoded sample
// values.
type FrameLoader interface {
	Load(ctx context.Context, path string) (*models.Frame, error)
}

// hdrExtensions are containers decoded as linear radiance.
var hdrExtensions = map[string]bool{
	".hdr": true,
	".pic": true,
	".exr": true,
}

// IsHDRPath reports whether path names a high dynamic range container.
func IsHDRPath(path string) bool {
	return hdrExtensions[strings.ToLower(filepath.Ext(path))]
}
