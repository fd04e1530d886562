package pipeline

import (
	"context"
	"fmt"

	"image-monitor/internal/logger"
	"image-monitor/internal/models"
	"image-monitor/internal/opencv/conversion"
	"image-monitor/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Loader decodes files with OpenCV, keeping the stored bit depth and channel
// layout.
type Loader struct {
	logger  logger.Logger
	tracker safe.MemoryTracker
}

func NewLoader(log logger.Logger, tracker safe.MemoryTracker) *Loader {
	return &Loader{
		logger:  log,
		tracker: tracker,
	}
}

func (l *Loader) Load(ctx context.Context, path string) (*models.Frame, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoImageData, path)
	}

	safeMat, err := safe.Wrap(mat, l.tracker, "loaded_image")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoImageData, path, err)
	}
	defer safeMat.Close()

	props := conversion.GetMatProperties(safeMat)
	l.logger.Debug("ImageLoader", "image decoded", map[string]interface{}{
		"path":     path,
		"width":    props.Cols,
		"height":   props.Rows,
		"channels": props.Channels,
		"depth":    props.DataType,
	})

	frame, err := conversion.MatToFrame(safeMat)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}

	return frame, nil
}
