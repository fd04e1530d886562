package pipeline

import (
	"fmt"

	"image-monitor/internal/models"
	"image-monitor/internal/tonemap"
)

// displayRange is the value treated as full scale for standard range files.
const displayRange = 255.0

// Processor turns raw decoded samples into a display-ready frame.
type Processor struct {
	operator tonemap.Operator
}

func NewProcessor(operator tonemap.Operator) *Processor {
	return &Processor{operator: operator}
}

// Process tone-maps HDR frames, scales everything else down from 0..255, and
// clips the result to [0, 1]. raw is not modified.
func (p *Processor) Process(raw *models.Frame, hdr bool) (*models.Frame, error) {
	var out *models.Frame
	if hdr {
		var err error
		out, err = p.operator.Apply(raw)
		if err != nil {
			return nil, fmt.Errorf("tone mapping with %s: %w", p.operator.Name(), err)
		}
	} else {
		out = models.NewFrame(raw.Shape)
		for i, v := range raw.Pix {
			out.Pix[i] = v / displayRange
		}
	}

	out.Clip(0, 1)
	return out, nil
}

func (p *Processor) OperatorName() string {
	return p.operator.Name()
}
