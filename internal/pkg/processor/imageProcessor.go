package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/sirupsen/logrus"
)

// Analysis is everything produced for one uploaded image.
type Analysis struct {
	Angle         int
	Original      *Bitmap
	Rotated       *Bitmap
	OriginalHist  []ChannelHistogram
	RotatedHist   []ChannelHistogram
	OriginalChart *Chart
	RotatedChart  *Chart
	RotatedData   []byte
	RotatedFormat string
}

type ImageProcessor interface {
	Analyze(ctx context.Context, data []byte, angle int) (*Analysis, error)
}

type imageProcessor struct {
	charts *ChartRenderer
}

func NewImageProcessor(charts *ChartRenderer) ImageProcessor {
	return &imageProcessor{charts: charts}
}

// Analyze decodes data, rotates it and renders histograms of both images.
// Cancellation of ctx is checked between stages; nothing is returned on error.
func (p *imageProcessor) Analyze(ctx context.Context, data []byte, angle int) (*Analysis, error) {
	original, err := Decode(data)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"format": original.Format(),
		"layout": original.Layout().String(),
		"width":  original.Width(),
		"height": original.Height(),
		"angle":  angle,
	}).Debug("image decoded")

	rotated, err := Rotate(original, angle)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origHist, err := Compute(original)
	if err != nil {
		return nil, err
	}
	rotHist, err := Compute(rotated)
	if err != nil {
		return nil, err
	}

	origChart, err := p.charts.Render(origHist)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rotChart, err := p.charts.Render(rotHist)
	if err != nil {
		return nil, err
	}

	outFormat := OutputFormat(original.Format())
	var buf bytes.Buffer
	if err := Encode(&buf, rotated.Image(), outFormat); err != nil {
		return nil, fmt.Errorf("failed to encode rotated image: %w", err)
	}

	return &Analysis{
		Angle:         angle,
		Original:      original,
		Rotated:       rotated,
		OriginalHist:  origHist,
		RotatedHist:   rotHist,
		OriginalChart: origChart,
		RotatedChart:  rotChart,
		RotatedData:   buf.Bytes(),
		RotatedFormat: outFormat,
	}, nil
}

// OutputFormat maps a decoder format name to the format derived images are
// written in. GIF frames are stored as PNG.
func OutputFormat(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "jpeg"
	default:
		return "png"
	}
}

// Extension returns the file extension for an output format.
func Extension(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return ".png"
}

func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
