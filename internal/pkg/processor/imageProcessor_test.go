package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnalyze проверяет полный цикл: декодирование, поворот, гистограммы
func TestAnalyze(t *testing.T) {
	proc := NewImageProcessor(newTestRenderer(t))

	tests := []struct {
		name          string
		data          []byte
		angle         int
		wantWidth     int
		wantHeight    int
		wantChannels  int
		wantOutFormat string
		wantSrcFormat string
	}{
		{
			name:          "rgb png rotated by 90",
			data:          encodePNG(t, newRGBA(40, 20, color.RGBA{R: 100, G: 150, B: 200, A: 255})),
			angle:         90,
			wantWidth:     20,
			wantHeight:    40,
			wantChannels:  3,
			wantOutFormat: "png",
			wantSrcFormat: "png",
		},
		{
			name:          "grayscale png without rotation",
			data:          encodePNG(t, newGray(16, 8, 77)),
			angle:         0,
			wantWidth:     16,
			wantHeight:    8,
			wantChannels:  1,
			wantOutFormat: "png",
			wantSrcFormat: "png",
		},
		{
			name:          "jpeg rotated by 180",
			data:          encodeJPEG(t, newRGBA(30, 10, color.RGBA{R: 200, G: 100, B: 50, A: 255})),
			angle:         180,
			wantWidth:     30,
			wantHeight:    10,
			wantChannels:  3,
			wantOutFormat: "jpeg",
			wantSrcFormat: "jpeg",
		},
		{
			name:          "gif is stored as png",
			data:          encodeGIF(t, newRGBA(12, 6, color.RGBA{R: 255, G: 255, B: 255, A: 255})),
			angle:         -90,
			wantWidth:     6,
			wantHeight:    12,
			wantChannels:  3,
			wantOutFormat: "png",
			wantSrcFormat: "gif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := proc.Analyze(context.Background(), tt.data, tt.angle)
			require.NoError(t, err)

			assert.Equal(t, tt.angle, res.Angle)
			assert.Equal(t, tt.wantSrcFormat, res.Original.Format())
			assert.Equal(t, tt.wantWidth, res.Rotated.Width())
			assert.Equal(t, tt.wantHeight, res.Rotated.Height())
			assert.Len(t, res.OriginalHist, tt.wantChannels)
			assert.Len(t, res.RotatedHist, tt.wantChannels)
			assert.Equal(t, tt.wantOutFormat, res.RotatedFormat)

			require.NotNil(t, res.OriginalChart)
			require.NotNil(t, res.RotatedChart)
			assertPNG(t, res.OriginalChart.PNG)
			assertPNG(t, res.RotatedChart.PNG)

			// сохранённый результат должен снова декодироваться
			decoded, err := Decode(res.RotatedData)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, decoded.Width())
			assert.Equal(t, tt.wantHeight, decoded.Height())
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	proc := NewImageProcessor(newTestRenderer(t))

	t.Run("garbage bytes", func(t *testing.T) {
		res, err := proc.Analyze(context.Background(), []byte("definitely not an image"), 0)
		assert.Nil(t, res)
		var decodeErr *DecodeError
		assert.True(t, errors.As(err, &decodeErr))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := proc.Analyze(context.Background(), nil, 0)
		var decodeErr *DecodeError
		assert.True(t, errors.As(err, &decodeErr))
	})

	t.Run("alpha channel is rejected", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.NRGBA{R: 10, G: 20, B: 30, A: 128}}, image.Point{}, draw.Src)

		res, err := proc.Analyze(context.Background(), encodePNG(t, img), 45)
		assert.Nil(t, res)
		var formatErr *UnsupportedFormatError
		require.True(t, errors.As(err, &formatErr))
		assert.Equal(t, "alpha channel", formatErr.Reason)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := proc.Analyze(ctx, encodePNG(t, newRGBA(8, 8, color.RGBA{A: 255})), 30)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		wantFmt string
		wantExt string
	}{
		{in: "jpeg", wantFmt: "jpeg", wantExt: ".jpg"},
		{in: "png", wantFmt: "png", wantExt: ".png"},
		{in: "gif", wantFmt: "png", wantExt: ".png"},
		{in: "", wantFmt: "png", wantExt: ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.wantFmt, OutputFormat(tt.in))
			assert.Equal(t, tt.wantExt, Extension(OutputFormat(tt.in)))
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, newRGBA(2, 2, color.RGBA{A: 255}), "bmp")
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func newTestRenderer(t *testing.T) *ChartRenderer {
	t.Helper()
	r, err := NewChartRenderer(ChartOptions{
		WidthInch:  3,
		HeightInch: 2,
		Alpha:      0.5,
		Red:        "#ff0000",
		Green:      "#008000",
		Blue:       "#0000ff",
		Gray:       "#808080",
	})
	require.NoError(t, err)
	return r
}

// fillImageWithColor заполняет изображение одним цветом
func fillImageWithColor(img *image.RGBA, color color.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, color)
		}
	}
}

func newRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillImageWithColor(img, c)
	return img
}

func newGray(w, h int, y uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = y
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func encodeGIF(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func assertPNG(t *testing.T, data []byte) {
	t.Helper()
	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}
