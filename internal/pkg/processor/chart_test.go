package processor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartRendererBuild(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "rgb", img: newPattern(32, 16)},
		{name: "gray", img: newGray(10, 10, 128)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart, err := r.Build(mustBitmap(t, tt.img))
			require.NoError(t, err)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(chart.PNG))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Positive(t, cfg.Width)
			assert.Greater(t, cfg.Width, cfg.Height)

			raw, err := base64.StdEncoding.DecodeString(chart.Base64())
			require.NoError(t, err)
			assert.Equal(t, chart.PNG, raw)
			assert.True(t, strings.HasPrefix(chart.DataURI(), "data:image/png;base64,"))
		})
	}
}

func TestChartRendererIsDeterministic(t *testing.T) {
	r := newTestRenderer(t)
	b := mustBitmap(t, newRGBA(8, 8, color.RGBA{R: 255, A: 255}))

	first, err := r.Build(b)
	require.NoError(t, err)
	second, err := r.Build(b)
	require.NoError(t, err)
	assert.Equal(t, first.PNG, second.PNG)
}

func TestChartRendererConcurrent(t *testing.T) {
	r := newTestRenderer(t)
	b := mustBitmap(t, newPattern(16, 16))

	want, err := r.Build(b)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			chart, err := r.Build(b)
			if err == nil {
				results[i] = chart.PNG
			}
		}(i)
	}
	wg.Wait()

	for i := range results {
		assert.Equal(t, want.PNG, results[i], "goroutine %d", i)
	}
}

func TestChartRendererErrors(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.Render(nil)
	var renderErr *RenderError
	assert.True(t, errors.As(err, &renderErr))

	_, err = r.Build(&Bitmap{img: image.NewCMYK(image.Rect(0, 0, 1, 1))})
	var formatErr *UnsupportedFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestNewChartRendererValidation(t *testing.T) {
	base := ChartOptions{
		WidthInch:  6,
		HeightInch: 4,
		Alpha:      0.5,
		Red:        "#ff0000",
		Green:      "#00ff00",
		Blue:       "#0000ff",
		Gray:       "#808080",
	}

	tests := []struct {
		name   string
		modify func(o *ChartOptions)
	}{
		{name: "zero width", modify: func(o *ChartOptions) { o.WidthInch = 0 }},
		{name: "negative height", modify: func(o *ChartOptions) { o.HeightInch = -1 }},
		{name: "alpha above one", modify: func(o *ChartOptions) { o.Alpha = 1.5 }},
		{name: "bad hex", modify: func(o *ChartOptions) { o.Green = "green" }},
		{name: "empty gray", modify: func(o *ChartOptions) { o.Gray = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.modify(&opts)
			_, err := NewChartRenderer(opts)
			assert.Error(t, err)
		})
	}

	r, err := NewChartRenderer(base)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, r.palette[ChannelRed])
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 128}, r.palette[ChannelGray])
}
