package processor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	chartTitle  = "Color Distribution"
	chartXLabel = "Pixel Intensity (0-255)"
	chartYLabel = "Frequency"
)

// ChartOptions configures the histogram chart. Colors are hex strings.
type ChartOptions struct {
	WidthInch  float64
	HeightInch float64
	Alpha      float64
	Red        string
	Green      string
	Blue       string
	Gray       string
}

// Chart is a rendered histogram chart.
type Chart struct {
	PNG []byte
}

func (c *Chart) Base64() string {
	return base64.StdEncoding.EncodeToString(c.PNG)
}

func (c *Chart) DataURI() string {
	return "data:image/png;base64," + c.Base64()
}

// ChartRenderer draws channel histograms with gonum/plot. Every Render call
// builds and drops its own plot, so a renderer can be shared by goroutines.
type ChartRenderer struct {
	width   vg.Length
	height  vg.Length
	palette map[string]color.NRGBA
}

func NewChartRenderer(opts ChartOptions) (*ChartRenderer, error) {
	if opts.WidthInch <= 0 || opts.HeightInch <= 0 {
		return nil, fmt.Errorf("chart size must be positive, got %vx%v", opts.WidthInch, opts.HeightInch)
	}
	if opts.Alpha <= 0 || opts.Alpha > 1 {
		return nil, fmt.Errorf("chart alpha must be in (0,1], got %v", opts.Alpha)
	}

	palette := make(map[string]color.NRGBA, 4)
	for channel, hex := range map[string]string{
		ChannelRed:   opts.Red,
		ChannelGreen: opts.Green,
		ChannelBlue:  opts.Blue,
		ChannelGray:  opts.Gray,
	} {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("invalid %s color %q: %w", channel, hex, err)
		}
		r, g, b := c.RGB255()
		palette[channel] = color.NRGBA{R: r, G: g, B: b, A: uint8(opts.Alpha*255 + 0.5)}
	}

	return &ChartRenderer{
		width:   vg.Length(opts.WidthInch) * vg.Inch,
		height:  vg.Length(opts.HeightInch) * vg.Inch,
		palette: palette,
	}, nil
}

// Build computes the histograms of b and renders them.
func (r *ChartRenderer) Build(b *Bitmap) (*Chart, error) {
	hists, err := Compute(b)
	if err != nil {
		return nil, err
	}
	return r.Render(hists)
}

// Render draws the histograms overlaid on one chart and encodes it as PNG.
func (r *ChartRenderer) Render(hists []ChannelHistogram) (chart *Chart, err error) {
	if len(hists) == 0 {
		return nil, &RenderError{Err: errors.New("no channels to draw")}
	}

	// plot/vgimg паникуют при нехватке ресурсов
	defer func() {
		if rec := recover(); rec != nil {
			chart, err = nil, &RenderError{Err: fmt.Errorf("%v", rec)}
		}
	}()

	p := plot.New()
	p.Title.Text = chartTitle
	p.X.Label.Text = chartXLabel
	p.Y.Label.Text = chartYLabel
	p.X.Min = 0
	p.X.Max = BinCount
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i := range hists {
		fill := r.fill(hists[i].Channel)
		series := &plotter.Histogram{
			Bins:      toPlotBins(&hists[i]),
			Width:     1,
			FillColor: fill,
			LineStyle: draw.LineStyle{Color: fill, Width: vg.Points(0.25)},
		}
		p.Add(series)
		if len(hists) > 1 {
			p.Legend.Add(hists[i].Channel, series)
		}
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, &RenderError{Err: err}
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, &RenderError{Err: err}
	}
	return &Chart{PNG: buf.Bytes()}, nil
}

func (r *ChartRenderer) fill(channel string) color.NRGBA {
	if c, ok := r.palette[channel]; ok {
		return c
	}
	return r.palette[ChannelGray]
}

func toPlotBins(h *ChannelHistogram) []plotter.HistogramBin {
	bins := make([]plotter.HistogramBin, BinCount)
	for i, n := range h.Bins {
		bins[i] = plotter.HistogramBin{Min: float64(i), Max: float64(i + 1), Weight: float64(n)}
	}
	return bins
}
