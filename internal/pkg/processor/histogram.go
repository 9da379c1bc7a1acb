package processor

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/histogram"
	"gonum.org/v1/gonum/stat"
)

// BinCount is the number of 8-bit intensity bins per channel.
const BinCount = 256

const (
	ChannelGray  = "gray"
	ChannelRed   = "red"
	ChannelGreen = "green"
	ChannelBlue  = "blue"
)

// ChannelHistogram holds the intensity distribution of one channel.
type ChannelHistogram struct {
	Channel string        `json:"channel"`
	Bins    [BinCount]int `json:"bins"`
}

// ChannelStats summarises a ChannelHistogram.
type ChannelStats struct {
	Channel string  `json:"channel"`
	Pixels  int     `json:"pixels"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Median  float64 `json:"median"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

// Compute tallies the pixels of b into one histogram per channel: a single
// gray series for Grayscale, red/green/blue for RGB.
func Compute(b *Bitmap) ([]ChannelHistogram, error) {
	switch b.layout {
	case Grayscale:
		tally := histogram.NewRGBAHistogram(b.img)
		return []ChannelHistogram{
			newChannelHistogram(ChannelGray, tally.R.Bins),
		}, nil
	case RGB:
		tally := histogram.NewRGBAHistogram(b.img)
		return []ChannelHistogram{
			newChannelHistogram(ChannelRed, tally.R.Bins),
			newChannelHistogram(ChannelGreen, tally.G.Bins),
			newChannelHistogram(ChannelBlue, tally.B.Bins),
		}, nil
	default:
		return nil, &UnsupportedFormatError{Model: fmt.Sprintf("%T", b.img), Reason: "cannot build histogram"}
	}
}

func newChannelHistogram(channel string, bins []int) ChannelHistogram {
	h := ChannelHistogram{Channel: channel}
	copy(h.Bins[:], bins)
	return h
}

// Total is the sum of all bins, i.e. the pixel count of the channel.
func (h *ChannelHistogram) Total() int {
	total := 0
	for _, n := range h.Bins {
		total += n
	}
	return total
}

// Stats returns the mean, population standard deviation and median intensity
// together with the lowest and highest intensities present.
func (h *ChannelHistogram) Stats() ChannelStats {
	s := ChannelStats{Channel: h.Channel, Pixels: h.Total()}
	if s.Pixels == 0 {
		return s
	}

	xs := make([]float64, BinCount)
	ws := make([]float64, BinCount)
	s.Min = -1
	for i, n := range h.Bins {
		xs[i] = float64(i)
		ws[i] = float64(n)
		if n > 0 {
			if s.Min < 0 {
				s.Min = i
			}
			s.Max = i
		}
	}

	mean, variance := stat.PopMeanVariance(xs, ws)
	s.Mean = mean
	s.StdDev = math.Sqrt(variance)
	s.Median = stat.Quantile(0.5, stat.Empirical, xs, ws)
	return s
}
