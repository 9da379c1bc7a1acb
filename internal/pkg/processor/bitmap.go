package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
)

// Layout is the channel layout of a decoded bitmap.
type Layout int

const (
	LayoutUnsupported Layout = iota
	Grayscale
	RGB
)

func (l Layout) String() string {
	switch l {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	default:
		return "unsupported"
	}
}

// Channels returns 1 for Grayscale, 3 for RGB and 0 otherwise.
func (l Layout) Channels() int {
	switch l {
	case Grayscale:
		return 1
	case RGB:
		return 3
	default:
		return 0
	}
}

// Bitmap is a decoded raster image with a known layout. The wrapped image
// must not be modified after construction.
type Bitmap struct {
	img    image.Image
	layout Layout
	format string
}

// Decode parses PNG, JPEG or GIF bytes. The first frame of an animated GIF
// is used.
func Decode(data []byte) (*Bitmap, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: errors.New("empty input")}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	b, err := NewBitmap(img)
	if err != nil {
		return nil, err
	}
	b.format = format
	return b, nil
}

// NewBitmap classifies img and wraps it.
func NewBitmap(img image.Image) (*Bitmap, error) {
	layout, reason := classify(img)
	if layout == LayoutUnsupported {
		return nil, &UnsupportedFormatError{Model: fmt.Sprintf("%T", img), Reason: reason}
	}
	return &Bitmap{img: img, layout: layout}, nil
}

func classify(img image.Image) (Layout, string) {
	switch m := img.(type) {
	case *image.Gray:
		return Grayscale, ""
	case *image.YCbCr:
		return RGB, ""
	case *image.RGBA:
		if !m.Opaque() {
			return LayoutUnsupported, "alpha channel"
		}
		return RGB, ""
	case *image.NRGBA:
		if !m.Opaque() {
			return LayoutUnsupported, "alpha channel"
		}
		return RGB, ""
	case *image.Paletted:
		if !m.Opaque() {
			return LayoutUnsupported, "transparent palette entries"
		}
		return RGB, ""
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		return LayoutUnsupported, "16-bit depth"
	case *image.CMYK:
		return LayoutUnsupported, "4-channel CMYK"
	default:
		return LayoutUnsupported, "unknown pixel model"
	}
}

func (b *Bitmap) Image() image.Image { return b.img }

func (b *Bitmap) Layout() Layout { return b.layout }

func (b *Bitmap) Channels() int { return b.layout.Channels() }

// Format is the container name reported by the decoder ("png", "jpeg",
// "gif"); empty for bitmaps built from an in-memory image.
func (b *Bitmap) Format() string { return b.format }

func (b *Bitmap) Width() int { return b.img.Bounds().Dx() }

func (b *Bitmap) Height() int { return b.img.Bounds().Dy() }

// Pixels is the number of pixels per channel.
func (b *Bitmap) Pixels() int { return b.Width() * b.Height() }
