package processor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// NormalizeAngle reduces an angle in degrees to [0, 360).
func NormalizeAngle(angle int) int {
	a := angle % 360
	if a < 0 {
		a += 360
	}
	return a
}

// Rotate turns src counter-clockwise by angle degrees. The canvas grows to the
// bounding box of the rotated content and the exposed corners are filled with
// opaque black, so the result keeps the layout of src.
func Rotate(src *Bitmap, angle int) (*Bitmap, error) {
	deg := float64(NormalizeAngle(angle))

	switch src.layout {
	case Grayscale:
		rotated := imaging.Rotate(src.img, deg, color.Black)
		return &Bitmap{img: toGray(rotated), layout: Grayscale, format: src.format}, nil
	case RGB:
		rotated := imaging.Rotate(src.img, deg, color.Black)
		return &Bitmap{img: rotated, layout: RGB, format: src.format}, nil
	default:
		return nil, &UnsupportedFormatError{Model: fmt.Sprintf("%T", src.img), Reason: "cannot rotate"}
	}
}

// imaging always returns NRGBA; gray sources go back to a single plane.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}
