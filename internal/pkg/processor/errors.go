package processor

import "fmt"

// DecodeError is returned when the input bytes are not a bitmap the
// registered decoders (png, jpeg, gif) understand.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned for channel layouts other than
// 8-bit grayscale and 8-bit RGB.
type UnsupportedFormatError struct {
	Model  string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported channel layout %s: %s", e.Model, e.Reason)
}

// RenderError is returned when the chart backend cannot produce a PNG.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render histogram chart: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
