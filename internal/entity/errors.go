package entity

import "errors"

var (
	// Upload errors
	ErrNoFile          = errors.New("no file provided")
	ErrEmptyFile       = errors.New("uploaded file is empty")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidAngle    = errors.New("angle must be an integer")

	// Storage errors
	ErrImageNotFound = errors.New("image not found")
	ErrInvalidName   = errors.New("invalid image name")
)
