package database

import (
	"io"

	"github.com/ds124wfegd/imagehist/internal/pkg/storage"
)

const (
	KindOriginal = "original"
	KindRotated  = "rotated"
)

type ImageRepository interface {
	SaveFile(id string, kind string, ext string, file io.Reader) (string, error)
	Open(name string) (io.ReadCloser, error)
	Delete(id string) error
	FileName(id string, kind string, ext string) string
}

type fileImageRepository struct {
	storage storage.FileStorage
	exts    []string
}
