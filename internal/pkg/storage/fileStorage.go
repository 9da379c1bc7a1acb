package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type FileStorage interface {
	Save(path string, data io.Reader) error
	Get(path string) (io.ReadCloser, error)
	Delete(path string) error
	Exists(path string) bool
}

type fileStorage struct {
	fs afero.Fs
}

// NewFileStorage keeps files under basePath on the local disk.
func NewFileStorage(basePath string) FileStorage {
	return NewFileStorageFs(afero.NewBasePathFs(afero.NewOsFs(), basePath))
}

// NewFileStorageFs keeps files on fs; tests pass afero.NewMemMapFs().
func NewFileStorageFs(fs afero.Fs) FileStorage {
	return &fileStorage{fs: fs}
}

func (s *fileStorage) Save(path string, data io.Reader) error {
	fullPath, err := clean(path)
	if err != nil {
		return err
	}

	// Создаем директорию если нужно
	if err := s.fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return afero.WriteReader(s.fs, fullPath, data)
}

func (s *fileStorage) Get(path string) (io.ReadCloser, error) {
	fullPath, err := clean(path)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(fullPath)
}

func (s *fileStorage) Delete(path string) error {
	fullPath, err := clean(path)
	if err != nil {
		return err
	}
	return s.fs.Remove(fullPath)
}

func (s *fileStorage) Exists(path string) bool {
	fullPath, err := clean(path)
	if err != nil {
		return false
	}
	ok, err := afero.Exists(s.fs, fullPath)
	return err == nil && ok
}

// clean rejects paths that would leave the storage root.
func clean(path string) (string, error) {
	p := filepath.Clean("/" + path)
	if p == "/" || strings.Contains(path, "..") {
		return "", fmt.Errorf("invalid storage path %q: %w", path, os.ErrInvalid)
	}
	return p, nil
}
