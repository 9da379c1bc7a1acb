package database

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/ds124wfegd/imagehist/internal/entity"
	"github.com/ds124wfegd/imagehist/internal/pkg/storage"
)

// rotated_<uuid>.<ext> or <uuid>.<ext>
var storedName = regexp.MustCompile(`^(rotated_)?[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(png|jpg|jpeg|gif)$`)

// NewImageRepository stores originals as <id><ext> and derived images as
// rotated_<id><ext> in one flat directory.
func NewImageRepository(storage storage.FileStorage, exts []string) ImageRepository {
	return &fileImageRepository{storage: storage, exts: exts}
}

func (r *fileImageRepository) SaveFile(id string, kind string, ext string, file io.Reader) (string, error) {
	name := r.FileName(id, kind, ext)
	if !storedName.MatchString(name) {
		return "", fmt.Errorf("%w: %s", entity.ErrInvalidName, name)
	}

	if err := r.storage.Save(name, file); err != nil {
		return "", err
	}
	return name, nil
}

func (r *fileImageRepository) Open(name string) (io.ReadCloser, error) {
	if !storedName.MatchString(name) {
		return nil, entity.ErrImageNotFound
	}

	reader, err := r.storage.Get(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entity.ErrImageNotFound
		}
		return nil, err
	}
	return reader, nil
}

// Delete removes every stored file of the upload id.
func (r *fileImageRepository) Delete(id string) error {
	removed := 0
	for _, kind := range []string{KindOriginal, KindRotated} {
		for _, ext := range r.exts {
			name := r.FileName(id, kind, ext)
			if !storedName.MatchString(name) || !r.storage.Exists(name) {
				continue
			}
			if err := r.storage.Delete(name); err != nil && !os.IsNotExist(err) {
				return err
			}
			removed++
		}
	}

	if removed == 0 {
		return entity.ErrImageNotFound
	}
	return nil
}

func (r *fileImageRepository) FileName(id string, kind string, ext string) string {
	ext = strings.ToLower(ext)
	if kind == KindRotated {
		return "rotated_" + id + ext
	}
	return id + ext
}
