package storage

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageLifecycle(t *testing.T) {
	s := NewFileStorageFs(afero.NewMemMapFs())

	require.NoError(t, s.Save("uploads/a.png", strings.NewReader("payload")))
	assert.True(t, s.Exists("uploads/a.png"))

	r, err := s.Get("uploads/a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "payload", string(data))

	require.NoError(t, s.Delete("uploads/a.png"))
	assert.False(t, s.Exists("uploads/a.png"))

	_, err = s.Get("uploads/a.png")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorageRejectsEscapes(t *testing.T) {
	s := NewFileStorageFs(afero.NewMemMapFs())

	tests := []string{"../secret", "a/../../b", "", "/"}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			assert.ErrorIs(t, s.Save(path, strings.NewReader("x")), os.ErrInvalid)
			assert.False(t, s.Exists(path))
			_, err := s.Get(path)
			assert.ErrorIs(t, err, os.ErrInvalid)
			assert.ErrorIs(t, s.Delete(path), os.ErrInvalid)
		})
	}
}

func TestNewFileStorageOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorage(dir)

	require.NoError(t, s.Save("x/y.txt", strings.NewReader("ok")))
	_, err := os.Stat(dir + "/x/y.txt")
	assert.NoError(t, err)
}
