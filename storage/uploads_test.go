package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func newTestUploads(t *testing.T) *Uploads {
	t.Helper()
	u, err := NewUploads(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return u
}

func TestUniqueName(t *testing.T) {
	a := UniqueName("cat.photo.png")
	b := UniqueName("cat.photo.png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "cat"))
	assert.True(t, strings.HasSuffix(a, ".png"))

	noExt := UniqueName("README")
	assert.True(t, strings.HasPrefix(noExt, "README"))
	assert.NotContains(t, noExt, ".")

	assert.NotContains(t, UniqueName("../../etc/passwd.txt"), "/")
	assert.NotContains(t, UniqueName(`C:\temp\x.jpg`), `\`)
}

func TestSaveLongFilename(t *testing.T) {
	u := newTestUploads(t)
	long := strings.Repeat("p", 230) + ".png"

	name := UniqueName(long)
	assert.LessOrEqual(t, len(name), 255)
	assert.True(t, strings.HasSuffix(name, ".png"))

	saved, err := u.Save(Upload{Filename: long, Size: 5, Reader: strings.NewReader("hello")})
	require.NoError(t, err)
	assert.True(t, u.Exists(saved))

	// multi-byte runes are not split
	assert.True(t, utf8.ValidString(UniqueName(strings.Repeat("é", 120)+".jpg")))
}

func TestSavedFilesAreWorldReadable(t *testing.T) {
	u := newTestUploads(t)

	name, err := u.Save(Upload{Filename: "thumb.jpg", Size: 5, Reader: strings.NewReader("hello")})
	require.NoError(t, err)

	info, err := os.Stat(u.Path(name))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestSaveAndRemove(t *testing.T) {
	u := newTestUploads(t)

	name, err := u.Save(Upload{Filename: "thumb.jpg", Size: 5, Reader: strings.NewReader("hello")})
	require.NoError(t, err)
	assert.True(t, u.Exists(name))

	data, err := os.ReadFile(u.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, u.Remove(name))
	assert.False(t, u.Exists(name))

	// already gone
	assert.NoError(t, u.Remove(name))
	assert.NoError(t, u.Remove(""))
}

func TestSaveFailureLeavesNothing(t *testing.T) {
	u := newTestUploads(t)

	_, err := u.Save(Upload{Filename: "thumb.jpg", Reader: failingReader{}})
	require.Error(t, err)

	entries, err := os.ReadDir(u.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
