// Package storage keeps uploaded avatars and thumbnails in a single directory,
// addressed by generated file names.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Upload is a file received from a client.
type Upload struct {
	Filename string    // Name as sent by the client
	Size     int64     // Declared size in bytes
	Reader   io.Reader // File contents
}

// Uploads stores files under Dir.
type Uploads struct {
	Dir string
}

// NewUploads creates dir if missing.
func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Uploads{Dir: dir}, nil
}

// maxBaseLen caps the client's base name so the result stays under the 255 byte
// file name limit.
const maxBaseLen = 100

// UniqueName keeps the base name and extension of original and puts a UUID between them,
// so "cat.photo.png" becomes "cat<uuid>.png".
func UniqueName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	parts := strings.Split(base, ".")
	name := truncate(parts[0], maxBaseLen) + uuid.NewString()
	if len(parts) > 1 {
		name += "." + truncate(parts[len(parts)-1], maxBaseLen)
	}
	return name
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Save writes u under a fresh unique name and returns that name. The file is written to a
// temporary file first and renamed into place, so on error nothing is left behind.
func (s *Uploads) Save(u Upload) (string, error) {
	name := UniqueName(u.Filename)

	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, err = io.Copy(tmp, u.Reader)
	if err == nil {
		// CreateTemp uses 0600; uploads are served to anyone.
		err = tmp.Chmod(0o644)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpPath, s.Path(name))
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes name. A file that is already gone is not an error.
func (s *Uploads) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(s.Path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// Exists reports whether name is present in the uploads directory.
func (s *Uploads) Exists(name string) bool {
	if name == "" {
		return false
	}
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Path resolves name inside Dir. Directory components in name are dropped.
func (s *Uploads) Path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name))
}
