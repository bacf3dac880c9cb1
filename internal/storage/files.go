// Package storage implements the on-disk store for book attachment files.
// All files live directly under a single configured upload root and are
// referred to elsewhere by a server-relative URL such as /books/<name>.
package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrUnsupportedExtension is returned for files outside the allowed set.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	// ErrOutsideRoot is returned when a stored URL would resolve to a path
	// outside the upload root.
	ErrOutsideRoot = errors.New("file path escapes upload root")
)

// Config carries the process-wide upload settings. It is passed into the
// store explicitly so tests can point it at a temporary directory.
type Config struct {
	Dir         string   // filesystem directory holding the uploads
	URLPrefix   string   // public prefix stored in file_url, e.g. "/books"
	AllowedExts []string // lowercase extensions including the dot
}

type FileStore struct {
	cfg Config
}

func NewFileStore(cfg Config) *FileStore {
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = "/books"
	}
	if len(cfg.AllowedExts) == 0 {
		cfg.AllowedExts = []string{".epub", ".fb2"}
	}
	return &FileStore{cfg: cfg}
}

// Allowed reports whether the original filename carries an accepted
// extension. The comparison is case-insensitive.
func (s *FileStore) Allowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range s.cfg.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Save writes the stream under a collision-free generated name and returns
// the public URL for it. The content goes to a temp file first and is renamed
// into place, so a failed upload never leaves a partial file behind.
func (s *FileStore) Save(field string, src io.Reader, originalFilename string) (string, error) {
	if !s.Allowed(originalFilename) {
		return "", ErrUnsupportedExtension
	}
	if err := os.MkdirAll(s.cfg.Dir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	name := fmt.Sprintf("%s-%d-%d%s", field, time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
	finalPath := filepath.Join(s.cfg.Dir, name)

	tmp, err := os.CreateTemp(s.cfg.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("sync upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return path.Join(s.cfg.URLPrefix, name), nil
}

// Resolve maps a stored file URL back to an absolute path under the upload
// root and verifies the file exists. Only the base name of the URL is used,
// so a crafted file_url cannot reach outside the root.
func (s *FileStore) Resolve(fileURL string) (string, error) {
	name := path.Base(path.Clean(fileURL))
	if name == "." || name == "/" || name == ".." {
		return "", ErrOutsideRoot
	}
	abs := filepath.Join(s.cfg.Dir, name)

	rel, err := filepath.Rel(s.cfg.Dir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ErrOutsideRoot
	}

	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// Remove deletes the file a stored URL points at. Missing files are not an
// error, callers use this for best-effort cleanup.
func (s *FileStore) Remove(fileURL string) error {
	abs, err := s.Resolve(fileURL)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, ErrOutsideRoot) {
			return nil
		}
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
