package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"bookhub/internal/api/repository"
	"bookhub/internal/cache"
	"bookhub/internal/storage"
)

// uploadField is the multipart form field holding the book file and the
// prefix of every generated filename.
const uploadField = "bookFile"

type AttachmentService interface {
	Upload(ctx context.Context, bookID int64, file io.Reader, originalFilename string) (fileURL string, err error)
	Download(ctx context.Context, bookID int64) (absPath, filename string, err error)
}

type attachmentService struct {
	repo  *repository.BookRepo
	store *storage.FileStore
	cache *cache.BookCache
}

func NewAttachmentService(repo *repository.BookRepo, store *storage.FileStore, c *cache.BookCache) AttachmentService {
	return &attachmentService{repo: repo, store: store, cache: c}
}

// Upload stores the stream on disk and points the book's file_url at it.
// The write goes temp-file-then-rename, and the file is removed again if the
// row update fails, so the book never references a file that is not fully on
// disk.
func (s *attachmentService) Upload(ctx context.Context, bookID int64, file io.Reader, originalFilename string) (string, error) {
	book, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBookNotFound
		}
		return "", err
	}

	if !s.store.Allowed(originalFilename) {
		return "", ErrInvalidFileType
	}

	fileURL, err := s.store.Save(uploadField, file, originalFilename)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedExtension) {
			return "", ErrInvalidFileType
		}
		return "", err
	}

	if err := s.repo.UpdateFields(ctx, bookID, map[string]any{"file_url": fileURL}); err != nil {
		_ = s.store.Remove(fileURL)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBookNotFound
		}
		return "", err
	}

	// the previous attachment is unreachable now
	if book.FileURL != nil && *book.FileURL != fileURL {
		_ = s.store.Remove(*book.FileURL)
	}
	s.cache.Invalidate(ctx, bookID)

	return fileURL, nil
}

// Download resolves the book's stored file to a path under the upload root.
// A missing book, an empty file_url and a vanished file all come back as
// NotFound to the caller.
func (s *attachmentService) Download(ctx context.Context, bookID int64) (string, string, error) {
	book, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrFileNotFound
		}
		return "", "", err
	}

	if book.FileURL == nil || *book.FileURL == "" {
		return "", "", ErrFileNotFound
	}

	abs, err := s.store.Resolve(*book.FileURL)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, storage.ErrOutsideRoot) {
			return "", "", ErrFileNotFound
		}
		return "", "", err
	}

	return abs, filepath.Base(abs), nil
}
