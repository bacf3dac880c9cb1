package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"bookhub/internal/api/dto"
	"bookhub/internal/api/models"
	"bookhub/internal/api/repository"
	"bookhub/internal/cache"
	"bookhub/internal/storage"
)

type BookService interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Search(ctx context.Context, filters repository.SearchFilters, page, pageSize int) ([]models.Book, int64, error)
	Create(ctx context.Context, b *models.Book, authorIDs []int64) (*models.Book, error)
	Update(ctx context.Context, id int64, in dto.UpdateBookDTO) error
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	repo  *repository.BookRepo
	files *storage.FileStore
	cache *cache.BookCache
}

// NewBookService wires the book repository with the attachment store (for
// delete cleanup) and an optional cache (nil disables caching).
func NewBookService(r *repository.BookRepo, files *storage.FileStore, c *cache.BookCache) BookService {
	return &bookService{repo: r, files: files, cache: c}
}

func (s *bookService) GetAll(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	return s.repo.GetAll(ctx, page, pageSize)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	if b, ok := s.cache.Get(ctx, id); ok {
		return b, nil
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	s.cache.Set(ctx, b)
	return b, nil
}

func (s *bookService) Search(ctx context.Context, filters repository.SearchFilters, page, pageSize int) ([]models.Book, int64, error) {
	return s.repo.Search(ctx, filters, page, pageSize)
}

func (s *bookService) Create(ctx context.Context, b *models.Book, authorIDs []int64) (*models.Book, error) {
	if strings.TrimSpace(b.Title) == "" {
		return nil, ErrTitleRequired
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolated) {
			return nil, ErrInvalidAssociation
		}
		return nil, err
	}

	if len(authorIDs) > 0 {
		if err := s.repo.ReplaceAuthors(ctx, b.ID, authorIDs); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolated) {
				return nil, ErrAuthorNotFound
			}
			return nil, err
		}
	}

	created, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, created)
	return created, nil
}

func (s *bookService) Update(ctx context.Context, id int64, in dto.UpdateBookDTO) error {
	// ensure exists so an authors-only update still reports NotFound cleanly
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if changes := in.Changes(); len(changes) > 0 {
		if err := s.repo.UpdateFields(ctx, id, changes); err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return ErrBookNotFound
			case errors.Is(err, repository.ErrForeignKeyViolated):
				return ErrInvalidAssociation
			default:
				return err
			}
		}
	}

	// full-set replace when author_ids was supplied, an empty list clears
	if in.AuthorIDs != nil {
		if err := s.repo.ReplaceAuthors(ctx, id, in.AuthorIDs); err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return ErrBookNotFound
			case errors.Is(err, repository.ErrForeignKeyViolated):
				return ErrAuthorNotFound
			default:
				return err
			}
		}
	}

	s.cache.Invalidate(ctx, id)
	return nil
}

// Delete removes the book row, its comments (FK cascade) and, best-effort,
// the stored attachment file.
func (s *bookService) Delete(ctx context.Context, id int64) error {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if book.FileURL != nil && s.files != nil {
		// row is gone, a leftover file only wastes disk
		_ = s.files.Remove(*book.FileURL)
	}
	s.cache.Invalidate(ctx, id)
	return nil
}
