package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bookhub/internal/api/dto"
	"bookhub/internal/api/models"
	"bookhub/internal/api/repository"
)

type AuthorService interface {
	GetAll(ctx context.Context) ([]models.Author, error)
	GetByID(ctx context.Context, id int64) (*models.Author, error)
	GetBooks(ctx context.Context, id int64) ([]models.Book, error)
	Create(ctx context.Context, a *models.Author) error
	Update(ctx context.Context, id int64, in dto.UpdateAuthorDTO) (*models.Author, error)
	Delete(ctx context.Context, id int64) error
}

type authorService struct {
	repo *repository.AuthorRepo
}

func NewAuthorService(r *repository.AuthorRepo) AuthorService {
	return &authorService{repo: r}
}

func (s *authorService) GetAll(ctx context.Context) ([]models.Author, error) {
	return s.repo.GetAll(ctx)
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *authorService) GetBooks(ctx context.Context, id int64) ([]models.Book, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetBooksByAuthor(ctx, id)
}

func (s *authorService) Create(ctx context.Context, a *models.Author) error {
	return s.repo.Create(ctx, a)
}

func (s *authorService) Update(ctx context.Context, id int64, in dto.UpdateAuthorDTO) (*models.Author, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.ApplyTo(existing)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *authorService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthorNotFound
		}
		return err
	}
	return nil
}
