package repository

import (
	"context"
	"fmt"

	"bookhub/internal/api/models"

	"gorm.io/gorm"
)

type AuthorRepo struct {
	db *gorm.DB
}

func NewAuthorRepo(db *gorm.DB) *AuthorRepo {
	return &AuthorRepo{db: db}
}

func (r *AuthorRepo) GetAll(ctx context.Context) ([]models.Author, error) {
	var list []models.Author
	if err := r.db.WithContext(ctx).Order("last_name asc, first_name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get authors: %w", err)
	}
	return list, nil
}

func (r *AuthorRepo) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	var a models.Author
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AuthorRepo) Create(ctx context.Context, a *models.Author) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	return nil
}

func (r *AuthorRepo) Update(ctx context.Context, a *models.Author) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	return nil
}

func (r *AuthorRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Author{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete author: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetBooksByAuthor returns the books associated with the given author id.
func (r *AuthorRepo) GetBooksByAuthor(ctx context.Context, authorID int64) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Joins("JOIN book_authors ba ON ba.book_id = books.id").
		Where("ba.author_id = ?", authorID).
		Preload("Authors").
		Preload("Category").
		Order("books.title ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get books by author: %w", err)
	}
	return list, nil
}
