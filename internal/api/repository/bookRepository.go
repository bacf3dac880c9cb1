package repository

import (
	"context"
	"fmt"
	"strings"

	"bookhub/internal/api/models"

	"gorm.io/gorm"
)

type BookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

// SearchFilters holds the optional filters for the book search endpoint.
// Empty strings impose no constraint.
type SearchFilters struct {
	Title    string
	Author   string
	Category string
}

func (r *BookRepo) GetAll(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Preload("Authors").
		Preload("Category").
		Order("books.title ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return list, total, nil
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).
		Preload("Authors").
		Preload("Category").
		First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Search performs a paginated, filtered lookup. A present author or category
// filter makes its join mandatory, so books without a matching author or
// category drop out; absent filters keep those books visible. All matching is
// a case-insensitive substring comparison.
func (r *BookRepo) Search(ctx context.Context, f SearchFilters, page, pageSize int) ([]models.Book, int64, error) {
	var total int64
	// Joins can multiply rows, count distinct book ids.
	if err := r.applyFilters(r.db.WithContext(ctx).Model(&models.Book{}), f).
		Distinct("books.id").
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count search results: %w", err)
	}

	offset := (page - 1) * pageSize

	var list []models.Book
	if err := r.applyFilters(r.db.WithContext(ctx).Model(&models.Book{}), f).
		Distinct("books.*").
		Preload("Authors").
		Preload("Category").
		Order("books.title ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("search books: %w", err)
	}

	return list, total, nil
}

func (r *BookRepo) applyFilters(tx *gorm.DB, f SearchFilters) *gorm.DB {
	if f.Title != "" {
		tx = tx.Where("LOWER(books.title) LIKE ?", pattern(f.Title))
	}
	if f.Author != "" {
		p := pattern(f.Author)
		tx = tx.
			Joins("JOIN book_authors ON book_authors.book_id = books.id").
			Joins("JOIN authors ON authors.id = book_authors.author_id").
			Where("LOWER(authors.first_name) LIKE ? OR LOWER(authors.last_name) LIKE ?", p, p)
	}
	if f.Category != "" {
		tx = tx.
			Joins("JOIN categories ON categories.id = books.category_id").
			Where("LOWER(categories.name) LIKE ?", pattern(f.Category))
	}
	return tx
}

func pattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func (r *BookRepo) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", translateConstraint(err))
	}
	return nil
}

// UpdateFields applies the given column set to the book row. Returns
// gorm.ErrRecordNotFound when no row matched.
func (r *BookRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update book: %w", translateConstraint(res.Error))
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceAuthors sets the book's author set to exactly the given ids,
// removing prior members not in the set. Runs in a single transaction; an id
// with no matching author row fails the whole replacement with
// ErrForeignKeyViolated.
func (r *BookRepo) ReplaceAuthors(ctx context.Context, bookID int64, authorIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return err
		}

		authors := make([]models.Author, 0, len(authorIDs))
		if len(authorIDs) > 0 {
			if err := tx.Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
				return fmt.Errorf("load authors: %w", err)
			}
			if len(authors) != len(dedupe(authorIDs)) {
				return fmt.Errorf("%w: unknown author id", ErrForeignKeyViolated)
			}
		}

		if err := tx.Model(&book).Association("Authors").Replace(&authors); err != nil {
			return fmt.Errorf("replace authors: %w", translateConstraint(err))
		}
		return nil
	})
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
