package dto

import (
	"bookhub/internal/api/models"
	"time"
)

// CreateBookDTO used for POST /books
type CreateBookDTO struct {
	Title           string  `json:"title" binding:"required"`
	Description     *string `json:"description,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	CategoryID      *int64  `json:"category_id,omitempty"`
	AuthorIDs       []int64 `json:"author_ids,omitempty"`
	Image           *string `json:"image,omitempty"` // stored as image_url
}

// UpdateBookDTO used for PUT /books/:id (partial updates allowed).
// Pointer fields distinguish "not supplied" from "set to empty"; only the
// fields listed here ever reach the store.
type UpdateBookDTO struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	CategoryID      *int64  `json:"category_id,omitempty"`
	Image           *string `json:"image,omitempty"`
	AuthorIDs       []int64 `json:"author_ids,omitempty"`
}

// Changes returns the allow-listed column set to apply to the row. AuthorIDs
// are handled separately through the association replace.
func (d UpdateBookDTO) Changes() map[string]any {
	changes := make(map[string]any)
	if d.Title != nil {
		changes["title"] = *d.Title
	}
	if d.Description != nil {
		changes["description"] = d.Description
	}
	if d.PublicationYear != nil {
		changes["publication_year"] = d.PublicationYear
	}
	if d.CategoryID != nil {
		changes["category_id"] = d.CategoryID
	}
	if d.Image != nil {
		changes["image_url"] = d.Image
	}
	return changes
}

// AuthorResponse as embedded in book payloads
type AuthorResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CategoryResponse as embedded in book payloads
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookResponse DTO for responses. Image mirrors ImageURL, the frontend reads
// the alias.
type BookResponse struct {
	ID              int64             `json:"id"`
	Title           string            `json:"title"`
	Description     *string           `json:"description"`
	PublicationYear *int              `json:"publication_year"`
	ImageURL        *string           `json:"image_url"`
	Image           *string           `json:"image"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Authors         []AuthorResponse  `json:"authors"`
	Category        *CategoryResponse `json:"category"`
}

// PaginatedBooksResponse is the list/search envelope consumed by the frontend.
type PaginatedBooksResponse struct {
	Books       []BookResponse `json:"books"`
	Total       int64          `json:"total"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int64          `json:"totalPages"`
}

// Converters
func (d CreateBookDTO) ToModel() models.Book {
	return models.Book{
		Title:           d.Title,
		Description:     d.Description,
		PublicationYear: d.PublicationYear,
		CategoryID:      d.CategoryID,
		ImageURL:        d.Image,
	}
}

func FromModelToAuthorResponse(a models.Author) AuthorResponse {
	return AuthorResponse{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName}
}

func FromModelToCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

func FromModelToBookResponse(b models.Book) BookResponse {
	authors := make([]AuthorResponse, 0, len(b.Authors))
	for _, a := range b.Authors {
		authors = append(authors, FromModelToAuthorResponse(a))
	}
	var category *CategoryResponse
	if b.Category != nil {
		c := FromModelToCategoryResponse(*b.Category)
		category = &c
	}
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Description:     b.Description,
		PublicationYear: b.PublicationYear,
		ImageURL:        b.ImageURL,
		Image:           b.ImageURL,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Authors:         authors,
		Category:        category,
	}
}

// NewPaginatedBooksResponse builds the list envelope. totalPages is
// ceil(total/pageSize).
func NewPaginatedBooksResponse(books []BookResponse, total int64, page, pageSize int) PaginatedBooksResponse {
	return PaginatedBooksResponse{
		Books:       books,
		Total:       total,
		CurrentPage: page,
		TotalPages:  (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
