package dto

import (
	"time"

	"bookhub/internal/api/models"
)

// CreateCommentDTO for creating a comment
type CreateCommentDTO struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        comment.ID,
		Username:  comment.User.Username,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// PaginatedCommentResponse for returning paginated comments
type PaginatedCommentResponse struct {
	Comments    []CommentResponse `json:"comments"`
	Total       int64             `json:"total"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int64             `json:"totalPages"`
}

// NewPaginatedCommentResponse creates a paginated comment response
func NewPaginatedCommentResponse(comments []CommentResponse, total int64, page, pageSize int) *PaginatedCommentResponse {
	return &PaginatedCommentResponse{
		Comments:    comments,
		Total:       total,
		CurrentPage: page,
		TotalPages:  (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
