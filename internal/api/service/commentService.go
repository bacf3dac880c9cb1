package service

import (
	"context"
	"errors"

	"bookhub/internal/api/dto"
	"bookhub/internal/api/models"
	"bookhub/internal/api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(userID string, bookID int64, content string) (*dto.CommentResponse, error)
	DeleteComment(commentID int64, userID string) error
	GetBookComments(bookID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	bookRepo    *repository.BookRepo
}

func NewCommentService(commentRepo repository.CommentRepository, bookRepo *repository.BookRepo) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		bookRepo:    bookRepo,
	}
}

// CreateComment creates a new comment for a book
func (s *commentService) CreateComment(userID string, bookID int64, content string) (*dto.CommentResponse, error) {
	ctx := context.Background()

	// Check if book exists
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		UserID:  userID,
		BookID:  bookID,
		Content: content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	// Reload with user data
	comment, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToCommentResponse(comment), nil
}

// DeleteComment deletes a comment (owner only)
func (s *commentService) DeleteComment(commentID int64, userID string) error {
	return s.commentRepo.Delete(commentID, userID)
}

// GetBookComments retrieves all comments for a book with pagination
func (s *commentService) GetBookComments(bookID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	ctx := context.Background()

	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByBook(bookID, page, pageSize)
	if err != nil {
		return nil, err
	}

	commentResponses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		commentResponses = append(commentResponses, *dto.FromModelToCommentResponse(&comment))
	}

	return dto.NewPaginatedCommentResponse(commentResponses, total, page, pageSize), nil
}
