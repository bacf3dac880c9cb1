package service

import "errors"

// Failure taxonomy surfaced to the HTTP layer. Handlers map these onto
// status codes; anything not in this set is treated as a storage failure.
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrAuthorNotFound   = errors.New("author not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCommentNotFound  = errors.New("comment not found")

	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidAssociation = errors.New("referenced record does not exist")

	ErrInvalidFileType = errors.New("only EPUB and FB2 files are allowed")
	ErrFileNotFound    = errors.New("book file not found")
)
