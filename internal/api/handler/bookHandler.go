package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/internal/api/dto"
	"bookhub/internal/api/middleware"
	"bookhub/internal/api/repository"
	"bookhub/internal/api/service"
)

type BookHandler struct {
	svc         service.BookService
	attachments service.AttachmentService
}

func NewBookHandler(svc service.BookService, attachments service.AttachmentService) *BookHandler {
	return &BookHandler{svc: svc, attachments: attachments}
}

// RegisterRoutes mounts the book endpoints. Reads are public, mutations and
// upload require the admin role, download any authenticated user.
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/:id", h.Get)

	rg.POST("", authMW, middleware.RequireAdmin(), h.Create)
	rg.PUT("/:id", authMW, middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:id", authMW, middleware.RequireAdmin(), h.Delete)

	rg.POST("/:id/upload", authMW, middleware.RequireAdmin(), h.Upload)
	rg.GET("/:id/download", authMW, h.Download)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, limit := pagination(c)

	list, total, err := h.svc.GetAll(ctx, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch books"})
		return
	}

	resp := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.FromModelToBookResponse(b))
	}

	c.JSON(http.StatusOK, dto.NewPaginatedBooksResponse(resp, total, page, limit))
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch book"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToBookResponse(*b))
}

func (h *BookHandler) Search(c *gin.Context) {
	filters := repository.SearchFilters{
		Title:    strings.TrimSpace(c.Query("title")),
		Author:   strings.TrimSpace(c.Query("author")),
		Category: strings.TrimSpace(c.Query("category")),
	}
	page, limit := pagination(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.svc.Search(ctx, filters, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search books"})
		return
	}

	resp := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.FromModelToBookResponse(b))
	}

	c.JSON(http.StatusOK, dto.NewPaginatedBooksResponse(resp, total, page, limit))
}

func (h *BookHandler) Create(c *gin.Context) {
	var in dto.CreateBookDTO
	if err := bindStrictJSON(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel()
	created, err := h.svc.Create(ctx, &model, in.AuthorIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired),
			errors.Is(err, service.ErrAuthorNotFound),
			errors.Is(err, service.ErrInvalidAssociation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create book"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToBookResponse(*created))
}

func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var in dto.UpdateBookDTO
	if err := bindStrictJSON(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Update(ctx, id, in); err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrAuthorNotFound),
			errors.Is(err, service.ErrInvalidAssociation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update book"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "book updated"})
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}

// Upload receives the multipart bookFile field and attaches it to the book.
func (h *BookHandler) Upload(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("bookFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file was uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	fileURL, err := h.attachments.Upload(ctx, id, file, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrInvalidFileType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "file uploaded successfully",
		"fileUrl": fileURL,
	})
}

func (h *BookHandler) Download(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	path, filename, err := h.attachments.Download(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) || errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to download file"})
		return
	}

	c.FileAttachment(path, filename)
}
