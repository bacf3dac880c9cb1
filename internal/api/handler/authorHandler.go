package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/internal/api/dto"
	"bookhub/internal/api/middleware"
	"bookhub/internal/api/service"
)

type AuthorHandler struct {
	svc service.AuthorService
}

func NewAuthorHandler(svc service.AuthorService) *AuthorHandler {
	return &AuthorHandler{svc: svc}
}

func (h *AuthorHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/books", h.Books)

	rg.POST("", authMW, middleware.RequireAdmin(), h.Create)
	rg.PUT("/:id", authMW, middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:id", authMW, middleware.RequireAdmin(), h.Delete)
}

func (h *AuthorHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch authors"})
		return
	}

	resp := make([]dto.AuthorResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, dto.FromModelToAuthorResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthorHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	a, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch author"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToAuthorResponse(*a))
}

func (h *AuthorHandler) Books(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	books, err := h.svc.GetBooks(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch author books"})
		return
	}

	resp := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, dto.FromModelToBookResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthorHandler) Create(c *gin.Context) {
	var in dto.CreateAuthorDTO
	if err := bindStrictJSON(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel()
	if err := h.svc.Create(ctx, &model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create author"})
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToAuthorResponse(model))
}

func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var in dto.UpdateAuthorDTO
	if err := bindStrictJSON(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update author"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToAuthorResponse(*updated))
}

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete author"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "author deleted"})
}
