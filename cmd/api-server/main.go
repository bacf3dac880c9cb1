package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"bookhub/internal/api/handler"
	"bookhub/internal/api/middleware"
	"bookhub/internal/api/repository"
	"bookhub/internal/api/service"
	"bookhub/internal/cache"
	"bookhub/internal/config"
	"bookhub/internal/database"
	"bookhub/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("could not load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	// Caching is optional; a missing redis only costs us the cache.
	var bookCache *cache.BookCache
	if cfg.RedisAddr != "" {
		bookCache, err = cache.NewBookCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			logger.Warn("redis unavailable, running without cache", "error", err)
			bookCache = nil
		}
	}

	fileStore := storage.NewFileStore(storage.Config{
		Dir:       cfg.UploadDir,
		URLPrefix: cfg.UploadURLPrefix,
	})

	bookRepo := repository.NewBookRepo(db)
	authorRepo := repository.NewAuthorRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	bookService := service.NewBookService(bookRepo, fileStore, bookCache)
	attachmentService := service.NewAttachmentService(bookRepo, fileStore, bookCache)
	authorService := service.NewAuthorService(authorRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	commentService := service.NewCommentService(commentRepo, bookRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMW := middleware.AuthMiddleware(authService)

	handler.NewAuthHandler(authService).RegisterRoutes(r.Group("/auth"))

	books := r.Group("/books")
	handler.NewBookHandler(bookService, attachmentService).RegisterRoutes(books, authMW)
	handler.NewAuthorHandler(authorService).RegisterRoutes(r.Group("/authors"), authMW)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(r.Group("/categories"), authMW)
	handler.NewCommentHandler(commentService).RegisterRoutes(books, r.Group("/comments"), authMW)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
