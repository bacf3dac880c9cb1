package service_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookhub/internal/api/models"
	"bookhub/internal/api/repository"
	"bookhub/internal/api/service"
	"bookhub/internal/storage"
)

func setupAttachmentTest(t *testing.T) (service.AttachmentService, *repository.BookRepo, *storage.FileStore, func()) {
	dbPath := "./test_attachments_" + t.Name() + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath+"?_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Author{}, &models.Category{}, &models.Book{}))

	repo := repository.NewBookRepo(db)
	store := storage.NewFileStore(storage.Config{Dir: t.TempDir()})
	svc := service.NewAttachmentService(repo, store, nil)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return svc, repo, store, cleanup
}

func createBook(t *testing.T, repo *repository.BookRepo, title string) *models.Book {
	b := &models.Book{Title: title}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestAttachmentService_UploadAndDownload(t *testing.T) {
	svc, repo, _, cleanup := setupAttachmentTest(t)
	defer cleanup()
	book := createBook(t, repo, "Uploaded")

	url, err := svc.Upload(context.Background(), book.ID, strings.NewReader("epub bytes"), "novel.epub")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/books/bookFile-"))

	// the row now points at the stored file
	stored, err := repo.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FileURL)
	assert.Equal(t, url, *stored.FileURL)

	abs, filename, err := svc.Download(context.Background(), book.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(abs, filename))

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "epub bytes", string(data))
}

func TestAttachmentService_Upload_ReplacesPreviousFile(t *testing.T) {
	svc, repo, store, cleanup := setupAttachmentTest(t)
	defer cleanup()
	book := createBook(t, repo, "Replaced")

	first, err := svc.Upload(context.Background(), book.ID, strings.NewReader("v1"), "a.epub")
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), book.ID, strings.NewReader("v2"), "b.fb2")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// old file is gone, row references the new one
	_, err = store.Resolve(first)
	assert.True(t, os.IsNotExist(err))

	stored, err := repo.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FileURL)
	assert.Equal(t, second, *stored.FileURL)
}

func TestAttachmentService_Upload_InvalidTypeLeavesBookUntouched(t *testing.T) {
	svc, repo, _, cleanup := setupAttachmentTest(t)
	defer cleanup()
	book := createBook(t, repo, "Untouched")

	_, err := svc.Upload(context.Background(), book.ID, strings.NewReader("nope"), "virus.exe")
	assert.ErrorIs(t, err, service.ErrInvalidFileType)

	stored, err := repo.GetByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.FileURL)
}

func TestAttachmentService_Upload_BookNotFound(t *testing.T) {
	svc, _, _, cleanup := setupAttachmentTest(t)
	defer cleanup()

	_, err := svc.Upload(context.Background(), 9999, strings.NewReader("x"), "a.epub")
	assert.ErrorIs(t, err, service.ErrBookNotFound)
}

func TestAttachmentService_Download_NoAttachment(t *testing.T) {
	svc, repo, _, cleanup := setupAttachmentTest(t)
	defer cleanup()
	book := createBook(t, repo, "Fileless")

	_, _, err := svc.Download(context.Background(), book.ID)
	assert.ErrorIs(t, err, service.ErrFileNotFound)
}

func TestAttachmentService_Download_FileVanished(t *testing.T) {
	svc, repo, store, cleanup := setupAttachmentTest(t)
	defer cleanup()
	book := createBook(t, repo, "Vanished")

	url, err := svc.Upload(context.Background(), book.ID, strings.NewReader("x"), "a.epub")
	require.NoError(t, err)
	require.NoError(t, store.Remove(url))

	_, _, err = svc.Download(context.Background(), book.ID)
	assert.ErrorIs(t, err, service.ErrFileNotFound)
}
