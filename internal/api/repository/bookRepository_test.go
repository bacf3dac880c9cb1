package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookhub/internal/api/models"
	"bookhub/internal/api/repository"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	// _fk=1 enables foreign key enforcement, sqlite leaves it off by default
	db, err := gorm.Open(sqlite.Open(dbPath+"?_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.Category{},
		&models.Book{},
		&models.Comment{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func seedCatalog(t *testing.T, db *gorm.DB) (authors []models.Author, categories []models.Category, books []models.Book) {
	authors = []models.Author{
		{FirstName: "Ursula", LastName: "Le Guin"},
		{FirstName: "Stanislaw", LastName: "Lem"},
	}
	require.NoError(t, db.Create(&authors).Error)

	categories = []models.Category{
		{Name: "Science Fiction"},
		{Name: "Essays"},
	}
	require.NoError(t, db.Create(&categories).Error)

	books = []models.Book{
		{Title: "Solaris", CategoryID: &categories[0].ID, Authors: []models.Author{authors[1]}},
		{Title: "The Dispossessed", CategoryID: &categories[0].ID, Authors: []models.Author{authors[0]}},
		{Title: "Anonymous Pamphlet"}, // no author, no category
	}
	require.NoError(t, db.Create(&books).Error)
	return authors, categories, books
}

func TestBookRepo_GetAll(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	seedCatalog(t, db)

	list, total, err := repo.GetAll(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	// alphabetical by title
	assert.Equal(t, "Anonymous Pamphlet", list[0].Title)
	assert.Equal(t, "Solaris", list[1].Title)

	// second page holds the remainder
	list, total, err = repo.GetAll(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 1)
	assert.Equal(t, "The Dispossessed", list[0].Title)
}

func TestBookRepo_GetByID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	_, categories, books := seedCatalog(t, db)

	b, err := repo.GetByID(context.Background(), books[0].ID)

	require.NoError(t, err)
	assert.Equal(t, "Solaris", b.Title)
	require.NotNil(t, b.Category)
	assert.Equal(t, categories[0].Name, b.Category.Name)
	require.Len(t, b.Authors, 1)
	assert.Equal(t, "Lem", b.Authors[0].LastName)
}

func TestBookRepo_GetByID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)

	_, err := repo.GetByID(context.Background(), 9999)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookRepo_Search_NoFilters(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	seedCatalog(t, db)

	// no filters behaves like a plain listing, books without authors or
	// categories stay visible
	list, total, err := repo.Search(context.Background(), repository.SearchFilters{}, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 3)
}

func TestBookRepo_Search_TitleIsCaseInsensitiveSubstring(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	seedCatalog(t, db)

	list, total, err := repo.Search(context.Background(), repository.SearchFilters{Title: "soLAr"}, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Solaris", list[0].Title)
}

func TestBookRepo_Search_AuthorFilterDropsAuthorlessBooks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	seedCatalog(t, db)

	list, total, err := repo.Search(context.Background(), repository.SearchFilters{Author: "le"}, 1, 10)

	require.NoError(t, err)
	// "le" matches Le Guin and Lem, the pamphlet has no authors at all
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	for _, b := range list {
		assert.NotEqual(t, "Anonymous Pamphlet", b.Title)
	}
}

func TestBookRepo_Search_AuthorMatchingBothNamesCountsOnce(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)

	author := models.Author{FirstName: "Anna", LastName: "Annabel"}
	require.NoError(t, db.Create(&author).Error)
	book := models.Book{Title: "Doubly Matched", Authors: []models.Author{author}}
	require.NoError(t, db.Create(&book).Error)

	list, total, err := repo.Search(context.Background(), repository.SearchFilters{Author: "anna"}, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

func TestBookRepo_Search_CategoryAndTitleCombined(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	seedCatalog(t, db)

	filters := repository.SearchFilters{Title: "dispossessed", Category: "science"}
	list, total, err := repo.Search(context.Background(), filters, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "The Dispossessed", list[0].Title)

	// same title, wrong category
	filters.Category = "essays"
	_, total, err = repo.Search(context.Background(), filters, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestBookRepo_Create_UnknownCategoryFails(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)

	missing := int64(424242)
	err := repo.Create(context.Background(), &models.Book{Title: "Orphan", CategoryID: &missing})

	assert.ErrorIs(t, err, repository.ErrForeignKeyViolated)
}

func TestBookRepo_UpdateFields(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	_, _, books := seedCatalog(t, db)

	err := repo.UpdateFields(context.Background(), books[0].ID, map[string]any{
		"title":            "Solaris (Revised)",
		"publication_year": 1961,
	})
	require.NoError(t, err)

	b, err := repo.GetByID(context.Background(), books[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Solaris (Revised)", b.Title)
	require.NotNil(t, b.PublicationYear)
	assert.Equal(t, 1961, *b.PublicationYear)
}

func TestBookRepo_UpdateFields_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)

	err := repo.UpdateFields(context.Background(), 9999, map[string]any{"title": "Ghost"})

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookRepo_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	_, _, books := seedCatalog(t, db)

	require.NoError(t, repo.Delete(context.Background(), books[0].ID))

	_, err := repo.GetByID(context.Background(), books[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// deleting again reports not found
	assert.ErrorIs(t, repo.Delete(context.Background(), books[0].ID), gorm.ErrRecordNotFound)
}

func TestBookRepo_ReplaceAuthors(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	authors, _, books := seedCatalog(t, db)

	// Solaris starts with Lem, replace with Le Guin only
	err := repo.ReplaceAuthors(context.Background(), books[0].ID, []int64{authors[0].ID})
	require.NoError(t, err)

	b, err := repo.GetByID(context.Background(), books[0].ID)
	require.NoError(t, err)
	require.Len(t, b.Authors, 1)
	assert.Equal(t, "Le Guin", b.Authors[0].LastName)

	// empty set clears the association
	require.NoError(t, repo.ReplaceAuthors(context.Background(), books[0].ID, nil))
	b, err = repo.GetByID(context.Background(), books[0].ID)
	require.NoError(t, err)
	assert.Empty(t, b.Authors)
}

func TestBookRepo_ReplaceAuthors_UnknownAuthorFailsWhole(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	authors, _, books := seedCatalog(t, db)

	err := repo.ReplaceAuthors(context.Background(), books[0].ID, []int64{authors[0].ID, 424242})
	assert.ErrorIs(t, err, repository.ErrForeignKeyViolated)

	// original author set untouched
	b, err := repo.GetByID(context.Background(), books[0].ID)
	require.NoError(t, err)
	require.Len(t, b.Authors, 1)
	assert.Equal(t, "Lem", b.Authors[0].LastName)
}

func TestBookRepo_ReplaceAuthors_BookNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := repository.NewBookRepo(db)
	authors, _, _ := seedCatalog(t, db)

	err := repo.ReplaceAuthors(context.Background(), 9999, []int64{authors[0].ID})

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
