package books

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "books.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.Author{}, &entities.Book{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db), db
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int {
	return &v
}

func createAuthor(t *testing.T, repo *Repository, name string) *entities.Author {
	t.Helper()
	author := &entities.Author{Name: name, BirthDate: date(1800, time.January, 1)}
	require.NoError(t, repo.CreateAuthor(author))
	return author
}

func createBook(t *testing.T, repo *Repository, title string, year *int, author *entities.Author) *entities.Book {
	t.Helper()
	book := &entities.Book{Title: title, ISBN: "9780000000000", PublicationYear: year, AuthorID: author.ID}
	require.NoError(t, repo.CreateBook(book))
	return book
}

func titles(list []entities.Book) []string {
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.Title)
	}
	return out
}

func TestParseSortKey(t *testing.T) {
	tests := map[string]SortKey{
		"":        SortByTitle,
		"title":   SortByTitle,
		"author":  SortByAuthor,
		"AUTHOR":  SortByAuthor,
		" year ":  SortByYear,
		"rating":  SortByTitle,
		"; DROP ": SortByTitle,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseSortKey(raw), "raw=%q", raw)
	}
}

func TestRepository_ListBooks_Sorting(t *testing.T) {
	repo, _ := setupTestDB(t)

	austen := createAuthor(t, repo, "Jane Austen")
	bronte := createAuthor(t, repo, "Charlotte Bronte")
	dickens := createAuthor(t, repo, "Charles Dickens")

	createBook(t, repo, "Persuasion", intPtr(1817), austen)
	createBook(t, repo, "Jane Eyre", intPtr(1847), bronte)
	createBook(t, repo, "Bleak House", intPtr(1853), dickens)
	createBook(t, repo, "Emma", intPtr(1815), austen)

	t.Run("title is the default", func(t *testing.T) {
		list, err := repo.ListBooks(ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bleak House", "Emma", "Jane Eyre", "Persuasion"}, titles(list))
	})

	t.Run("unknown sort falls back to title", func(t *testing.T) {
		list, err := repo.ListBooks(ListQuery{Sort: "isbn"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bleak House", "Emma", "Jane Eyre", "Persuasion"}, titles(list))
	})

	t.Run("year ascending", func(t *testing.T) {
		list, err := repo.ListBooks(ListQuery{Sort: SortByYear})
		require.NoError(t, err)
		require.Len(t, list, 4)
		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, *list[i-1].PublicationYear, *list[i].PublicationYear)
		}
	})

	t.Run("author name ascending", func(t *testing.T) {
		list, err := repo.ListBooks(ListQuery{Sort: SortByAuthor})
		require.NoError(t, err)
		require.Len(t, list, 4)
		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, list[i-1].Author.Name, list[i].Author.Name)
		}
		assert.Equal(t, "Charlotte Bronte", list[0].Author.Name)
		assert.Equal(t, "Jane Austen", list[3].Author.Name)
	})
}

func TestRepository_ListBooks_NullYearsSortFirst(t *testing.T) {
	repo, _ := setupTestDB(t)
	author := createAuthor(t, repo, "Anonymous")

	createBook(t, repo, "Dated", intPtr(1900), author)
	createBook(t, repo, "Undated", nil, author)

	list, err := repo.ListBooks(ListQuery{Sort: SortByYear})
	require.NoError(t, err)
	assert.Equal(t, []string{"Undated", "Dated"}, titles(list))
}

func TestRepository_ListBooks_Search(t *testing.T) {
	repo, _ := setupTestDB(t)
	author := createAuthor(t, repo, "Jane Austen")

	createBook(t, repo, "Emma", nil, author)
	createBook(t, repo, "Pride and Prejudice", nil, author)
	createBook(t, repo, "Sense and Sensibility", nil, author)
	createBook(t, repo, "100% Austen", nil, author)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"empty returns all", "", []string{"100% Austen", "Emma", "Pride and Prejudice", "Sense and Sensibility"}},
		{"whitespace returns all", "   ", []string{"100% Austen", "Emma", "Pride and Prejudice", "Sense and Sensibility"}},
		{"case-insensitive", "EMMA", []string{"Emma"}},
		{"substring", "and", []string{"Pride and Prejudice", "Sense and Sensibility"}},
		{"no match", "Dracula", []string{}},
		{"percent is literal", "%", []string{"100% Austen"}},
		{"underscore is literal", "_", []string{}},
		{"author name is not searched", "Austen", []string{"100% Austen"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.ListBooks(ListQuery{Search: tt.search})
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(list))
		})
	}
}

func TestRepository_ListAuthors(t *testing.T) {
	repo, _ := setupTestDB(t)
	createAuthor(t, repo, "Mark Twain")
	createAuthor(t, repo, "Herman Melville")

	authors, err := repo.ListAuthors()
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Herman Melville", authors[0].Name)
	assert.Equal(t, "Mark Twain", authors[1].Name)
}

func TestRepository_CreateBook_UnknownAuthor(t *testing.T) {
	repo, db := setupTestDB(t)

	err := repo.CreateBook(&entities.Book{Title: "Ghost", ISBN: "123", AuthorID: 42})

	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var count int64
	require.NoError(t, db.Model(&entities.Book{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_CreateBook_LinksAuthor(t *testing.T) {
	repo, _ := setupTestDB(t)
	author := createAuthor(t, repo, "Jane Austen")

	book := createBook(t, repo, "Emma", intPtr(1815), author)

	assert.NotZero(t, book.ID)
	assert.Equal(t, "Jane Austen", book.Author.Name)

	stored, err := repo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, stored.AuthorID)
	assert.Equal(t, "Jane Austen", stored.Author.Name)
}

func TestRepository_DeleteBook_LastBookRemovesAuthor(t *testing.T) {
	repo, db := setupTestDB(t)
	author := createAuthor(t, repo, "Jane Austen")
	book := createBook(t, repo, "Emma", nil, author)

	result, err := repo.DeleteBook(book.ID)

	require.NoError(t, err)
	assert.True(t, result.AuthorRemoved)
	assert.Equal(t, "Emma", result.Book.Title)
	assert.Equal(t, "Jane Austen", result.Author.Name)

	_, err = repo.GetBookByID(book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, db.First(&entities.Author{}, author.ID).Error, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteBook_KeepsAuthorWithOtherBooks(t *testing.T) {
	repo, db := setupTestDB(t)
	author := createAuthor(t, repo, "Jane Austen")
	emma := createBook(t, repo, "Emma", nil, author)
	createBook(t, repo, "Persuasion", nil, author)

	result, err := repo.DeleteBook(emma.ID)

	require.NoError(t, err)
	assert.False(t, result.AuthorRemoved)

	assert.NoError(t, db.First(&entities.Author{}, author.ID).Error)

	var count int64
	require.NoError(t, db.Model(&entities.Book{}).Where("author_id = ?", author.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_DeleteBook_NotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	result, err := repo.DeleteBook(404)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
