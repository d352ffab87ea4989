// Package books provides database operations for the author and book tables.
//
// This package implements the catalog.Store interface defined in
// internal/catalog/service.go.
//
// # Interface Implementation
//
//	var _ catalog.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	list, err := repo.ListBooks(books.ListQuery{Search: "emma", Sort: books.SortByAuthor})
package books

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/entities"
)

// SortKey selects the ordering of a book listing.
type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByAuthor SortKey = "author"
	SortByYear   SortKey = "year"
)

// ParseSortKey maps a raw query value to a SortKey. Unknown values fall back
// to SortByTitle.
func ParseSortKey(raw string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case SortByAuthor:
		return SortByAuthor
	case SortByYear:
		return SortByYear
	default:
		return SortByTitle
	}
}

// ListQuery holds the optional listing filters.
type ListQuery struct {
	Search string  // case-insensitive substring of the title
	Sort   SortKey // defaults to SortByTitle
}

// DeleteResult describes what a book deletion removed.
type DeleteResult struct {
	Book          entities.Book   `json:"book"`
	Author        entities.Author `json:"author"`
	AuthorRemoved bool            `json:"author_removed"`
}

// Repository handles all author and book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListBooks returns every book matching q with its author preloaded.
func (r *Repository) ListBooks(q ListQuery) ([]entities.Book, error) {
	query := r.db.Model(&entities.Book{}).Preload("Author")

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		query = query.Where(`LOWER(books.title) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}

	switch ParseSortKey(string(q.Sort)) {
	case SortByYear:
		query = query.Order("books.publication_year ASC")
	case SortByAuthor:
		query = query.Joins("JOIN authors ON authors.id = books.author_id").Order("authors.name ASC")
	default:
		query = query.Order("books.title ASC")
	}

	var list []entities.Book
	err := query.Order("books.id ASC").Find(&list).Error
	return list, err
}

// ListAuthors returns all authors ordered by name.
func (r *Repository) ListAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("name ASC, id ASC").Find(&authors).Error
	return authors, err
}

// GetBookByID retrieves a book with its author.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Preload("Author").First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateAuthor inserts a new author in its own transaction.
func (r *Repository) CreateAuthor(author *entities.Author) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Books").Create(author).Error; err != nil {
			return fmt.Errorf("insert author: %w", err)
		}
		return nil
	})
}

// CreateBook resolves book.AuthorID and inserts the book in one transaction.
// Returns gorm.ErrRecordNotFound (wrapped) when the author does not exist.
func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var author entities.Author
		if err := tx.First(&author, book.AuthorID).Error; err != nil {
			return fmt.Errorf("resolve author %d: %w", book.AuthorID, err)
		}

		if err := tx.Omit("Author").Create(book).Error; err != nil {
			return fmt.Errorf("insert book: %w", err)
		}

		book.Author = author
		return nil
	})
}

// DeleteBook removes the book and, when it was the author's last one, the
// author as well. Both deletions commit together.
// Returns gorm.ErrRecordNotFound (wrapped) when the book does not exist.
func (r *Repository) DeleteBook(id uint) (*DeleteResult, error) {
	var result DeleteResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Preload("Author").First(&book, id).Error; err != nil {
			return fmt.Errorf("load book %d: %w", id, err)
		}

		var others int64
		if err := tx.Model(&entities.Book{}).
			Where("author_id = ? AND id <> ?", book.AuthorID, book.ID).
			Count(&others).Error; err != nil {
			return fmt.Errorf("count books of author %d: %w", book.AuthorID, err)
		}

		if err := tx.Delete(&entities.Book{}, book.ID).Error; err != nil {
			return fmt.Errorf("delete book %d: %w", book.ID, err)
		}

		if others == 0 {
			if err := tx.Delete(&entities.Author{}, book.AuthorID).Error; err != nil {
				return fmt.Errorf("delete author %d: %w", book.AuthorID, err)
			}
			result.AuthorRemoved = true
		}

		result.Book = book
		result.Author = book.Author
		result.Book.Author = entities.Author{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
