// Package catalog holds the book and author use cases: listing, adding and
// deleting, with payload validation and typed outcomes.
//
// Every method returns one of:
//   - nil on success
//   - *ValidationError when the payload is rejected before touching storage
//   - ErrAuthorNotFound / ErrBookNotFound for unresolved references
//   - *PersistenceError when storage failed and the unit of work rolled back
package catalog

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/entities"
)

// Store defines the persistence operations the catalog needs.
type Store interface {
	ListBooks(q books.ListQuery) ([]entities.Book, error)
	ListAuthors() ([]entities.Author, error)
	GetBookByID(id uint) (*entities.Book, error)
	CreateAuthor(author *entities.Author) error
	CreateBook(book *entities.Book) error
	DeleteBook(id uint) (*books.DeleteResult, error)
}

// Auditor records successful mutations. Implementations must not block.
type Auditor interface {
	LogCreate(ctx context.Context, entityType string, entityID uint, name string)
	LogDelete(ctx context.Context, entityType string, entityID uint, name string)
}

type Service struct {
	store   Store
	auditor Auditor
}

// NewService creates a catalog service. auditor may be nil.
func NewService(store Store, auditor Auditor) *Service {
	return &Service{store: store, auditor: auditor}
}

// ListBooks returns the books matching q. Invalid sort keys fall back to title.
func (s *Service) ListBooks(ctx context.Context, q books.ListQuery) ([]entities.Book, error) {
	q.Sort = books.ParseSortKey(string(q.Sort))
	list, err := s.store.ListBooks(q)
	if err != nil {
		return nil, &PersistenceError{Op: "list books", Err: err}
	}
	return list, nil
}

// ListAuthors returns all authors ordered by name.
func (s *Service) ListAuthors(ctx context.Context) ([]entities.Author, error) {
	authors, err := s.store.ListAuthors()
	if err != nil {
		return nil, &PersistenceError{Op: "list authors", Err: err}
	}
	return authors, nil
}

// GetBook returns a single book with its author.
func (s *Service) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	book, err := s.store.GetBookByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get book", Err: err}
	}
	return book, nil
}

// AddAuthor validates in and stores a new author.
func (s *Service) AddAuthor(ctx context.Context, in AuthorInput) (*entities.Author, error) {
	author, err := in.Author()
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateAuthor(author); err != nil {
		log.Printf("Failed to add author %q: %v", author.Name, err)
		return nil, &PersistenceError{Op: "add author", Err: err}
	}

	if s.auditor != nil {
		s.auditor.LogCreate(ctx, "author", author.ID, author.Name)
	}
	return author, nil
}

// AddBook validates in, resolves the author and stores a new book.
func (s *Service) AddBook(ctx context.Context, in BookInput) (*entities.Book, error) {
	book, err := in.Book()
	if err != nil {
		return nil, err
	}

	err = s.store.CreateBook(book)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuthorNotFound
	}
	if err != nil {
		log.Printf("Failed to add book %q: %v", book.Title, err)
		return nil, &PersistenceError{Op: "add book", Err: err}
	}

	if s.auditor != nil {
		s.auditor.LogCreate(ctx, "book", book.ID, book.Title)
	}
	return book, nil
}

// DeleteBook removes the book and, if it was the author's last one, the author.
func (s *Service) DeleteBook(ctx context.Context, id uint) (*books.DeleteResult, error) {
	result, err := s.store.DeleteBook(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		log.Printf("Failed to delete book %d: %v", id, err)
		return nil, &PersistenceError{Op: "delete book", Err: err}
	}

	if s.auditor != nil {
		s.auditor.LogDelete(ctx, "book", result.Book.ID, result.Book.Title)
		if result.AuthorRemoved {
			s.auditor.LogDelete(ctx, "author", result.Author.ID, result.Author.Name)
		}
	}
	return result, nil
}
