package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database/books"
)

// BooksController serves the JSON API over books and authors.
type BooksController struct {
	catalog *catalog.Service
}

func NewBooksController(service *catalog.Service) *BooksController {
	return &BooksController{catalog: service}
}

// CreateBookRequest is the JSON body of POST /api/books.
type CreateBookRequest struct {
	Title           string `json:"title"`
	ISBN            string `json:"isbn"`
	PublicationYear *int   `json:"publication_year"`
	AuthorID        uint   `json:"author_id"`
}

func (r CreateBookRequest) input() catalog.BookInput {
	in := catalog.BookInput{
		Title: r.Title,
		ISBN:  r.ISBN,
	}
	if r.PublicationYear != nil {
		in.PublicationYear = strconv.Itoa(*r.PublicationYear)
	}
	if r.AuthorID != 0 {
		in.AuthorID = strconv.FormatUint(uint64(r.AuthorID), 10)
	}
	return in
}

// GetAllBooks handles GET /api/books?search=&sort=
func (bc *BooksController) GetAllBooks(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	sort := books.ParseSortKey(c.Query("sort"))

	list, err := bc.catalog.ListBooks(c.Request.Context(), books.ListQuery{Search: search, Sort: sort})
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books":  list,
		"total":  len(list),
		"search": search,
		"sort":   sort,
	})
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook handles POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	book, err := bc.catalog.AddBook(c.Request.Context(), req.input())
	if err != nil {
		respondCatalogError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

// GetAllAuthors handles GET /api/authors
func (bc *BooksController) GetAllAuthors(c *gin.Context) {
	authors, err := bc.catalog.ListAuthors(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authors": authors,
		"total":   len(authors),
	})
}

// CreateAuthor handles POST /api/authors
func (bc *BooksController) CreateAuthor(c *gin.Context) {
	var in catalog.AuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	author, err := bc.catalog.AddAuthor(c.Request.Context(), in)
	if err != nil {
		respondCatalogError(c, err, "create author")
		return
	}
	respondCreated(c, author)
}
