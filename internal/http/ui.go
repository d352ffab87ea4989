package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/middleware"
)

// UIController serves the HTML pages: the book list and the two add forms.
type UIController struct {
	catalog  *catalog.Service
	sessions *middleware.SessionManager
}

func NewUIController(service *catalog.Service, sessions *middleware.SessionManager) *UIController {
	return &UIController{
		catalog:  service,
		sessions: sessions,
	}
}

// BooksPage handles GET /
func (controller *UIController) BooksPage(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	sort := books.ParseSortKey(c.Query("sort"))

	// The pending message is consumed even when the list fails to load.
	flash := popFlash(c, controller.sessions)

	list, err := controller.catalog.ListBooks(c.Request.Context(), books.ListQuery{Search: search, Sort: sort})
	if err != nil {
		logFailure(c, err, "list books")
		c.HTML(http.StatusInternalServerError, "home", pageData(c, "Books", gin.H{
			"TotalBooks": 0,
			"Search":     search,
			"Sort":       string(sort),
			"Flash":      &middleware.Flash{Kind: middleware.FlashError, Message: "Could not load books"},
		}))
		return
	}

	c.HTML(http.StatusOK, "home", pageData(c, "Books", gin.H{
		"Books":      list,
		"TotalBooks": len(list),
		"Search":     search,
		"Sort":       string(sort),
		"Flash":      flash,
	}))
}

// AddAuthorPage handles GET /add_author
func (controller *UIController) AddAuthorPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add_author", pageData(c, "Add author", gin.H{
		"Form": catalog.AuthorInput{},
	}))
}

// AddAuthor handles POST /add_author. The form is re-rendered with the
// outcome; on success the inputs are cleared.
func (controller *UIController) AddAuthor(c *gin.Context) {
	var in catalog.AuthorInput
	if err := c.ShouldBind(&in); err != nil {
		controller.renderAuthorForm(c, http.StatusBadRequest, in, middleware.FlashError, "Invalid form submission")
		return
	}

	author, err := controller.catalog.AddAuthor(c.Request.Context(), in)
	if err != nil {
		var ve *catalog.ValidationError
		if errors.As(err, &ve) {
			controller.renderAuthorForm(c, http.StatusBadRequest, in, middleware.FlashError, ve.Message)
			return
		}
		logFailure(c, err, "add author")
		controller.renderAuthorForm(c, http.StatusInternalServerError, in, middleware.FlashError, "Could not save the author, please try again")
		return
	}

	controller.renderAuthorForm(c, http.StatusOK, catalog.AuthorInput{}, middleware.FlashSuccess, catalog.AuthorAddedMessage(author))
}

func (controller *UIController) renderAuthorForm(c *gin.Context, status int, form catalog.AuthorInput, kind, message string) {
	c.HTML(status, "add_author", pageData(c, "Add author", gin.H{
		"Form":  form,
		"Flash": &middleware.Flash{Kind: kind, Message: message},
	}))
}

// AddBookPage handles GET /add_book
func (controller *UIController) AddBookPage(c *gin.Context) {
	controller.renderBookForm(c, http.StatusOK, catalog.BookInput{}, nil)
}

// AddBook handles POST /add_book. Success redirects to the list with a
// status message; failures re-render the form.
func (controller *UIController) AddBook(c *gin.Context) {
	var in catalog.BookInput
	if err := c.ShouldBind(&in); err != nil {
		controller.renderBookForm(c, http.StatusBadRequest, in, &middleware.Flash{Kind: middleware.FlashError, Message: "Invalid form submission"})
		return
	}

	book, err := controller.catalog.AddBook(c.Request.Context(), in)
	if err != nil {
		var ve *catalog.ValidationError
		switch {
		case errors.As(err, &ve):
			controller.renderBookForm(c, http.StatusBadRequest, in, &middleware.Flash{Kind: middleware.FlashError, Message: ve.Message})
		case errors.Is(err, catalog.ErrAuthorNotFound):
			controller.renderBookForm(c, http.StatusBadRequest, in, &middleware.Flash{Kind: middleware.FlashError, Message: "Author not found"})
		default:
			logFailure(c, err, "add book")
			controller.renderBookForm(c, http.StatusInternalServerError, in, &middleware.Flash{Kind: middleware.FlashError, Message: "Could not save the book, please try again"})
		}
		return
	}

	putFlash(c, controller.sessions, middleware.FlashSuccess, catalog.BookAddedMessage(book))
	c.Redirect(http.StatusSeeOther, "/")
}

func (controller *UIController) renderBookForm(c *gin.Context, status int, form catalog.BookInput, flash *middleware.Flash) {
	authors, err := controller.catalog.ListAuthors(c.Request.Context())
	if err != nil && flash == nil {
		status = http.StatusInternalServerError
		flash = &middleware.Flash{Kind: middleware.FlashError, Message: "Could not load authors"}
	}

	c.HTML(status, "add_book", pageData(c, "Add book", gin.H{
		"Form":    form,
		"Authors": authors,
		"Flash":   flash,
	}))
}
