package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/middleware"
)

// DeleteController removes books. Both routes apply the same cascade: the
// author goes too when the deleted book was their last one.
type DeleteController struct {
	catalog  *catalog.Service
	sessions *middleware.SessionManager
}

func NewDeleteController(service *catalog.Service, sessions *middleware.SessionManager) *DeleteController {
	return &DeleteController{catalog: service, sessions: sessions}
}

// DeleteBookForm handles POST /book/:id/delete from the list page.
func (dc *DeleteController) DeleteBookForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.String(http.StatusBadRequest, "Invalid book id")
		return
	}

	result, err := dc.catalog.DeleteBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			c.String(http.StatusNotFound, "Book not found")
			return
		}
		logFailure(c, err, "delete book "+strconv.FormatUint(uint64(id), 10))
		c.String(http.StatusInternalServerError, "Could not delete the book")
		return
	}

	putFlash(c, dc.sessions, middleware.FlashSuccess, catalog.BookDeletedMessage(result))
	c.Redirect(http.StatusSeeOther, "/")
}

// DeleteBook handles DELETE /api/books/:id
func (dc *DeleteController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := dc.catalog.DeleteBook(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, "delete book")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": catalog.BookDeletedMessage(result),
		"result":  result,
	})
}
