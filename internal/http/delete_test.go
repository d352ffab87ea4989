package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/entities"
)

func TestDeleteBookForm(t *testing.T) {
	t.Run("last book removes its author", func(t *testing.T) {
		app := newTestApp(t)
		austen := app.addAuthor(t, "Jane Austen", "1775-12-16")
		emma := app.addBook(t, "Emma", "978-0141439587", "1815", austen)

		rr := app.postForm("/book/"+uintString(emma)+"/delete", nil)

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))
		assert.Zero(t, app.count(t, &entities.Book{}))
		assert.Zero(t, app.count(t, &entities.Author{}))

		page := app.get("/")
		assert.Contains(t, page.Body.String(), "Book &#39;Emma&#39; deleted along with author Jane Austen")
	})

	t.Run("author with other books is kept", func(t *testing.T) {
		app := newTestApp(t)
		austen := app.addAuthor(t, "Jane Austen", "1775-12-16")
		emma := app.addBook(t, "Emma", "978-0141439587", "1815", austen)
		app.addBook(t, "Persuasion", "978-0141439686", "1817", austen)

		rr := app.postForm("/book/"+uintString(emma)+"/delete", nil)

		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, int64(1), app.count(t, &entities.Book{}))
		assert.Equal(t, int64(1), app.count(t, &entities.Author{}))

		body := app.get("/").Body.String()
		assert.Contains(t, body, "Book &#39;Emma&#39; deleted")
		assert.NotContains(t, body, "along with author")
		assert.Contains(t, body, "Persuasion")
	})

	t.Run("unknown book", func(t *testing.T) {
		app := newTestApp(t)

		rr := app.postForm("/book/999/delete", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Book not found")
	})

	t.Run("malformed id", func(t *testing.T) {
		app := newTestApp(t)

		for _, id := range []string{"abc", "0", "-1"} {
			rr := app.postForm("/book/"+id+"/delete", nil)
			assert.Equal(t, http.StatusBadRequest, rr.Code, id)
		}
	})
}

func TestDeleteBookAPI(t *testing.T) {
	t.Run("cascade is reported", func(t *testing.T) {
		app := newTestApp(t)
		austen := app.addAuthor(t, "Jane Austen", "1775-12-16")
		emma := app.addBook(t, "Emma", "978-0141439587", "1815", austen)

		rr := app.sendJSON(http.MethodDelete, "/api/books/"+uintString(emma), nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Message string `json:"message"`
			Result  struct {
				Book          entities.Book   `json:"book"`
				Author        entities.Author `json:"author"`
				AuthorRemoved bool            `json:"author_removed"`
			} `json:"result"`
		}
		decodeJSON(t, rr, &resp)

		assert.Equal(t, "Book 'Emma' deleted along with author Jane Austen", resp.Message)
		assert.Equal(t, emma, resp.Result.Book.ID)
		assert.Equal(t, "Jane Austen", resp.Result.Author.Name)
		assert.True(t, resp.Result.AuthorRemoved)
		assert.Zero(t, app.count(t, &entities.Author{}))
	})

	t.Run("not found", func(t *testing.T) {
		app := newTestApp(t)

		rr := app.sendJSON(http.MethodDelete, "/api/books/999", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var resp ErrorResponse
		decodeJSON(t, rr, &resp)
		assert.Equal(t, CodeNotFound, resp.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		app := newTestApp(t)

		rr := app.sendJSON(http.MethodDelete, "/api/books/abc", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
