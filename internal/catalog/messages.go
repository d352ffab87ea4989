package catalog

import (
	"fmt"

	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/entities"
)

func AuthorAddedMessage(a *entities.Author) string {
	return fmt.Sprintf("Author %s added", a.Name)
}

func BookAddedMessage(b *entities.Book) string {
	return fmt.Sprintf("Book '%s' added", b.Title)
}

// BookDeletedMessage names every entity the delete removed.
func BookDeletedMessage(r *books.DeleteResult) string {
	if r.AuthorRemoved {
		return fmt.Sprintf("Book '%s' deleted along with author %s", r.Book.Title, r.Author.Name)
	}
	return fmt.Sprintf("Book '%s' deleted", r.Book.Title)
}
