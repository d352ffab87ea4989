package entities

import (
	"fmt"
	"time"
)

// DateLayout is the on-the-wire format for author dates.
const DateLayout = "2006-01-02"

type Author struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"not null;index;size:256" json:"name"`
	BirthDate time.Time  `gorm:"not null" json:"birth_date"`
	DeathDate *time.Time `json:"death_date,omitempty"`
	Books     []Book     `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"books,omitempty"`
}

func (Author) TableName() string {
	return "authors"
}

// String renders "Name (1775-12-16 – 1817-07-18)", or "Name (b. 1775-12-16)"
// for a living author.
func (a Author) String() string {
	if a.DeathDate == nil {
		return fmt.Sprintf("%s (b. %s)", a.Name, a.BirthDate.Format(DateLayout))
	}
	return fmt.Sprintf("%s (%s – %s)", a.Name, a.BirthDate.Format(DateLayout), a.DeathDate.Format(DateLayout))
}

type Book struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string `gorm:"not null;index;size:512" json:"title"`
	ISBN            string `gorm:"not null;size:20" json:"isbn"`
	PublicationYear *int   `json:"publication_year,omitempty"`
	AuthorID        uint   `gorm:"not null;index" json:"author_id"`
	Author          Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

func (b Book) String() string {
	if b.PublicationYear == nil {
		return fmt.Sprintf("'%s'", b.Title)
	}
	return fmt.Sprintf("'%s' (%d)", b.Title, *b.PublicationYear)
}
