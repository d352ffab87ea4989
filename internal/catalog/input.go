package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/catalog/internal/entities"
)

// AuthorInput is the add-author payload as submitted by the form.
// Field order is validation order.
type AuthorInput struct {
	Name      string `form:"name" json:"name" validate:"required,max=256"`
	BirthDate string `form:"birthdate" json:"birth_date" validate:"required,datetime=2006-01-02"`
	DeathDate string `form:"date_of_death" json:"death_date" validate:"omitempty,datetime=2006-01-02"`
}

// BookInput is the add-book payload as submitted by the form.
// Field order is validation order.
type BookInput struct {
	Title           string `form:"title" json:"title" validate:"required,max=512"`
	ISBN            string `form:"isbn" json:"isbn" validate:"required,max=17,isbnlike"`
	PublicationYear string `form:"publication_year" json:"publication_year"`
	AuthorID        string `form:"author_id" json:"author_id" validate:"required,number"`
}

var fieldLabels = map[string]string{
	"name":             "name",
	"birthdate":        "birth date",
	"date_of_death":    "date of death",
	"title":            "title",
	"isbn":             "ISBN",
	"publication_year": "publication year",
	"author_id":        "author",
}

// Digits with optional hyphens or spaces, optionally ending in an X check digit.
// Length is bounded by the max tag; bare integer ISBNs of any length pass.
var isbnPattern = regexp.MustCompile(`^[0-9](?:[0-9 -]*[0-9Xx])?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isbnlike", func(fl validator.FieldLevel) bool {
		return isbnPattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs the validator and converts its first failure into a
// *ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "datetime":
		return label + " must be a date in YYYY-MM-DD format"
	case "number":
		return label + " must be a whole number"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "isbnlike":
		return label + " must contain only digits and hyphens"
	default:
		return label + " is invalid"
	}
}

func (in *AuthorInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.DeathDate = strings.TrimSpace(in.DeathDate)
}

// Author validates the payload and converts it into an unsaved Author.
func (in AuthorInput) Author() (*entities.Author, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	// Formats were checked by the validator.
	birth, _ := time.Parse(entities.DateLayout, in.BirthDate)
	author := &entities.Author{Name: in.Name, BirthDate: birth}

	if in.DeathDate != "" {
		death, _ := time.Parse(entities.DateLayout, in.DeathDate)
		if death.Before(birth) {
			return nil, &ValidationError{Field: "date_of_death", Message: "date of death must not be before birth date"}
		}
		author.DeathDate = &death
	}

	return author, nil
}

func (in *BookInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.PublicationYear = strings.TrimSpace(in.PublicationYear)
	in.AuthorID = strings.TrimSpace(in.AuthorID)
}

// Book validates the payload and converts it into an unsaved Book. The author
// reference is only parsed here; resolving it happens in the store.
func (in BookInput) Book() (*entities.Book, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	book := &entities.Book{Title: in.Title, ISBN: in.ISBN}

	if in.PublicationYear != "" {
		// Negative years (BCE) are valid integers.
		year, err := strconv.Atoi(in.PublicationYear)
		if err != nil {
			return nil, &ValidationError{Field: "publication_year", Message: "publication year must be a whole number"}
		}
		book.PublicationYear = &year
	}

	authorID, err := strconv.ParseUint(in.AuthorID, 10, 32)
	if err != nil || authorID == 0 {
		return nil, &ValidationError{Field: "author_id", Message: "invalid author"}
	}
	book.AuthorID = uint(authorID)

	return book, nil
}
