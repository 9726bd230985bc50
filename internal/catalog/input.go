package catalog

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"bookshelf/internal/apperr"
	"bookshelf/internal/models"
)

var validate = validator.New()

// BookInput carries the raw form fields for an add or update operation.
// All fields arrive as strings; Year and Pages are parsed here, with an
// empty string meaning "not provided".
type BookInput struct {
	Title     string `validate:"required"`
	Author    string `validate:"required"`
	Publisher string
	Year      string
	Language  string
	Pages     string
	CoverURL  string `validate:"required"`
}

func (in BookInput) trimmed() BookInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Publisher = strings.TrimSpace(in.Publisher)
	in.Year = strings.TrimSpace(in.Year)
	in.Language = strings.TrimSpace(in.Language)
	in.Pages = strings.TrimSpace(in.Pages)
	in.CoverURL = strings.TrimSpace(in.CoverURL)
	return in
}

// build validates the input and converts it into a Book without an ID.
// Rejected input leaves the catalog untouched.
func (in BookInput) build() (models.Book, error) {
	in = in.trimmed()

	if err := validate.Struct(in); err != nil {
		return models.Book{}, apperr.FromValidator(err)
	}

	book := models.Book{
		Title:     in.Title,
		Author:    in.Author,
		Publisher: in.Publisher,
		Language:  in.Language,
		CoverURL:  in.CoverURL,
	}

	if in.Year != "" {
		year, err := strconv.Atoi(in.Year)
		if err != nil || year < 0 {
			return models.Book{}, apperr.NewValidation("Year", "must be a non-negative number")
		}
		book.Year = &year
	}

	if in.Pages != "" {
		pages, err := strconv.Atoi(in.Pages)
		if err != nil || pages < 1 {
			return models.Book{}, apperr.NewValidation("Pages", "must be a positive number")
		}
		book.Pages = &pages
	}

	return book, nil
}
