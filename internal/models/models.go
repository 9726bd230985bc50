package models

import "time"

// Book represents a single record in the catalog.
// Year and Pages are pointers so "not provided" survives the JSON
// round-trip to storage.
type Book struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher,omitempty"`
	Year      *int   `json:"year,omitempty"`
	Language  string `json:"language,omitempty"`
	Pages     *int   `json:"pages,omitempty"`
	CoverURL  string `json:"coverUrl"`
}

// Loan represents a lending of a book to a borrower.
// BookID may dangle if the book was deleted after the loan was created.
type Loan struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	Borrower  string    `json:"borrower"`
	Weeks     int       `json:"weeks"`
	StartDate time.Time `json:"startDate"`
}

// SimilarBook is a single result from the external book-search service.
type SimilarBook struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ISBN13   string `json:"isbn13"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	URL      string `json:"url"`
}
