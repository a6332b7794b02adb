// Package playground hosts the article's teaching endpoints as a runnable
// API, so readers can exercise the requests the article walks through.
package playground

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no book matches the requested id.
var ErrNotFound = errors.New("book not found")

// Book is the model the article's persistence section declares.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Year      int       `json:"year,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BookInput is the request body for creating a book.
type BookInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// Validate returns the name of the first missing required field, mirroring
// the article's validation example (missing field → 400).
func (in *BookInput) Validate() (missing string, ok bool) {
	if strings.TrimSpace(in.Title) == "" {
		return "title", false
	}
	if strings.TrimSpace(in.Author) == "" {
		return "author", false
	}
	return "", true
}

// BookStore persists books.
type BookStore interface {
	Create(ctx context.Context, book *Book) error
	Get(ctx context.Context, id string) (*Book, error)
	List(ctx context.Context) ([]Book, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
