package playground

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteBookStore implements BookStore using SQLite.
type SQLiteBookStore struct {
	db *sql.DB
}

// NewSQLiteBookStore opens (and initializes) the playground database. Use
// ":memory:" for tests.
func NewSQLiteBookStore(dbPath string) (*SQLiteBookStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open playground database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS books (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		year INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteBookStore{db: db}, nil
}

// Create inserts a book.
func (s *SQLiteBookStore) Create(ctx context.Context, book *Book) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO books (id, title, author, year, created_at) VALUES (?, ?, ?, ?, ?)",
		book.ID, book.Title, book.Author, book.Year, book.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Get returns the book with the given id, or ErrNotFound.
func (s *SQLiteBookStore) Get(ctx context.Context, id string) (*Book, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, author, year, created_at FROM books WHERE id = ?", id)

	var (
		book Book
		ts   int64
	)
	if err := row.Scan(&book.ID, &book.Title, &book.Author, &book.Year, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	book.CreatedAt = time.Unix(0, ts)
	return &book, nil
}

// List returns all books in insertion order.
func (s *SQLiteBookStore) List(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, author, year, created_at FROM books ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var (
			book Book
			ts   int64
		)
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Year, &ts); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		book.CreatedAt = time.Unix(0, ts)
		books = append(books, book)
	}
	return books, rows.Err()
}

// Delete removes the book with the given id, or returns ErrNotFound.
func (s *SQLiteBookStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteBookStore) Close() error {
	return s.db.Close()
}
