package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/honya/internal/models"
)

// SQLiteStorage loads books and ratings from a SQLite database, and imports
// them for the `honya import` command. The server treats the database as
// read-only once the snapshot is built.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS books (
		isbn TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		year INTEGER NOT NULL,
		publisher TEXT,
		small_image TEXT,
		med_image TEXT,
		lg_image TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_books_year ON books(year);

	CREATE TABLE IF NOT EXISTS ratings (
		user_id TEXT NOT NULL,
		isbn TEXT NOT NULL,
		rating INTEGER NOT NULL,
		PRIMARY KEY (user_id, isbn)
	);

	CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id);
	`
	_, err := db.Exec(schema)
	return err
}

// LoadBooks returns every book in insertion order.
func (s *SQLiteStorage) LoadBooks(ctx context.Context) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT isbn, title, author, year, publisher, small_image, med_image, lg_image
		 FROM books ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Year,
			&b.Publisher, &b.SmallImage, &b.MedImage, &b.LgImage); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// LoadRatings returns every rating in insertion order.
func (s *SQLiteStorage) LoadRatings(ctx context.Context) ([]models.Rating, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, isbn, rating FROM ratings ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.ISBN, &r.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// ImportBooks inserts or replaces books in a single transaction.
func (s *SQLiteStorage) ImportBooks(ctx context.Context, books []models.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO books (isbn, title, author, year, publisher, small_image, med_image, lg_image)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare book insert: %w", err)
	}
	defer stmt.Close()
	for _, b := range books {
		if _, err := stmt.ExecContext(ctx, b.ISBN, b.Title, b.Author, b.Year,
			b.Publisher, b.SmallImage, b.MedImage, b.LgImage); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert book %s: %w", b.ISBN, err)
		}
	}
	return tx.Commit()
}

// ImportRatings inserts or replaces ratings in a single transaction. The
// (user_id, isbn) primary key makes a duplicate rating overwrite the earlier
// one, matching the index's last-write-wins semantics.
func (s *SQLiteStorage) ImportRatings(ctx context.Context, ratings []models.Rating) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO ratings (user_id, isbn, rating) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare rating insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range ratings {
		if _, err := stmt.ExecContext(ctx, r.UserID, r.ISBN, r.Rating); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert rating %s/%s: %w", r.UserID, r.ISBN, err)
		}
	}
	return tx.Commit()
}

// CountBooks returns the number of book rows.
func (s *SQLiteStorage) CountBooks(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

// CountRatings returns the number of rating rows.
func (s *SQLiteStorage) CountRatings(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
