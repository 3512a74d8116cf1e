// Package database provides schema creation and initial seeding.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/StoryNest/storynest-go/internal/infrastructure/security"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the database tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedAdminUser idempotently creates the bootstrap admin account so the
// console is reachable on a fresh database. A no-op when credentials are
// not configured or the account already exists.
func (tc *TableCreator) SeedAdminUser(db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existingID string
	err := db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&existingID)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(`INSERT INTO users (id, email, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		security.GenerateULID(), email, "admin", string(hash), now)
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}

	return nil
}

// Schema definitions
var tables = []string{
	`CREATE TABLE IF NOT EXISTS books (id TEXT PRIMARY KEY, title TEXT NOT NULL, author TEXT NOT NULL, description TEXT, tags TEXT NOT NULL DEFAULT '[]', traits TEXT NOT NULL DEFAULT '[]', age_rating TEXT, pdf_url TEXT, cover_url TEXT, cover_image_url TEXT, hidden BOOLEAN DEFAULT 0, needs_tagging BOOLEAN DEFAULT 0, created_at TEXT)`,
	`CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, role TEXT, password_hash TEXT, created_at TEXT)`,
	`CREATE TABLE IF NOT EXISTS reading_sessions (id TEXT PRIMARY KEY, user_id TEXT, book_id TEXT, completed BOOLEAN DEFAULT 0, created_at TEXT)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON reading_sessions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_book_id ON reading_sessions(book_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON reading_sessions(created_at)`,
}
