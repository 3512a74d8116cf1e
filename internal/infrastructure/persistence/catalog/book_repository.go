// Package catalog provides the repositories backing the book console.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/persistence/database"
)

type BookRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewBookRepository(db *sql.DB, logger *logging.ChanneledLogger) *BookRepository {
	return &BookRepository{
		db:     db,
		logger: logger,
	}
}

// Reads include the legacy cover_image_url column carried over from
// imported records; scanBook folds it into the canonical cover field.
const bookColumns = `id, title, author, description, tags, traits, age_rating, pdf_url, cover_url, cover_image_url, hidden, needs_tagging, created_at`

func (r *BookRepository) FindAll() ([]*catalog.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at`

	start := time.Now()
	r.logger.Database().Debug("Loading all books from database")

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to query books", "error", err.Error())
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []*catalog.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	r.logger.Database().Info("Loaded books from database", "count", len(books), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return books, rows.Err()
}

func (r *BookRepository) FindByID(id string) (*catalog.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading book from database", "id", id)

	book, err := scanBook(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan book", "error", err.Error(), "id", id)
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return book, nil
}

func (r *BookRepository) Store(book *catalog.Book) error {
	if book.CreatedAt == nil {
		now := time.Now().UTC()
		book.CreatedAt = &now
	}

	tagsJSON, _ := json.Marshal(book.Tags)
	traitsJSON, _ := json.Marshal(book.Traits)

	query := `INSERT INTO books (id, title, author, description, tags, traits, age_rating, pdf_url, cover_url, hidden, needs_tagging, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing book insert", "id", book.ID)

	_, err := r.db.Exec(query, book.ID, book.Title, book.Author, book.Description,
		string(tagsJSON), string(traitsJSON), book.AgeRating, book.PDFURL, book.CoverURL,
		book.Hidden, book.NeedsTagging, book.CreatedAt.Format(time.RFC3339))
	if err != nil {
		r.logger.Database().Error("Book insert failed", "error", err.Error(), "id", book.ID)
		return fmt.Errorf("failed to insert book: %w", err)
	}

	r.logger.Database().Info("Book insert completed", "id", book.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// Update persists every mutable field. created_at is immutable once set.
func (r *BookRepository) Update(book *catalog.Book) error {
	tagsJSON, _ := json.Marshal(book.Tags)
	traitsJSON, _ := json.Marshal(book.Traits)

	query := `UPDATE books SET title = ?, author = ?, description = ?, tags = ?, traits = ?,
              age_rating = ?, pdf_url = ?, cover_url = ?, hidden = ?, needs_tagging = ? WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing book update", "id", book.ID)

	_, err := r.db.Exec(query, book.Title, book.Author, book.Description,
		string(tagsJSON), string(traitsJSON), book.AgeRating, book.PDFURL, book.CoverURL,
		book.Hidden, book.NeedsTagging, book.ID)
	if err != nil {
		r.logger.Database().Error("Book update failed", "error", err.Error(), "id", book.ID)
		return fmt.Errorf("failed to update book: %w", err)
	}

	r.logger.Database().Info("Book update completed", "id", book.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

func (r *BookRepository) Delete(id string) error {
	query := `DELETE FROM books WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing book delete", "id", id)

	_, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Database().Error("Book delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete book: %w", err)
	}

	r.logger.Database().Info("Book delete completed", "id", id, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*catalog.Book, error) {
	var book catalog.Book
	var description, tagsStr, traitsStr, ageRating, pdfURL, coverURL, legacyCoverURL, createdAt sql.NullString

	err := row.Scan(&book.ID, &book.Title, &book.Author, &description, &tagsStr, &traitsStr,
		&ageRating, &pdfURL, &coverURL, &legacyCoverURL, &book.Hidden, &book.NeedsTagging, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}

	book.Description = description.String
	book.AgeRating = ageRating.String
	book.PDFURL = pdfURL.String
	book.CoverURL = catalog.NormalizeCover(coverURL.String, legacyCoverURL.String)
	book.CreatedAt = catalog.ParseTimestamp(createdAt.String)

	if tagsStr.Valid && tagsStr.String != "" {
		if err := json.Unmarshal([]byte(tagsStr.String), &book.Tags); err != nil {
			return nil, fmt.Errorf("failed to parse book tags: %w", err)
		}
	}
	if traitsStr.Valid && traitsStr.String != "" {
		if err := json.Unmarshal([]byte(traitsStr.String), &book.Traits); err != nil {
			return nil, fmt.Errorf("failed to parse book traits: %w", err)
		}
	}

	return &book, nil
}
