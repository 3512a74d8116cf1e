package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/persistence/database"
)

type SessionRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewSessionRepository(db *sql.DB, logger *logging.ChanneledLogger) *SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SessionRepository) FindAll() ([]*catalog.ReadingSession, error) {
	query := `SELECT id, user_id, book_id, completed, created_at FROM reading_sessions ORDER BY created_at`

	start := time.Now()
	r.logger.Database().Debug("Loading all reading sessions from database")

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to query reading sessions", "error", err.Error())
		return nil, fmt.Errorf("failed to query reading sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*catalog.ReadingSession
	for rows.Next() {
		var session catalog.ReadingSession
		var userID, bookID, createdAt sql.NullString

		if err := rows.Scan(&session.ID, &userID, &bookID, &session.Completed, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan reading session: %w", err)
		}

		session.UserID = userID.String
		session.BookID = bookID.String
		session.CreatedAt = catalog.ParseTimestamp(createdAt.String)
		sessions = append(sessions, &session)
	}

	r.logger.Database().Info("Loaded reading sessions from database", "count", len(sessions), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return sessions, rows.Err()
}

// Store accepts sessions referencing deleted books or users; the
// dashboard degrades those records rather than rejecting them here.
func (r *SessionRepository) Store(session *catalog.ReadingSession) error {
	if session.CreatedAt == nil {
		now := time.Now().UTC()
		session.CreatedAt = &now
	}

	query := `INSERT INTO reading_sessions (id, user_id, book_id, completed, created_at) VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing reading session insert", "id", session.ID)

	_, err := r.db.Exec(query, session.ID, session.UserID, session.BookID, session.Completed,
		session.CreatedAt.Format(time.RFC3339))
	if err != nil {
		r.logger.Database().Error("Reading session insert failed", "error", err.Error(), "id", session.ID)
		return fmt.Errorf("failed to insert reading session: %w", err)
	}

	r.logger.Database().Info("Reading session insert completed", "id", session.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}
