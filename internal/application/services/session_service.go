package services

import (
	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
	"github.com/StoryNest/storynest-go/internal/domain/repositories"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/security"
)

// SessionService records reading sessions reported by the reader app.
type SessionService struct {
	sessions repositories.SessionRepository
	logger   *logging.ChanneledLogger
}

func NewSessionService(sessions repositories.SessionRepository, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{
		sessions: sessions,
		logger:   logger,
	}
}

// Record stores a reading session. UserID and BookID may each be empty;
// anonymous and orphaned sessions still count toward totals.
func (s *SessionService) Record(userID, bookID string, completed bool) (*catalog.ReadingSession, error) {
	session := &catalog.ReadingSession{
		ID:        security.GenerateULID(),
		UserID:    userID,
		BookID:    bookID,
		Completed: completed,
	}
	if err := s.sessions.Store(session); err != nil {
		return nil, err
	}

	s.logger.Analytics().Debug("Reading session recorded", "id", session.ID, "completed", completed)
	return session, nil
}

func (s *SessionService) List() ([]*catalog.ReadingSession, error) {
	return s.sessions.FindAll()
}
