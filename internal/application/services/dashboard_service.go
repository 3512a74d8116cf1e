package services

import (
	"fmt"
	"time"

	"github.com/StoryNest/storynest-go/internal/domain/analytics"
	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
	"github.com/StoryNest/storynest-go/internal/domain/repositories"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/performance"
	"github.com/StoryNest/storynest-go/pkg/config"
)

// DashboardSnapshot is the full payload rendered by the console's
// overview page, computed in one pass over current data.
type DashboardSnapshot struct {
	Totals       analytics.CatalogTotals     `json:"totals"`
	Users        int                         `json:"users"`
	BooksByAge   map[string]int              `json:"booksByAge"`
	BooksByMonth []analytics.MonthCount      `json:"booksByMonth"`
	UsersByMonth []analytics.MonthCount      `json:"usersByMonth"`
	UserRoles    map[string]int              `json:"userRoles"`
	RecentBooks  []*catalog.Book             `json:"recentBooks"`
	RecentUsers  []*catalog.User             `json:"recentUsers"`
	Engagement   analytics.EngagementSummary `json:"engagement"`
}

// DashboardService assembles analytics snapshots from repository data.
type DashboardService struct {
	books    repositories.BookRepository
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	perf     *performance.Tracker
	logger   *logging.ChanneledLogger
}

func NewDashboardService(books repositories.BookRepository, users repositories.UserRepository,
	sessions repositories.SessionRepository, perf *performance.Tracker, logger *logging.ChanneledLogger) *DashboardService {
	return &DashboardService{
		books:    books,
		users:    users,
		sessions: sessions,
		perf:     perf,
		logger:   logger,
	}
}

// Compute builds a snapshot as of now. Any repository failure aborts the
// whole computation; the console never renders partial analytics.
func (s *DashboardService) Compute(now time.Time) (*DashboardSnapshot, error) {
	marker := s.perf.StartOperation("analytics:dashboard")
	defer marker.Complete()

	books, err := s.books.FindAll()
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	users, err := s.users.FindAll()
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	sessions, err := s.sessions.FindAll()
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to load reading sessions: %w", err)
	}

	bookStamps := make([]*time.Time, len(books))
	for i, b := range books {
		bookStamps[i] = b.CreatedAt
	}
	userStamps := make([]*time.Time, len(users))
	for i, u := range users {
		userStamps[i] = u.CreatedAt
	}

	activeWindow := time.Duration(config.ActiveWindowDays) * 24 * time.Hour
	snapshot := &DashboardSnapshot{
		Totals:       analytics.SummarizeCatalog(books),
		Users:        len(users),
		BooksByAge:   analytics.CountByAgeRating(books),
		BooksByMonth: analytics.MonthlySeries(bookStamps, now, config.TrendMonths),
		UsersByMonth: analytics.MonthlySeries(userStamps, now, config.TrendMonths),
		UserRoles:    analytics.CountRoles(users),
		RecentBooks:  analytics.RecentBooks(books, config.RecentLimit),
		RecentUsers:  analytics.RecentUsers(users, config.RecentLimit),
		Engagement:   analytics.ComputeEngagement(sessions, books, now, activeWindow),
	}

	marker.SetSuccess(true)
	s.logger.Analytics().Info("Dashboard snapshot computed",
		"books", len(books), "users", len(users), "sessions", len(sessions),
		"duration", time.Since(marker.StartTime))
	return snapshot, nil
}
