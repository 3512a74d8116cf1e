package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
)

var engagementNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

const week = 7 * 24 * time.Hour

func session(userID, bookID string, completed bool, createdAt *time.Time) *catalog.ReadingSession {
	return &catalog.ReadingSession{UserID: userID, BookID: bookID, Completed: completed, CreatedAt: createdAt}
}

func recent(daysAgo int) *time.Time {
	t := engagementNow.Add(-time.Duration(daysAgo) * 24 * time.Hour)
	return &t
}

func TestComputeEngagementEmpty(t *testing.T) {
	summary := ComputeEngagement(nil, nil, engagementNow, week)

	assert.Zero(t, summary.TotalSessions)
	assert.Zero(t, summary.AvgSessionsPerUser)
	assert.Zero(t, summary.CompletionRate)
	assert.Zero(t, summary.ActiveUsers)
	assert.Zero(t, summary.OrphanSessions)
	assert.Empty(t, summary.MostReadBooks)
	assert.Empty(t, summary.HighestCompletion)
	assert.Empty(t, summary.LowestCompletion)
	assert.Empty(t, summary.MostEngagedAges)
	assert.Empty(t, summary.LeastEngagedAges)
}

func TestComputeEngagementRankedLists(t *testing.T) {
	books := []*catalog.Book{
		{ID: "A", Title: "Alpha Bear", AgeRating: "3-5"},
		{ID: "B", Title: "Busy Fox", AgeRating: "6-8"},
		{ID: "C", Title: "Calm Owl", AgeRating: "3-5"},
	}
	sessions := []*catalog.ReadingSession{
		session("u1", "A", true, recent(1)),
		session("u1", "A", true, recent(2)),
		session("u2", "A", true, recent(3)),
		session("u2", "A", true, recent(1)),
		session("u2", "A", false, recent(2)),
		session("u1", "B", false, recent(4)),
		session("u2", "B", false, recent(5)),
	}

	summary := ComputeEngagement(sessions, books, engagementNow, week)

	assert.Equal(t, 7, summary.TotalSessions)
	assert.Equal(t, 2, summary.ActiveUsers)
	assert.Equal(t, 3.5, summary.AvgSessionsPerUser)
	assert.Equal(t, 57, summary.CompletionRate) // round(4/7*100)

	require.Len(t, summary.MostReadBooks, 2)
	assert.Equal(t, BookCount{ID: "A", Title: "Alpha Bear", Count: 5}, summary.MostReadBooks[0])
	assert.Equal(t, BookCount{ID: "B", Title: "Busy Fox", Count: 2}, summary.MostReadBooks[1])

	// C has no sessions so it never enters the completion rankings
	require.Len(t, summary.HighestCompletion, 2)
	assert.Equal(t, BookCompletion{ID: "A", Title: "Alpha Bear", Rate: 80, Total: 5}, summary.HighestCompletion[0])
	assert.Equal(t, BookCompletion{ID: "B", Title: "Busy Fox", Rate: 0, Total: 2}, summary.LowestCompletion[0])

	require.NotEmpty(t, summary.MostEngagedAges)
	assert.Equal(t, AgeCount{Age: "3-5", Count: 5}, summary.MostEngagedAges[0])
	assert.Equal(t, AgeCount{Age: "6-8", Count: 2}, summary.LeastEngagedAges[0])
}

func TestComputeEngagementOrphanSessions(t *testing.T) {
	books := []*catalog.Book{{ID: "A", Title: "Alpha Bear", AgeRating: "3-5"}}
	sessions := []*catalog.ReadingSession{
		session("u1", "A", false, recent(1)),
		session("u1", "deleted-book", true, recent(1)),
	}

	summary := ComputeEngagement(sessions, books, engagementNow, week)

	assert.Equal(t, 2, summary.TotalSessions)
	assert.Equal(t, 1, summary.OrphanSessions)

	// the orphan keeps its raw id as label and its sessions bucket as Unknown
	require.Len(t, summary.MostReadBooks, 2)
	labels := []string{summary.MostReadBooks[0].Title, summary.MostReadBooks[1].Title}
	assert.Contains(t, labels, "deleted-book")

	found := false
	for _, age := range summary.MostEngagedAges {
		if age.Age == "Unknown" {
			found = true
			assert.Equal(t, 1, age.Count)
		}
	}
	assert.True(t, found)
}

func TestComputeEngagementUncategorizedBookCountsAsUnknown(t *testing.T) {
	books := []*catalog.Book{{ID: "A", Title: "Alpha Bear"}}
	sessions := []*catalog.ReadingSession{
		session("u1", "A", false, recent(1)),
		session("u1", "deleted-book", true, recent(1)),
	}

	summary := ComputeEngagement(sessions, books, engagementNow, week)

	// A catalogued book with no age rating shares the Unknown bucket
	// with orphaned sessions.
	require.Len(t, summary.MostEngagedAges, 1)
	assert.Equal(t, AgeCount{Age: "Unknown", Count: 2}, summary.MostEngagedAges[0])
}

func TestComputeEngagementMissingForeignKeys(t *testing.T) {
	sessions := []*catalog.ReadingSession{
		session("", "A", true, recent(1)),   // no user: totals only
		session("u1", "", false, recent(1)), // no book: totals and per-user only
	}
	books := []*catalog.Book{{ID: "A", Title: "Alpha Bear"}}

	summary := ComputeEngagement(sessions, books, engagementNow, week)

	assert.Equal(t, 2, summary.TotalSessions)
	assert.Equal(t, 2.0, summary.AvgSessionsPerUser) // 2 sessions, 1 distinct user
	assert.Equal(t, 1, summary.ActiveUsers)
	require.Len(t, summary.MostReadBooks, 1)
	assert.Equal(t, 1, summary.MostReadBooks[0].Count)
}

func TestComputeEngagementActiveWindow(t *testing.T) {
	sessions := []*catalog.ReadingSession{
		session("u1", "A", false, recent(2)),
		session("u2", "A", false, recent(10)), // outside the window
		session("u3", "A", false, nil),        // untimestamped
	}

	summary := ComputeEngagement(sessions, nil, engagementNow, week)
	assert.Equal(t, 1, summary.ActiveUsers)
}

func TestComputeEngagementCompletionBounds(t *testing.T) {
	allDone := []*catalog.ReadingSession{
		session("u1", "A", true, recent(1)),
		session("u1", "A", true, recent(2)),
	}
	summary := ComputeEngagement(allDone, []*catalog.Book{{ID: "A"}}, engagementNow, week)
	assert.Equal(t, 100, summary.CompletionRate)

	noneDone := []*catalog.ReadingSession{session("u1", "A", false, recent(1))}
	summary = ComputeEngagement(noneDone, []*catalog.Book{{ID: "A"}}, engagementNow, week)
	assert.Equal(t, 0, summary.CompletionRate)
}

func TestComputeEngagementAvgRounding(t *testing.T) {
	sessions := []*catalog.ReadingSession{
		session("u1", "A", false, recent(1)),
		session("u1", "A", false, recent(2)),
		session("u2", "A", false, recent(1)),
	}

	summary := ComputeEngagement(sessions, nil, engagementNow, week)
	assert.Equal(t, 1.5, summary.AvgSessionsPerUser)
}

func TestComputeEngagementIdempotent(t *testing.T) {
	books := []*catalog.Book{
		{ID: "A", Title: "Alpha Bear", AgeRating: "3-5"},
		{ID: "B", Title: "Busy Fox", AgeRating: "6-8"},
	}
	sessions := []*catalog.ReadingSession{
		session("u1", "A", true, recent(1)),
		session("u2", "B", false, recent(3)),
		session("u1", "B", true, recent(2)),
	}

	first := ComputeEngagement(sessions, books, engagementNow, week)
	second := ComputeEngagement(sessions, books, engagementNow, week)
	assert.Equal(t, first, second)
}
