package analytics

import (
	"math"
	"time"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
)

const (
	mostReadLimit   = 5
	completionLimit = 3
	ageLimit        = 3
)

// BookCount is a book with its session count.
type BookCount struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// BookCompletion is a book's completion rate over its sessions.
type BookCompletion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Rate  int    `json:"rate"`
	Total int    `json:"total"`
}

// AgeCount is an age category with its session count.
type AgeCount struct {
	Age   string `json:"age"`
	Count int    `json:"count"`
}

// EngagementSummary holds every reading-engagement metric the dashboard
// shows. OrphanSessions counts sessions whose book id is no longer in the
// catalog; they still participate in totals under their raw id.
type EngagementSummary struct {
	TotalSessions      int              `json:"totalSessions"`
	AvgSessionsPerUser float64          `json:"avgSessionsPerUser"`
	CompletionRate     int              `json:"completionRate"`
	ActiveUsers        int              `json:"activeUsers"`
	OrphanSessions     int              `json:"orphanSessions"`
	MostReadBooks      []BookCount      `json:"mostReadBooks"`
	HighestCompletion  []BookCompletion `json:"highestCompletion"`
	LowestCompletion   []BookCompletion `json:"lowestCompletion"`
	MostEngagedAges    []AgeCount       `json:"mostEngagedAges"`
	LeastEngagedAges   []AgeCount       `json:"leastEngagedAges"`
}

func percent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

// ComputeEngagement derives all engagement metrics in a single pass over
// the sessions. Sessions missing a user id still count toward totals but
// not per-user metrics; sessions missing a book id still count toward
// totals but not per-book or per-age metrics. activeWindow is the trailing
// span before now in which a session marks its user active.
func ComputeEngagement(sessions []*catalog.ReadingSession, books []*catalog.Book, now time.Time, activeWindow time.Duration) EngagementSummary {
	booksByID := make(map[string]*catalog.Book, len(books))
	for _, book := range books {
		booksByID[book.ID] = book
	}

	var totalSessions, completedSessions, orphans int
	users := make(map[string]bool)
	activeUsers := make(map[string]bool)
	byBook := NewTally()
	completedByBook := make(map[string]int)
	byAge := NewTally()

	for _, s := range sessions {
		totalSessions++
		if s.UserID != "" {
			users[s.UserID] = true
			if s.CreatedAt != nil && now.Sub(*s.CreatedAt) < activeWindow {
				activeUsers[s.UserID] = true
			}
		}
		if s.BookID != "" {
			byBook.Add(s.BookID)
			if s.Completed {
				completedByBook[s.BookID]++
			}
			book, found := booksByID[s.BookID]
			if !found {
				orphans++
			}
			age := "Unknown"
			if found && book.AgeRating != "" {
				age = book.AgeRating
			}
			byAge.Add(age)
		}
		if s.Completed {
			completedSessions++
		}
	}

	summary := EngagementSummary{
		TotalSessions:  totalSessions,
		ActiveUsers:    len(activeUsers),
		OrphanSessions: orphans,
	}
	if totalSessions > 0 {
		summary.CompletionRate = percent(completedSessions, totalSessions)
	}
	if len(users) > 0 {
		avg := float64(totalSessions) / float64(len(users))
		summary.AvgSessionsPerUser = math.Round(avg*100) / 100
	}

	bookTitle := func(id string) string {
		if book, ok := booksByID[id]; ok {
			return book.Title
		}
		return ""
	}

	summary.MostReadBooks = make([]BookCount, 0, mostReadLimit)
	for _, entry := range Rank(byBook, Descending, mostReadLimit, bookTitle) {
		summary.MostReadBooks = append(summary.MostReadBooks, BookCount{ID: entry.Key, Title: entry.Label, Count: entry.Value})
	}

	// Only books with at least one session carry a completion rate. The
	// tally is built in catalog order so equal rates keep a stable order.
	rates := NewTally()
	totalsByBook := make(map[string]int)
	for _, book := range books {
		total := byBook.Get(book.ID)
		if total == 0 {
			continue
		}
		rates.Set(book.ID, percent(completedByBook[book.ID], total))
		totalsByBook[book.ID] = total
	}
	toCompletion := func(entries []RankedEntry) []BookCompletion {
		out := make([]BookCompletion, 0, len(entries))
		for _, entry := range entries {
			out = append(out, BookCompletion{ID: entry.Key, Title: entry.Label, Rate: entry.Value, Total: totalsByBook[entry.Key]})
		}
		return out
	}
	summary.HighestCompletion = toCompletion(Rank(rates, Descending, completionLimit, bookTitle))
	summary.LowestCompletion = toCompletion(Rank(rates, Ascending, completionLimit, bookTitle))

	toAges := func(entries []RankedEntry) []AgeCount {
		out := make([]AgeCount, 0, len(entries))
		for _, entry := range entries {
			out = append(out, AgeCount{Age: entry.Key, Count: entry.Value})
		}
		return out
	}
	summary.MostEngagedAges = toAges(Rank(byAge, Descending, ageLimit, nil))
	summary.LeastEngagedAges = toAges(Rank(byAge, Ascending, ageLimit, nil))

	return summary
}
