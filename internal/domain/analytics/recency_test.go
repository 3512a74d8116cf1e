package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
)

func TestRecentBooks(t *testing.T) {
	books := []*catalog.Book{
		{ID: "old", CreatedAt: ts(2026, time.January, 1)},
		{ID: "untimestamped"},
		{ID: "new", CreatedAt: ts(2026, time.August, 1)},
		{ID: "mid", CreatedAt: ts(2026, time.April, 1)},
	}

	recent := RecentBooks(books, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, "new", recent[0].ID)
	assert.Equal(t, "mid", recent[1].ID)
}

func TestRecentUsers(t *testing.T) {
	users := []*catalog.User{
		{ID: "u1", CreatedAt: ts(2026, time.March, 3)},
		{ID: "u2"},
		{ID: "u3", CreatedAt: ts(2026, time.July, 7)},
	}

	recent := RecentUsers(users, 5)
	require.Len(t, recent, 2)
	assert.Equal(t, "u3", recent[0].ID)
	assert.Equal(t, "u1", recent[1].ID)
}
