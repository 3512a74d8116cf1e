package analytics

import (
	"sort"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
)

// RecentBooks returns the newest books by creation time, descending.
// Books without a timestamp are excluded.
func RecentBooks(books []*catalog.Book, limit int) []*catalog.Book {
	stamped := make([]*catalog.Book, 0, len(books))
	for _, book := range books {
		if book.CreatedAt != nil {
			stamped = append(stamped, book)
		}
	}
	sort.SliceStable(stamped, func(i, j int) bool {
		return stamped[i].CreatedAt.After(*stamped[j].CreatedAt)
	})
	if len(stamped) > limit {
		stamped = stamped[:limit]
	}
	return stamped
}

// RecentUsers returns the newest users by creation time, descending.
// Users without a timestamp are excluded.
func RecentUsers(users []*catalog.User, limit int) []*catalog.User {
	stamped := make([]*catalog.User, 0, len(users))
	for _, user := range users {
		if user.CreatedAt != nil {
			stamped = append(stamped, user)
		}
	}
	sort.SliceStable(stamped, func(i, j int) bool {
		return stamped[i].CreatedAt.After(*stamped[j].CreatedAt)
	})
	if len(stamped) > limit {
		stamped = stamped[:limit]
	}
	return stamped
}
