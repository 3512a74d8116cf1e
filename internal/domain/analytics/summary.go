// Package analytics contains the pure aggregation core behind the admin
// dashboard. Everything here operates on in-memory catalog snapshots and
// has no knowledge of persistence or transport.
package analytics

import "github.com/StoryNest/storynest-go/internal/domain/entities/catalog"

// CatalogTotals summarizes catalog health at a glance.
type CatalogTotals struct {
	Books        int `json:"books"`
	NeedsTagging int `json:"needsTagging"`
	MissingPDF   int `json:"missingPdf"`
	MissingCover int `json:"missingCover"`
}

// SummarizeCatalog computes health totals over the full book list. A book
// is missing its cover only when both historical cover fields are empty,
// which NormalizeCover already folds into CoverURL.
func SummarizeCatalog(books []*catalog.Book) CatalogTotals {
	totals := CatalogTotals{Books: len(books)}
	for _, book := range books {
		if book.NeedsTagging {
			totals.NeedsTagging++
		}
		if book.PDFURL == "" {
			totals.MissingPDF++
		}
		if book.CoverURL == "" {
			totals.MissingCover++
		}
	}
	return totals
}

// CountByAgeRating buckets books by age category, with "Unknown" for
// uncategorized entries.
func CountByAgeRating(books []*catalog.Book) map[string]int {
	counts := make(map[string]int)
	for _, book := range books {
		age := book.AgeRating
		if age == "" {
			age = "Unknown"
		}
		counts[age]++
	}
	return counts
}

// CountRoles buckets users by role, defaulting missing roles to "user".
func CountRoles(users []*catalog.User) map[string]int {
	counts := make(map[string]int)
	for _, user := range users {
		counts[user.RoleOrDefault()]++
	}
	return counts
}
