package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
)

func TestSummarizeCatalogEmpty(t *testing.T) {
	totals := SummarizeCatalog(nil)
	assert.Equal(t, CatalogTotals{}, totals)
	assert.Empty(t, CountByAgeRating(nil))
}

func TestSummarizeCatalog(t *testing.T) {
	books := []*catalog.Book{
		{ID: "b1", PDFURL: "/media/pdfs/b1.pdf", CoverURL: "/media/covers/b1.webp"},
		{ID: "b2", NeedsTagging: true, PDFURL: "/media/pdfs/b2.pdf"},
		{ID: "b3", NeedsTagging: true},
	}

	totals := SummarizeCatalog(books)
	assert.Equal(t, 3, totals.Books)
	assert.Equal(t, 2, totals.NeedsTagging)
	assert.Equal(t, 1, totals.MissingPDF)
	assert.Equal(t, 2, totals.MissingCover)
}

func TestSummarizeCatalogOrderIndependent(t *testing.T) {
	books := []*catalog.Book{
		{ID: "b1", PDFURL: "x"},
		{ID: "b2", NeedsTagging: true},
		{ID: "b3", CoverURL: "y"},
	}
	reversed := []*catalog.Book{books[2], books[1], books[0]}
	assert.Equal(t, SummarizeCatalog(books), SummarizeCatalog(reversed))
}

func TestCountByAgeRating(t *testing.T) {
	books := []*catalog.Book{
		{ID: "b1", AgeRating: "3-5"},
		{ID: "b2", AgeRating: "3-5"},
		{ID: "b3", AgeRating: "6-8"},
		{ID: "b4"},
	}
	counts := CountByAgeRating(books)
	assert.Equal(t, map[string]int{"3-5": 2, "6-8": 1, "Unknown": 1}, counts)
}

func TestCountRoles(t *testing.T) {
	users := []*catalog.User{
		{ID: "u1", Role: "admin"},
		{ID: "u2", Role: "editor"},
		{ID: "u3"},
		{ID: "u4"},
	}
	counts := CountRoles(users)
	assert.Equal(t, map[string]int{"admin": 1, "editor": 1, "user": 2}, counts)
}
