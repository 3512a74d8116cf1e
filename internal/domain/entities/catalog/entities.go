// Package catalog defines the records the console manages: books, users,
// and the reading sessions the reader app reports back.
package catalog

import "time"

// Book is one catalog entry. PDFURL and CoverURL are server-relative
// paths under the media directory; either may be empty.
type Book struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Description  string     `json:"description"`
	Tags         []string   `json:"tags"`
	Traits       []string   `json:"traits"`
	AgeRating    string     `json:"ageRating"`
	PDFURL       string     `json:"pdfUrl"`
	CoverURL     string     `json:"coverUrl"`
	Hidden       bool       `json:"hidden"`
	NeedsTagging bool       `json:"needsTagging"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// User is a console or reader account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	PasswordHash string     `json:"-"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// RoleOrDefault returns the stored role, or "user" for accounts created
// before roles existed.
func (u *User) RoleOrDefault() string {
	if u.Role == "" {
		return "user"
	}
	return u.Role
}

// ReadingSession records one reading of a book by a user. Either foreign
// key may be empty or point at a since-deleted record.
type ReadingSession struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	BookID    string     `json:"bookId"`
	Completed bool       `json:"completed"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// NormalizeCover resolves the two historical cover fields to one value.
// Older records stored coverImageUrl; newer ones store coverUrl.
func NormalizeCover(coverURL, legacyCoverImageURL string) string {
	if coverURL != "" {
		return coverURL
	}
	return legacyCoverImageURL
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a stored creation timestamp. Returns nil for empty
// or unparseable values so callers can exclude the record from time-based
// metrics without failing.
func ParseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
