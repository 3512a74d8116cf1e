package catalog

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entities "github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
	schema "github.com/StoryNest/storynest-go/internal/infrastructure/database"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, schema.NewTableCreator().CreateSchema(db))
	return db
}

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
	})
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestBookRepositoryRoundTrip(t *testing.T) {
	repo := NewBookRepository(openTestDB(t), testLogger(t))

	created := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	book := &entities.Book{
		ID:          "book-1",
		Title:       "The Paper Kite",
		Author:      "N. Okafor",
		Description: "A kite learns to fly on its own.",
		Tags:        []string{"adventure", "friendship"},
		Traits:      []string{"brave"},
		AgeRating:   "4-6",
		PDFURL:      "/media/pdfs/book-1.pdf",
		CoverURL:    "/media/covers/book-1.webp",
		CreatedAt:   &created,
	}
	require.NoError(t, repo.Store(book))

	got, err := repo.FindByID("book-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "The Paper Kite", got.Title)
	assert.Equal(t, []string{"adventure", "friendship"}, got.Tags)
	assert.Equal(t, []string{"brave"}, got.Traits)
	assert.Equal(t, "4-6", got.AgeRating)
	assert.False(t, got.Hidden)
	require.NotNil(t, got.CreatedAt)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestBookRepositoryFindByIDNotFound(t *testing.T) {
	repo := NewBookRepository(openTestDB(t), testLogger(t))

	got, err := repo.FindByID("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookRepositoryNormalizesLegacyCover(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookRepository(db, testLogger(t))

	// Imported records carry only the legacy cover column.
	_, err := db.Exec(`INSERT INTO books (id, title, author, cover_image_url, created_at)
		VALUES ('legacy-1', 'Old Import', 'Unknown', '/media/covers/legacy-1.webp', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	got, err := repo.FindByID("legacy-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/media/covers/legacy-1.webp", got.CoverURL)
}

func TestBookRepositoryCanonicalCoverWinsOverLegacy(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookRepository(db, testLogger(t))

	_, err := db.Exec(`INSERT INTO books (id, title, author, cover_url, cover_image_url, created_at)
		VALUES ('both-1', 'Both Covers', 'A', '/media/covers/new.webp', '/media/covers/old.webp', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	got, err := repo.FindByID("both-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/media/covers/new.webp", got.CoverURL)
}

func TestBookRepositoryUpdateAndDelete(t *testing.T) {
	repo := NewBookRepository(openTestDB(t), testLogger(t))

	book := &entities.Book{ID: "book-2", Title: "Draft", Author: "A"}
	require.NoError(t, repo.Store(book))

	book.Title = "Final Title"
	book.Hidden = true
	book.Tags = []string{"bedtime"}
	require.NoError(t, repo.Update(book))

	got, err := repo.FindByID("book-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Final Title", got.Title)
	assert.True(t, got.Hidden)
	assert.Equal(t, []string{"bedtime"}, got.Tags)

	require.NoError(t, repo.Delete("book-2"))
	got, err = repo.FindByID("book-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookRepositoryFindAllOrdersByCreation(t *testing.T) {
	repo := NewBookRepository(openTestDB(t), testLogger(t))

	second := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	first := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Store(&entities.Book{ID: "b", Title: "Second", Author: "A", CreatedAt: &second}))
	require.NoError(t, repo.Store(&entities.Book{ID: "a", Title: "First", Author: "A", CreatedAt: &first}))

	books, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "First", books[0].Title)
	assert.Equal(t, "Second", books[1].Title)
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	repo := NewUserRepository(openTestDB(t), testLogger(t))

	user := &entities.User{ID: "user-1", Email: "parent@example.com", Role: "user", PasswordHash: "x"}
	require.NoError(t, repo.Store(user))
	require.NotNil(t, user.CreatedAt)

	got, err := repo.FindByEmail("parent@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, "user", got.Role)

	require.NoError(t, repo.UpdateRole("user-1", "editor"))
	got, err = repo.FindByID("user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "editor", got.Role)

	require.NoError(t, repo.Delete("user-1"))
	got, err = repo.FindByID("user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepositoryNotFound(t *testing.T) {
	repo := NewUserRepository(openTestDB(t), testLogger(t))

	got, err := repo.FindByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepositoryFallsBackToAdminsTable(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Legacy database with only an admins table.
	_, err = db.Exec(`CREATE TABLE admins (id TEXT PRIMARY KEY, email TEXT, role TEXT, password_hash TEXT, created_at TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO admins (id, email, role, password_hash, created_at)
		VALUES ('adm-1', 'admin@example.com', 'admin', 'x', '2024-06-01T00:00:00Z')`)
	require.NoError(t, err)

	repo := NewUserRepository(db, testLogger(t))
	users, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.Equal(t, "admin", users[0].Role)
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository(openTestDB(t), testLogger(t))

	require.NoError(t, repo.Store(&entities.ReadingSession{
		ID:        "sess-1",
		UserID:    "user-1",
		BookID:    "book-1",
		Completed: true,
	}))
	// Anonymous session with no user and a deleted book.
	require.NoError(t, repo.Store(&entities.ReadingSession{ID: "sess-2", BookID: "gone"}))

	sessions, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	byID := map[string]*entities.ReadingSession{}
	for _, s := range sessions {
		byID[s.ID] = s
	}
	assert.True(t, byID["sess-1"].Completed)
	assert.Equal(t, "user-1", byID["sess-1"].UserID)
	assert.Empty(t, byID["sess-2"].UserID)
	assert.Equal(t, "gone", byID["sess-2"].BookID)
	require.NotNil(t, byID["sess-1"].CreatedAt)
}

func TestSeedAdminUserIdempotent(t *testing.T) {
	db := openTestDB(t)
	tc := schema.NewTableCreator()

	require.NoError(t, tc.SeedAdminUser(db, "admin@storynest.app", "s3cret"))
	require.NoError(t, tc.SeedAdminUser(db, "admin@storynest.app", "s3cret"))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, "admin@storynest.app").Scan(&count))
	assert.Equal(t, 1, count)

	var role string
	require.NoError(t, db.QueryRow(`SELECT role FROM users WHERE email = ?`, "admin@storynest.app").Scan(&role))
	assert.Equal(t, "admin", role)
}

func TestSeedAdminUserSkipsWhenUnconfigured(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, schema.NewTableCreator().SeedAdminUser(db, "", ""))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 0, count)
}
