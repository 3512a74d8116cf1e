package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrDefault(t *testing.T) {
	u := &User{ID: "u1", Email: "kid@example.com"}
	assert.Equal(t, "user", u.RoleOrDefault())

	u.Role = "editor"
	assert.Equal(t, "editor", u.RoleOrDefault())
}

func TestNormalizeCover(t *testing.T) {
	assert.Equal(t, "/media/covers/a.webp", NormalizeCover("/media/covers/a.webp", "/old/a.png"))
	assert.Equal(t, "/old/a.png", NormalizeCover("", "/old/a.png"))
	assert.Equal(t, "", NormalizeCover("", ""))
}

func TestParseTimestamp(t *testing.T) {
	ts := ParseTimestamp("2026-03-15T10:30:00Z")
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), *ts)

	ts = ParseTimestamp("2026-03-15")
	require.NotNil(t, ts)
	assert.Equal(t, 2026, ts.Year())

	assert.Nil(t, ParseTimestamp(""))
	assert.Nil(t, ParseTimestamp("not-a-date"))
}
