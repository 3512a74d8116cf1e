package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/StoryNest/storynest-go/internal/application/services"
	entities "github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
	schema "github.com/StoryNest/storynest-go/internal/infrastructure/database"
	"github.com/StoryNest/storynest-go/internal/infrastructure/media"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/performance"
	persistence "github.com/StoryNest/storynest-go/internal/infrastructure/persistence/catalog"
)

type testEnv struct {
	router *gin.Engine
	db     *sql.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, schema.NewTableCreator().CreateSchema(db))

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	perf := performance.NewTracker(nil)
	bookRepo := persistence.NewBookRepository(db, logger)
	userRepo := persistence.NewUserRepository(db, logger)
	sessionRepo := persistence.NewSessionRepository(db, logger)

	dir := t.TempDir()
	bookService := services.NewBookService(bookRepo, media.NewImageProcessor(dir, 600), media.NewPDFStore(dir), logger)
	authService := services.NewAuthService(userRepo, logger)
	userService := services.NewUserService(userRepo, nil, logger)
	sessionService := services.NewSessionService(sessionRepo, logger)
	dashboardService := services.NewDashboardService(bookRepo, userRepo, sessionRepo, perf, logger)

	authHandlers := NewAuthHandlers(authService, logger, perf)
	bookHandlers := NewBookHandlers(bookService, logger, perf)
	userHandlers := NewUserHandlers(userService, logger, perf)
	sessionHandlers := NewSessionHandlers(sessionService, logger, perf)
	dashboardHandlers := NewDashboardHandlers(dashboardService, logger, perf)
	opsHandlers := NewOpsHandlers(logger, perf)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/login", authHandlers.PostLogin)
	api.POST("/auth/logout", authHandlers.PostLogout)
	api.GET("/auth/status", authHandlers.GetAuthStatus)
	api.GET("/books", bookHandlers.GetBooks)
	api.POST("/books", authHandlers.AuthMiddleware(), bookHandlers.PostBook)
	api.GET("/users", authHandlers.AdminOnlyMiddleware(), userHandlers.GetUsers)
	api.POST("/sessions", sessionHandlers.PostSession)
	api.GET("/analytics/dashboard", authHandlers.AuthMiddleware(), dashboardHandlers.GetDashboard)
	api.GET("/ops/metrics", authHandlers.AdminOnlyMiddleware(), opsHandlers.GetMetrics)

	return &testEnv{router: r, db: db}
}

func (e *testEnv) seedUser(t *testing.T, email, role, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = e.db.Exec(`INSERT INTO users (id, email, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		"seed-"+role, email, role, string(hash), time.Now().UTC().Format(time.RFC3339))
	require.NoError(t, err)
}

func (e *testEnv) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	w := e.do("POST", "/api/v1/auth/login", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "admin_auth" || cookie.Name == "editor_auth" {
			return cookie
		}
	}
	t.Fatal("no auth cookie set on login")
	return nil
}

func TestLoginSetsRoleCookie(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@storynest.app", "admin", "pw")
	env.seedUser(t, "editor@storynest.app", "editor", "pw")

	cookie := env.login(t, "admin@storynest.app", "pw")
	assert.Equal(t, "admin_auth", cookie.Name)
	assert.True(t, cookie.HttpOnly)

	cookie = env.login(t, "editor@storynest.app", "pw")
	assert.Equal(t, "editor_auth", cookie.Name)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@storynest.app", "admin", "pw")

	w := env.do("POST", "/api/v1/auth/login", `{"email":"admin@storynest.app","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do("POST", "/api/v1/auth/login", `{"email":"admin@storynest.app"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthStatusReflectsCookie(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@storynest.app", "admin", "pw")

	w := env.do("GET", "/api/v1/auth/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, false, status["authenticated"])

	cookie := env.login(t, "admin@storynest.app", "pw")
	w = env.do("GET", "/api/v1/auth/status", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, true, status["authenticated"])
	assert.Equal(t, "admin", status["role"])
}

func TestBookMutationsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/api/v1/books", `{"title":"X","author":"Y"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The public listing stays open.
	w = env.do("GET", "/api/v1/books", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "editor@storynest.app", "editor", "pw")

	w := env.do("GET", "/api/v1/users", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	cookie := env.login(t, "editor@storynest.app", "pw")
	w = env.do("GET", "/api/v1/users", "", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSessionRecordingIsPublic(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/api/v1/sessions", `{"userId":"u1","bookId":"b1","completed":true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var session entities.ReadingSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.NotEmpty(t, session.ID)
	assert.True(t, session.Completed)

	// Anonymous sessions are accepted too.
	w = env.do("POST", "/api/v1/sessions", `{}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@storynest.app", "admin", "pw")
	cookie := env.login(t, "admin@storynest.app", "pw")

	w := env.do("POST", "/api/v1/sessions", `{"bookId":"ghost","completed":true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do("GET", "/api/v1/analytics/dashboard", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot services.DashboardSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, 1, snapshot.Users)
	assert.Equal(t, 1, snapshot.Engagement.TotalSessions)
	assert.Equal(t, 1, snapshot.Engagement.OrphanSessions)
	assert.Equal(t, 100, snapshot.Engagement.CompletionRate)
	assert.Len(t, snapshot.BooksByMonth, 6)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@storynest.app", "admin", "pw")
	cookie := env.login(t, "admin@storynest.app", "pw")

	// Serve the dashboard once so a completed marker exists.
	w := env.do("GET", "/api/v1/analytics/dashboard", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do("GET", "/api/v1/ops/metrics", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Stats  map[string]any `json:"stats"`
		Recent []struct {
			Operation string `json:"operation"`
		} `json:"recent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Stats["totalMarkers"])

	operations := make([]string, 0, len(payload.Recent))
	for _, m := range payload.Recent {
		operations = append(operations, m.Operation)
	}
	assert.Contains(t, operations, "analytics:dashboard")

	w = env.do("GET", "/api/v1/ops/metrics?within=bogus", "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpointRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/api/v1/ops/metrics", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDashboardRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/api/v1/analytics/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
