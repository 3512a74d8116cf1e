// Package config provides centralized default values for StoryNest
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database
	DBDriver                 string
	DBPath                   string
	DBURL                    string
	DBAuthToken              string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int
	SlowQueryThreshold       time.Duration

	// Auth
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string

	// Media
	MediaDir      string
	CoverMaxWidth int

	// Analytics
	TrendMonths      int
	ActiveWindowDays int
	RecentLimit      int

	// Email
	ResendAPIKey string
	EmailFrom    string
	ConsoleURL   string

	// Logging
	LogDirectory   string
	LogVerboseSQL  bool
	PerfMaxMarkers int
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "storynest.db")
	DBURL = getEnvString("DB_URL", "")
	DBAuthToken = getEnvString("DB_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	TokenTTL = getEnvDuration("TOKEN_TTL", 24*time.Hour)
	AdminEmail = getEnvString("ADMIN_EMAIL", "")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")

	// Media
	MediaDir = getEnvString("MEDIA_DIR", "media")
	CoverMaxWidth = getEnvInt("COVER_MAX_WIDTH", 600)

	// Analytics
	TrendMonths = getEnvInt("TREND_MONTHS", 6)
	ActiveWindowDays = getEnvInt("ACTIVE_WINDOW_DAYS", 7)
	RecentLimit = getEnvInt("RECENT_LIMIT", 5)

	// Email
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "StoryNest <no-reply@storynest.app>")
	ConsoleURL = getEnvString("CONSOLE_URL", "http://localhost:3000")

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogVerboseSQL = getEnvBool("LOG_VERBOSE_SQL", false)
	PerfMaxMarkers = getEnvInt("PERF_MAX_MARKERS", 1000)
}
