// Package middleware provides shared gin middleware for the HTTP layer.
package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appconfig "github.com/StoryNest/storynest-go/pkg/config"
)

// CORSMiddleware admits the console frontend during development and the
// configured console origin in deployment.
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins: []string{
			appconfig.ConsoleURL,
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
			"http://[::1]:3000", // IPv6 localhost
			"http://[::1]:5173", // IPv6 localhost
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "Cache-Control",
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control", "Connection",
		},
	}

	return cors.New(config)
}
