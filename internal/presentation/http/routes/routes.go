// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/StoryNest/storynest-go/internal/application/container"
	"github.com/StoryNest/storynest-go/internal/presentation/http/handlers"
	"github.com/StoryNest/storynest-go/internal/presentation/http/middleware"
	"github.com/StoryNest/storynest-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Stored covers and PDFs are served straight from the media root.
	r.Static("/media", config.MediaDir)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	bookHandlers := handlers.NewBookHandlers(container.BookService, container.Logger, container.PerfTracker)
	userHandlers := handlers.NewUserHandlers(container.UserService, container.Logger, container.PerfTracker)
	sessionHandlers := handlers.NewSessionHandlers(container.SessionService, container.Logger, container.PerfTracker)
	dashboardHandlers := handlers.NewDashboardHandlers(container.DashboardService, container.Logger, container.PerfTracker)
	opsHandlers := handlers.NewOpsHandlers(container.Logger, container.PerfTracker)

	api := r.Group("/api/v1")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/logout", authHandlers.PostLogout)
			auth.GET("/status", authHandlers.GetAuthStatus)
		}

		// Catalog routes
		books := api.Group("/books")
		{
			// Read-Only Routes (Public)
			books.GET("", bookHandlers.GetBooks)
			books.GET("/:id", bookHandlers.GetBook)

			// Mutation Routes (Protected)
			mutations := books.Group("")
			mutations.Use(authHandlers.AuthMiddleware())
			{
				mutations.POST("", bookHandlers.PostBook)
				mutations.PUT("/:id", bookHandlers.PutBook)
				mutations.DELETE("/:id", bookHandlers.DeleteBook)
			}
		}

		// Account management (admin only)
		users := api.Group("/users")
		users.Use(authHandlers.AdminOnlyMiddleware())
		{
			users.GET("", userHandlers.GetUsers)
			users.POST("", userHandlers.PostUser)
			users.PUT("/:id/role", userHandlers.PutUserRole)
			users.DELETE("/:id", userHandlers.DeleteUser)
		}

		// Reading sessions. Recording is open to the reader app, the
		// listing is for the console.
		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandlers.PostSession)
			sessions.GET("", authHandlers.AuthMiddleware(), sessionHandlers.GetSessions)
		}

		// Analytics endpoints
		analytics := api.Group("/analytics")
		analytics.Use(authHandlers.AuthMiddleware())
		{
			analytics.GET("/dashboard", dashboardHandlers.GetDashboard)
		}

		// Operations endpoints (admin only)
		logs := api.Group("/logs")
		logs.Use(authHandlers.AdminOnlyMiddleware())
		{
			logs.GET("/stream", opsHandlers.StreamLogs)
			logs.GET("/levels", opsHandlers.GetLogLevels)
			logs.POST("/levels", opsHandlers.PostLogLevel)
		}

		ops := api.Group("/ops")
		ops.Use(authHandlers.AdminOnlyMiddleware())
		{
			ops.GET("/metrics", opsHandlers.GetMetrics)
		}
	}

	return r
}
