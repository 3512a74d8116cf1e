// Package container provides dependency injection for all singleton services
package container

import (
	"database/sql"

	"github.com/StoryNest/storynest-go/internal/application/services"
	"github.com/StoryNest/storynest-go/internal/infrastructure/email"
	"github.com/StoryNest/storynest-go/internal/infrastructure/media"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/performance"
	persistence "github.com/StoryNest/storynest-go/internal/infrastructure/persistence/catalog"
	"github.com/StoryNest/storynest-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	AuthService      *services.AuthService
	BookService      *services.BookService
	UserService      *services.UserService
	SessionService   *services.SessionService
	DashboardService *services.DashboardService

	// Infrastructure Dependencies
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
	EmailService email.Service
	DB           *sql.DB
}

// NewContainer creates and wires all singleton services. The channeled
// logger is built earlier in startup so the database layer can log too.
func NewContainer(db *sql.DB, logger *logging.ChanneledLogger) (*Container, error) {
	trackerConfig := performance.DefaultTrackerConfig()
	trackerConfig.MaxMarkers = config.PerfMaxMarkers
	perfTracker := performance.NewTracker(trackerConfig)

	bookRepo := persistence.NewBookRepository(db, logger)
	userRepo := persistence.NewUserRepository(db, logger)
	sessionRepo := persistence.NewSessionRepository(db, logger)

	imageProcessor := media.NewImageProcessor(config.MediaDir, config.CoverMaxWidth)
	pdfStore := media.NewPDFStore(config.MediaDir)

	// Welcome emails are optional; the console runs without a mail key.
	emailService, err := email.NewService()
	if err != nil {
		logger.System().Warn("Email delivery disabled", "reason", err.Error())
		emailService = nil
	}

	return &Container{
		AuthService:      services.NewAuthService(userRepo, logger),
		BookService:      services.NewBookService(bookRepo, imageProcessor, pdfStore, logger),
		UserService:      services.NewUserService(userRepo, emailService, logger),
		SessionService:   services.NewSessionService(sessionRepo, logger),
		DashboardService: services.NewDashboardService(bookRepo, userRepo, sessionRepo, perfTracker, logger),

		Logger:       logger,
		PerfTracker:  perfTracker,
		EmailService: emailService,
		DB:           db,
	}, nil
}
