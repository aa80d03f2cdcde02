// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/AtRiskMedia/tractstack-builder/internal/application/services"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-builder/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	EditorService  *services.EditorService
	PageService    *services.PageService
	LibraryService *services.LibraryService
	AuthService    *services.AuthService

	// Repositories
	PageRepository    *content.PageRepository
	LibraryRepository *content.LibraryRepository

	// Infrastructure Dependencies
	DB           *database.DB
	SessionStore *stores.EditorSessionStore
	Hub          *messaging.EditorHub
	Logger       *logging.ChanneledLogger
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger) *Container {
	pageRepo := content.NewPageRepository(db.DB, logger)
	libraryRepo := content.NewLibraryRepository(db.DB, logger)
	sessionStore := stores.NewEditorSessionStore(logger)
	hub := messaging.NewEditorHub(logger)

	return &Container{
		EditorService:  services.NewEditorService(pageRepo, libraryRepo, sessionStore, hub, config.HistoryLimit, logger),
		PageService:    services.NewPageService(pageRepo, logger),
		LibraryService: services.NewLibraryService(libraryRepo, logger),
		AuthService: services.NewAuthService(services.AuthConfig{
			PasswordHash: config.EditorPasswordHash,
			JWTSecret:    config.JWTSecret,
			TokenTTL:     config.TokenTTL,
		}, logger),

		PageRepository:    pageRepo,
		LibraryRepository: libraryRepo,

		DB:           db,
		SessionStore: sessionStore,
		Hub:          hub,
		Logger:       logger,
	}
}
