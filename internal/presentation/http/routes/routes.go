// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-builder/internal/application/container"
	"github.com/AtRiskMedia/tractstack-builder/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/tractstack-builder/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/tractstack-builder/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(container.Logger))
	r.Use(middleware.CORSMiddleware(config.CORSOrigins))

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	pageHandlers := handlers.NewPageHandlers(container.PageService, container.Logger)
	libraryHandlers := handlers.NewLibraryHandlers(container.LibraryService, container.Logger)
	editorHandlers := handlers.NewEditorHandlers(container.EditorService, container.Logger)
	realtimeHandlers := handlers.NewRealtimeHandlers(container.EditorService, container.Hub, config.CORSOrigins, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.DB, container.SessionStore.Len)

	r.GET("/health", healthHandlers.GetHealth)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
		}

		protected := api.Group("")
		protected.Use(middleware.EditorAuthMiddleware(container.AuthService, container.Logger))
		{
			pages := protected.Group("/pages")
			{
				pages.GET("", pageHandlers.GetAllPages)
				pages.POST("", pageHandlers.CreatePage)
				pages.GET("/:id", pageHandlers.GetPageByID)
				pages.DELETE("/:id", pageHandlers.DeletePage)
			}

			library := protected.Group("/library")
			{
				library.GET("", libraryHandlers.GetAllLayouts)
				library.POST("", libraryHandlers.CreateLayout)
				library.GET("/:id", libraryHandlers.GetLayoutByID)
			}

			sessions := protected.Group("/editor/sessions")
			{
				sessions.POST("", editorHandlers.OpenSession)
				sessions.GET("/:id", editorHandlers.GetSession)
				sessions.DELETE("/:id", editorHandlers.CloseSession)
				sessions.POST("/:id/commands", editorHandlers.ExecuteCommand)
				sessions.POST("/:id/undo", editorHandlers.Undo)
				sessions.POST("/:id/redo", editorHandlers.Redo)
				sessions.POST("/:id/selection", editorHandlers.Select)
				sessions.POST("/:id/escape", editorHandlers.Escape)
				sessions.POST("/:id/drag/start", editorHandlers.DragStart)
				sessions.POST("/:id/drag/over", editorHandlers.DragOver)
				sessions.POST("/:id/drag/drop", editorHandlers.Drop)
				sessions.POST("/:id/drag/cancel", editorHandlers.CancelDrag)
				sessions.POST("/:id/import", editorHandlers.Import)
				sessions.POST("/:id/save", editorHandlers.Save)
				sessions.GET("/:id/export", editorHandlers.Export)
				sessions.GET("/:id/ws", realtimeHandlers.Subscribe)
			}
		}
	}

	return r
}
