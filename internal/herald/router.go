package herald

import (
	"github.com/gin-gonic/gin"
	"github.com/kiosk404/herald/internal/herald/handler/middleware"
	v1 "github.com/kiosk404/herald/internal/herald/handler/v1"
	prefService "github.com/kiosk404/herald/internal/herald/service/preferences/domain/service"
	sessService "github.com/kiosk404/herald/internal/herald/service/sessions/domain/service"
	"github.com/kiosk404/herald/internal/herald/service/speech/provider/spi"
)

// routerDeps holds the dependencies needed for route registration.
type routerDeps struct {
	pipeline    v1.QueryProcessor
	catalog     v1.ToolCatalog
	sessions    sessService.SessionService
	preferences prefService.PreferencesService
	speech      spi.Provider
	mcp         v1.MCPControl

	maxUploadBytes int64
	authConfig     *middleware.AuthConfig
	defaultUser    string
}

func initRouter(g *gin.Engine, deps *routerDeps) {
	installMiddleware(g, deps)
	installController(g, deps)
}

func installMiddleware(g *gin.Engine, deps *routerDeps) {
	g.Use(gin.Recovery())
	g.Use(middleware.CORS())

	if deps.authConfig != nil {
		g.Use(middleware.BearerAuth(deps.authConfig))
	}
	g.Use(middleware.Identity(deps.defaultUser))
}

func installController(g *gin.Engine, deps *routerDeps) {
	chatHandler := v1.NewChatHandler(deps.pipeline)
	speechHandler := v1.NewSpeechHandler(deps.speech, deps.pipeline, deps.maxUploadBytes)
	toolHandler := v1.NewToolHandler(deps.catalog)
	sessionHandler := v1.NewSessionHandler(deps.sessions)
	prefsHandler := v1.NewPreferencesHandler(deps.preferences)
	mcpHandler := v1.NewMCPHandler(deps.mcp)

	apiV1 := g.Group("/v1")
	{
		// Query processing.
		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.POST("/query", chatHandler.Query)
		apiV1.POST("/speech", speechHandler.Handle)

		// Tool discovery.
		apiV1.GET("/tools", toolHandler.List)
		apiV1.GET("/tools/search", toolHandler.Search)
		apiV1.GET("/tools/category/:category", toolHandler.ByCategory)
		apiV1.GET("/tools/:name", toolHandler.Get)

		// Conversation sessions.
		apiV1.POST("/sessions", sessionHandler.Create)
		apiV1.GET("/sessions", sessionHandler.List)
		apiV1.GET("/sessions/:id", sessionHandler.Get)
		apiV1.DELETE("/sessions/:id", sessionHandler.Delete)

		// Personalization profile.
		apiV1.GET("/preferences", prefsHandler.Get)
		apiV1.PUT("/preferences", prefsHandler.Put)

		// External tool servers.
		apiV1.GET("/mcp/servers", mcpHandler.List)
		apiV1.POST("/mcp/servers/:name/reconnect", mcpHandler.Reconnect)
	}
}
