package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opticrm/backend/internal/infrastructure/logger"
	"github.com/opticrm/backend/internal/interfaces/http/handler"
	"github.com/opticrm/backend/internal/interfaces/http/middleware"
)

// Router assembles the gin engine with middleware and route groups
type Router struct {
	engine *gin.Engine
}

// New builds the router for the given environment
func New(env string, log *zap.Logger, lookupHandler *handler.LookupHandler, healthHandler *handler.HealthHandler) *Router {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.GinRecovery(log),
	)

	healthHandler.RegisterRoutes(engine)

	api := engine.Group("/api/v1")
	lookupHandler.RegisterRoutes(api)

	return &Router{engine: engine}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
