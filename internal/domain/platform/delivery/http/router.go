package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers taxonomy and health routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new platform router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers platform routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.GET("/health", r.handler.Health)
	rt.GET("/api/v1/taxonomy/media", r.handler.ListMedia)
	rt.GET("/api/v1/taxonomy/media/{raw}", r.handler.ClassifyMedia)
	rt.GET("/api/v1/taxonomy/content", r.handler.ListCollections)
	rt.GET("/api/v1/taxonomy/content/{raw}", r.handler.ClassifyContent)

	r.logger.Info().Msg("Platform routes registered")
}
