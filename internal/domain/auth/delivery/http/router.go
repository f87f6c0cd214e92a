package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers auth session HTTP routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new auth router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers auth routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.POST("/api/v1/auths/login", r.handler.Login)
	rt.POST("/api/v1/auths/sweep", r.handler.Sweep)
	rt.GET("/api/v1/auths", r.handler.ListAuths)
	rt.GET("/api/v1/auths/{id}", r.handler.GetAuth)
	rt.DELETE("/api/v1/auths/{id}", r.handler.RemoveAuth)

	r.logger.Info().Msg("Auth routes registered")
}
