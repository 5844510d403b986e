package router // package router wires HTTP routes to handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-parking/internal/handler"
	"github.com/iliyamo/vehicle-parking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the protected
// /v1/me route.  Unauthenticated operations live under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh_token body or a bearer header, so it
	// stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// cache middleware, when non-nil, wraps them so repeated lot listing
// and availability checks are served from Redis.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/lots", b.ListLots)
	g.GET("/lots/:id", b.GetLot)
	g.GET("/lots/:id/availability", b.Availability)
}
