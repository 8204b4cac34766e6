// Package router registers the HTTP routes of the API on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/weshowyou-tours/internal/handler"
	"github.com/iliyamo/weshowyou-tours/internal/middleware"
)

// RegisterRoutes registers routes that need neither a session nor rate
// limiting. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the catalog endpoints. mw typically carries the
// rate limiter and the response cache.
func RegisterPublic(e *echo.Echo, t *handler.TourHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/tours", mw...)
	g.GET("", t.ListTours)
	g.GET("/:ref", t.GetTour)
}

// RegisterAuth registers staff login under /v1/auth and the session
// endpoints that need a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", mw...)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, middleware.SessionAuth(jwtSecret))

	e.GET("/v1/me", a.Me, middleware.SessionAuth(jwtSecret))
}
