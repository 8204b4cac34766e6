package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/weshowyou-tours/internal/handler"
	"github.com/iliyamo/weshowyou-tours/internal/middleware"
	"github.com/iliyamo/weshowyou-tours/internal/model"
)

// RegisterBackoffice registers STAFF-scoped endpoints under /v1/backoffice.
// All routes require a valid access token and the STAFF role.
func RegisterBackoffice(e *echo.Echo, b *handler.BackofficeHandler, jwtSecret string) {
	g := e.Group(
		"/v1/backoffice",
		middleware.SessionAuth(jwtSecret),
		middleware.RequireRole(model.RoleStaff),
	)
	g.GET("/dashboard", b.Dashboard)
	g.GET("/booking-options", b.BookingOptions)

	g.GET("/bookings", b.ListBookings)
	g.GET("/bookings/:id", b.GetBooking)
	g.PUT("/bookings/:id", b.UpdateBooking)
}
