package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/weshowyou-tours/internal/handler"
)

// RegisterDrafts registers the public booking form. No session is needed;
// the draft id returned on creation addresses the form afterwards.
func RegisterDrafts(e *echo.Echo, d *handler.DraftHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/drafts", mw...)
	g.POST("", d.CreateDraft)
	g.GET("/:id", d.GetDraft)
	g.PATCH("/:id", d.UpdateDraft)
	g.POST("/:id/submit", d.SubmitDraft)
	g.DELETE("/:id", d.CancelDraft)
}
