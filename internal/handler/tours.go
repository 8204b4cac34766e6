package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/weshowyou-tours/internal/model"
	"github.com/iliyamo/weshowyou-tours/internal/repository"
)

// TourHandler serves the public catalog.
type TourHandler struct {
	Catalog repository.TourCatalog
}

func NewTourHandler(catalog repository.TourCatalog) *TourHandler {
	return &TourHandler{Catalog: catalog}
}

// ListTours handles GET /v1/tours.
func (h *TourHandler) ListTours(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	tours, err := h.Catalog.List(ctx)
	if err != nil {
		return respondError(c, err, "list tours failed")
	}
	if tours == nil {
		tours = []model.Tour{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tours})
}

// GetTour handles GET /v1/tours/:ref where ref is a numeric id or a slug.
func (h *TourHandler) GetTour(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	ref := c.Param("ref")
	var (
		tour model.Tour
		err  error
	)
	if id, perr := strconv.ParseUint(ref, 10, 64); perr == nil {
		tour, err = h.Catalog.Get(ctx, id)
	} else {
		tour, err = h.Catalog.GetBySlug(ctx, ref)
	}
	if err != nil {
		return respondError(c, err, "load tour failed")
	}
	return c.JSON(http.StatusOK, tour)
}
