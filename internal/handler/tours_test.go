package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/weshowyou-tours/internal/fixture"
	"github.com/iliyamo/weshowyou-tours/internal/model"
	"github.com/iliyamo/weshowyou-tours/internal/repository"
)

func tourServer() *echo.Echo {
	h := NewTourHandler(repository.NewMemoryTourCatalog(fixture.Tours()))
	e := echo.New()
	e.GET("/v1/tours", h.ListTours)
	e.GET("/v1/tours/:ref", h.GetTour)
	return e
}

func TestListTours(t *testing.T) {
	rec := do(tourServer(), http.MethodGet, "/v1/tours", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []model.Tour `json:"items"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "Dublin City Highlights", resp.Items[0].Title)
	assert.Equal(t, "€35", resp.Items[0].PriceLabel)
}

func TestGetTourByIDAndSlug(t *testing.T) {
	e := tourServer()

	var tour model.Tour
	rec := do(e, http.MethodGet, "/v1/tours/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &tour)
	assert.Equal(t, "Cliffs of Moher Day Trip", tour.Title)

	rec = do(e, http.MethodGet, "/v1/tours/guinness-storehouse-experience", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &tour)
	assert.Equal(t, uint64(3), tour.ID)
}

func TestGetTourUnknown(t *testing.T) {
	e := tourServer()
	for _, ref := range []string{"99", "no-such-tour"} {
		rec := do(e, http.MethodGet, "/v1/tours/"+ref, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"tour not found"}`, rec.Body.String())
	}
}
