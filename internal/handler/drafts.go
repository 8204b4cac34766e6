package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/weshowyou-tours/internal/booking"
	"github.com/iliyamo/weshowyou-tours/internal/validation"
)

// DraftHandler drives the public booking form. Each draft lives on the desk
// under the id returned by CreateDraft.
type DraftHandler struct {
	Desk *booking.Desk
}

func NewDraftHandler(desk *booking.Desk) *DraftHandler {
	return &DraftHandler{Desk: desk}
}

type createDraftReq struct {
	TourID uint64 `json:"tour_id"`
}

// updateDraftReq carries either one field or several. Values may be JSON
// strings or numbers.
type updateDraftReq struct {
	Field  string               `json:"field"`
	Value  formValue            `json:"value"`
	Fields map[string]formValue `json:"fields"`
}

type draftResp struct {
	ID string `json:"id"`
	booking.Snapshot
}

// CreateDraft handles POST /v1/drafts: opens the booking form for a tour.
func (h *DraftHandler) CreateDraft(c echo.Context) error {
	var req createDraftReq
	if err := c.Bind(&req); err != nil || req.TourID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tour_id required"})
	}
	id, form, err := h.Desk.Open(c.Request().Context(), req.TourID)
	if err != nil {
		return respondError(c, err, "open draft failed")
	}
	return c.JSON(http.StatusCreated, draftResp{ID: id, Snapshot: form.Snapshot()})
}

// GetDraft handles GET /v1/drafts/:id.
func (h *DraftHandler) GetDraft(c echo.Context) error {
	id := c.Param("id")
	form, err := h.Desk.Get(id)
	if err != nil {
		return respondError(c, err, "load draft failed")
	}
	return c.JSON(http.StatusOK, draftResp{ID: id, Snapshot: form.Snapshot()})
}

// UpdateDraft handles PATCH /v1/drafts/:id. Fields are applied in name
// order; the first failure stops the update and earlier fields stay set,
// just as they would in the form.
func (h *DraftHandler) UpdateDraft(c echo.Context) error {
	var req updateDraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body: values must be strings or numbers"})
	}
	fields := req.Fields
	if req.Field != "" {
		if fields == nil {
			fields = map[string]formValue{}
		}
		fields[req.Field] = req.Value
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field or fields required"})
	}

	id := c.Param("id")
	form, err := h.Desk.Get(id)
	if err != nil {
		return respondError(c, err, "load draft failed")
	}
	for _, name := range sortedKeys(fields) {
		if err := form.UpdateField(name, string(fields[name])); err != nil {
			return respondError(c, err, "update draft failed")
		}
	}
	return c.JSON(http.StatusOK, draftResp{ID: id, Snapshot: form.Snapshot()})
}

// SubmitDraft handles POST /v1/drafts/:id/submit. A failed hand-off to the
// reservation system answers 502 and leaves the draft open for a retry.
func (h *DraftHandler) SubmitDraft(c echo.Context) error {
	id := c.Param("id")
	conf, err := h.Desk.Submit(c.Request().Context(), id)
	if err == nil {
		return c.JSON(http.StatusOK, conf)
	}
	if validation.IsValidation(err) ||
		errors.Is(err, booking.ErrDraftNotFound) ||
		errors.Is(err, booking.ErrSubmitInProgress) ||
		errors.Is(err, booking.ErrFormNotOpen) {
		return respondError(c, err, "submit failed")
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "reservation failed, please try again"})
}

// CancelDraft handles DELETE /v1/drafts/:id.
func (h *DraftHandler) CancelDraft(c echo.Context) error {
	if err := h.Desk.Cancel(c.Param("id")); err != nil {
		return respondError(c, err, "cancel failed")
	}
	return c.NoContent(http.StatusNoContent)
}
