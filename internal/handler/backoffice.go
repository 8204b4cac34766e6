package handler

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/weshowyou-tours/internal/booking"
	"github.com/iliyamo/weshowyou-tours/internal/fixture"
	"github.com/iliyamo/weshowyou-tours/internal/model"
	"github.com/iliyamo/weshowyou-tours/internal/repository"
	"github.com/iliyamo/weshowyou-tours/internal/utils"
)

// BackofficeHandler serves the staff-only booking pages.
type BackofficeHandler struct {
	Bookings repository.BookingStore
	Editor   *booking.Editor
	Now      func() time.Time
}

func NewBackofficeHandler(store repository.BookingStore, editor *booking.Editor) *BackofficeHandler {
	return &BackofficeHandler{Bookings: store, Editor: editor, Now: time.Now}
}

// bookingView adds the display price to a booking.
type bookingView struct {
	model.Booking
	Price string `json:"price"`
}

func viewOf(b model.Booking) bookingView {
	return bookingView{Booking: b, Price: utils.FormatEuro(b.PriceCents)}
}

type dashboardResp struct {
	TotalBookings  int           `json:"total_bookings"`
	UpcomingTours  int           `json:"upcoming_tours"`
	MonthlyRevenue int64         `json:"monthly_revenue_cents"`
	Revenue        string        `json:"monthly_revenue"`
	TotalCustomers int           `json:"total_customers"`
	Recent         []bookingView `json:"recent_bookings"`
}

// Dashboard handles GET /v1/backoffice/dashboard.
//
// Monthly revenue sums the prices of bookings dated in the current calendar
// month, cancelled ones excluded. Customers are counted by email.
func (h *BackofficeHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Bookings.List(ctx)
	if err != nil {
		return respondError(c, err, "list bookings failed")
	}
	return c.JSON(http.StatusOK, summarize(list, h.Now().UTC()))
}

func summarize(list []model.Booking, now time.Time) dashboardResp {
	today := now.Format("2006-01-02")
	month := now.Format("2006-01")
	customers := make(map[string]struct{}, len(list))
	resp := dashboardResp{TotalBookings: len(list)}
	for _, b := range list {
		if b.Upcoming(today) {
			resp.UpcomingTours++
		}
		if b.Status != model.StatusCancelled && strings.HasPrefix(b.Date, month) {
			resp.MonthlyRevenue += b.PriceCents
		}
		customers[strings.ToLower(b.Email)] = struct{}{}
	}
	resp.TotalCustomers = len(customers)
	resp.Revenue = utils.FormatEuro(resp.MonthlyRevenue)

	recent := append([]model.Booking(nil), list...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > 5 {
		recent = recent[:5]
	}
	resp.Recent = make([]bookingView, 0, len(recent))
	for _, b := range recent {
		resp.Recent = append(resp.Recent, viewOf(b))
	}
	return resp
}

// ListBookings handles GET /v1/backoffice/bookings. The optional status
// query parameter filters by booking status.
func (h *BackofficeHandler) ListBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Bookings.List(ctx)
	if err != nil {
		return respondError(c, err, "list bookings failed")
	}
	status := c.QueryParam("status")
	items := make([]bookingView, 0, len(list))
	for _, b := range list {
		if status != "" && string(b.Status) != status {
			continue
		}
		items = append(items, viewOf(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/backoffice/bookings/:id.
func (h *BackofficeHandler) GetBooking(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b, err := h.Bookings.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err, "load booking failed")
	}
	return c.JSON(http.StatusOK, viewOf(b))
}

// BookingOptions handles GET /v1/backoffice/booking-options.
func (h *BackofficeHandler) BookingOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, fixture.Options())
}

type updateBookingReq struct {
	Fields map[string]formValue `json:"fields"`
}

// UpdateBooking handles PUT /v1/backoffice/bookings/:id: every field goes
// through the edit form, then the form is saved.
func (h *BackofficeHandler) UpdateBooking(c echo.Context) error {
	var req updateBookingReq
	if err := c.Bind(&req); err != nil || len(req.Fields) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fields required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	form, err := h.Editor.Load(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err, "load booking failed")
	}
	for _, name := range sortedKeys(req.Fields) {
		if err := form.UpdateField(name, string(req.Fields[name])); err != nil {
			return respondError(c, err, "update booking failed")
		}
	}
	saved, err := form.Submit(ctx)
	if err != nil {
		return respondError(c, err, "save booking failed")
	}
	return c.JSON(http.StatusOK, viewOf(saved))
}
