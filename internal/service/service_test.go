package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/weshowyou-tours/internal/config"
	"github.com/iliyamo/weshowyou-tours/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		Env:               "test",
		Port:              "0",
		StoreDriver:       config.StoreMemory,
		JWTSecret:         "service-test-secret",
		AccessTTL:         time.Minute,
		RefreshTTL:        time.Hour,
		BcryptCost:        bcrypt.MinCost,
		AdminEmail:        "admin@weshowyou.ie",
		AdminPassword:     "letmein",
		ReservationClient: config.ClientSimulated,
		DraftTTL:          time.Hour,
	}
}

func newTestService(t *testing.T) http.Handler {
	t.Helper()
	log, _ := test.NewNullLogger()
	cfg := testConfig()
	stores, err := OpenStores(context.Background(), cfg, log)
	require.NoError(t, err)
	return New(cfg, log, stores, nil).Handler()
}

func call(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func staffToken(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/v1/auth/login", `{"email":"admin@weshowyou.ie","password":"letmein"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Access.Token
}

func TestHealthAndRequestID(t *testing.T) {
	h := newTestService(t)
	rec := call(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestBackofficeRequiresSession(t *testing.T) {
	h := newTestService(t)
	assert.Equal(t, http.StatusUnauthorized, call(t, h, http.MethodGet, "/v1/backoffice/bookings", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, h, http.MethodGet, "/v1/me", "", "").Code)
}

func TestBackofficeWithSession(t *testing.T) {
	h := newTestService(t)
	tok := staffToken(t, h)

	rec := call(t, h, http.MethodGet, "/v1/backoffice/bookings/BK-9999", "", tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"booking not found"}`, rec.Body.String())

	rec = call(t, h, http.MethodPut, "/v1/backoffice/bookings/BK-1003", `{"fields":{"guide_notes":"Group arrived late"}}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"guide_notes":"Group arrived late"`)

	rec = call(t, h, http.MethodGet, "/v1/backoffice/dashboard", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_bookings":3`)

	rec = call(t, h, http.MethodGet, "/v1/me", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"STAFF"`)
}

func TestPublicBookingFlow(t *testing.T) {
	h := newTestService(t)

	rec := call(t, h, http.MethodGet, "/v1/tours/cliffs-of-moher-day-trip", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodPost, "/v1/drafts", `{"tour_id":2}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var draft struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))

	rec = call(t, h, http.MethodPatch, "/v1/drafts/"+draft.ID,
		`{"fields":{"name":"Aoife","email":"aoife@example.com","date":"2099-03-17","guests":"2"}}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/v1/drafts/"+draft.ID+"/submit", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total":"€150"`)
	assert.Contains(t, rec.Body.String(), `"tour_title":"Cliffs of Moher Day Trip"`)
}

func TestSeedSkipsExistingBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 3; i++ {
		mock.ExpectExec("INSERT INTO tours").WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
	}
	cols := []string{"id", "customer", "email", "phone", "tour", "tour_date", "tour_time",
		"participants", "status", "payment_status", "price_cents", "special_requests", "guide_notes",
		"pickup_location", "emergency_contact", "created_at", "updated_at"}
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM bookings ORDER BY id").WillReturnRows(
		sqlmock.NewRows(cols).AddRow("BK-1001", "John Doe", "john.doe@example.com", "", "Dublin City Highlights",
			"2026-10-17", "10:00", 2, "Confirmed", "Fully Paid", int64(7000), "", "", "", "", now, now))

	err = seed(context.Background(), repository.NewTourRepo(db), repository.NewBookingRepo(db), now)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStopsOnCancel(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := testConfig()
	stores, err := OpenStores(context.Background(), cfg, log)
	require.NoError(t, err)
	svc := New(cfg, log, stores, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
}
