package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/weshowyou-tours/internal/fixture"
	"github.com/iliyamo/weshowyou-tours/internal/repository"
)

func newTestDesk(client ReservationClient, ttl time.Duration, now *time.Time) *Desk {
	log, _ := test.NewNullLogger()
	d := NewDesk(repository.NewMemoryTourCatalog(fixture.Tours()), client, log, ttl)
	d.now = func() time.Time { return *now }
	return d
}

func TestDeskOpenAndGet(t *testing.T) {
	now := fixedNow
	d := newTestDesk(acceptAll(), time.Hour, &now)

	id, f, err := d.Open(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	got, err := d.Get(id)
	require.NoError(t, err)
	assert.Same(t, f, got)

	_, err = d.Get("missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDeskSubmitForgetsDraft(t *testing.T) {
	now := fixedNow
	var seen string
	client := clientFunc(func(_ context.Context, req ReservationRequest) (ReservationResult, error) {
		seen = req.DraftID
		return ReservationResult{Reference: "REQ-1"}, nil
	})
	d := newTestDesk(client, time.Hour, &now)
	id, f, err := d.Open(context.Background(), 1)
	require.NoError(t, err)
	fill(t, f, map[string]string{"name": "Ciara", "email": "ciara@example.com", "date": "2025-06-15"})

	_, err = d.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)
	assert.Equal(t, 0, d.Len())
}

func TestDeskFailedSubmitKeepsDraft(t *testing.T) {
	now := fixedNow
	client := clientFunc(func(context.Context, ReservationRequest) (ReservationResult, error) {
		return ReservationResult{}, errors.New("down")
	})
	d := newTestDesk(client, time.Hour, &now)
	id, f, err := d.Open(context.Background(), 1)
	require.NoError(t, err)
	fill(t, f, map[string]string{"name": "Ciara", "email": "ciara@example.com", "date": "2025-06-15"})

	_, err = d.Submit(context.Background(), id)
	require.Error(t, err)
	_, err = d.Get(id)
	assert.NoError(t, err)
}

func TestDeskCancel(t *testing.T) {
	now := fixedNow
	d := newTestDesk(acceptAll(), time.Hour, &now)
	id, _, err := d.Open(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, d.Cancel(id))
	assert.ErrorIs(t, d.Cancel(id), ErrDraftNotFound)
}

func TestDeskSweepDropsIdleDrafts(t *testing.T) {
	now := fixedNow
	d := newTestDesk(acceptAll(), 30*time.Minute, &now)
	stale, _, err := d.Open(context.Background(), 1)
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	fresh, _, err := d.Open(context.Background(), 2)
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, d.Sweep())
	_, err = d.Get(stale)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = d.Get(fresh)
	assert.NoError(t, err)
}

func TestDeskRunStopsWithContext(t *testing.T) {
	now := fixedNow
	d := newTestDesk(acceptAll(), time.Minute, &now)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, d.Run(ctx, time.Millisecond))
}
