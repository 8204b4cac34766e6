package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/weshowyou-tours/internal/repository"
)

// Desk keeps the open booking forms of every visitor, addressed by a
// random draft id. Forms that have not been touched for longer than the
// TTL are dropped by Sweep.
type Desk struct {
	catalog repository.TourCatalog
	client  ReservationClient
	log     logrus.FieldLogger
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	forms map[string]*deskEntry
}

type deskEntry struct {
	form    *Form
	touched time.Time
}

// NewDesk builds an empty desk. A zero ttl keeps drafts until they are
// submitted or cancelled.
func NewDesk(catalog repository.TourCatalog, client ReservationClient, log logrus.FieldLogger, ttl time.Duration) *Desk {
	return &Desk{
		catalog: catalog,
		client:  client,
		log:     log,
		ttl:     ttl,
		now:     time.Now,
		forms:   make(map[string]*deskEntry),
	}
}

// Open creates a new form for tourID and returns its draft id.
func (d *Desk) Open(ctx context.Context, tourID uint64) (string, *Form, error) {
	f := NewForm(d.catalog, d.client, d.log)
	f.now = d.now
	if err := f.Open(ctx, tourID); err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	f.id = id

	d.mu.Lock()
	d.forms[id] = &deskEntry{form: f, touched: d.now()}
	d.mu.Unlock()
	return id, f, nil
}

// Get returns the form for id and marks it as recently used.
func (d *Desk) Get(id string) (*Form, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.forms[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	e.touched = d.now()
	return e.form, nil
}

// Submit submits the form for id and forgets it once it has closed.
func (d *Desk) Submit(ctx context.Context, id string) (Confirmation, error) {
	f, err := d.Get(id)
	if err != nil {
		return Confirmation{}, err
	}
	conf, err := f.Submit(ctx)
	if err != nil {
		return Confirmation{}, err
	}
	d.forget(id)
	return conf, nil
}

// Cancel closes the form for id and removes it. A form that is mid
// submission is left alone and ErrSubmitInProgress is returned.
func (d *Desk) Cancel(id string) error {
	f, err := d.Get(id)
	if err != nil {
		return err
	}
	f.Cancel()
	if f.State() == StateSubmitting {
		return ErrSubmitInProgress
	}
	d.forget(id)
	return nil
}

// Len reports how many drafts are held.
func (d *Desk) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.forms)
}

// Sweep drops idle drafts and returns how many were removed. Drafts being
// submitted are never dropped.
func (d *Desk) Sweep() int {
	if d.ttl <= 0 {
		return 0
	}
	cutoff := d.now().Add(-d.ttl)
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for id, e := range d.forms {
		if e.touched.Before(cutoff) && e.form.State() != StateSubmitting {
			delete(d.forms, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (d *Desk) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := d.Sweep(); n > 0 {
				d.log.WithField("count", n).Debug("swept idle drafts")
			}
		}
	}
}

func (d *Desk) forget(id string) {
	d.mu.Lock()
	delete(d.forms, id)
	d.mu.Unlock()
}
