package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/weshowyou-tours/internal/model"
)

// TourRepo is the MySQL TourCatalog.
type TourRepo struct {
	db *sql.DB
}

func NewTourRepo(db *sql.DB) *TourRepo {
	return &TourRepo{db: db}
}

const tourColumns = `id, slug, title, duration, price_label, unit_price_cents,
	description, image_url, location, rating, review_count`

func scanTour(row rowScanner) (model.Tour, error) {
	var (
		t        model.Tour
		location sql.NullString
		rating   sql.NullFloat64
		reviews  sql.NullInt32
	)
	if err := row.Scan(&t.ID, &t.Slug, &t.Title, &t.Duration, &t.PriceLabel, &t.UnitPriceCents,
		&t.Description, &t.ImageURL, &location, &rating, &reviews); err != nil {
		return model.Tour{}, err
	}
	if location.Valid {
		v := location.String
		t.Location = &v
	}
	if rating.Valid {
		v := rating.Float64
		t.Rating = &v
	}
	if reviews.Valid {
		v := uint32(reviews.Int32)
		t.ReviewCount = &v
	}
	return t, nil
}

func (r *TourRepo) List(ctx context.Context) ([]model.Tour, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+tourColumns+" FROM tours ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TourRepo) Get(ctx context.Context, id uint64) (model.Tour, error) {
	return r.one(ctx, "SELECT "+tourColumns+" FROM tours WHERE id = ?", id)
}

func (r *TourRepo) GetBySlug(ctx context.Context, slug string) (model.Tour, error) {
	return r.one(ctx, "SELECT "+tourColumns+" FROM tours WHERE slug = ?", slug)
}

func (r *TourRepo) one(ctx context.Context, q string, arg any) (model.Tour, error) {
	t, err := scanTour(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Tour{}, ErrTourNotFound
		}
		return model.Tour{}, err
	}
	return t, nil
}

// Upsert writes a catalog entry, used when seeding an empty database.
func (r *TourRepo) Upsert(ctx context.Context, t model.Tour) error {
	const q = `INSERT INTO tours
		(id, slug, title, duration, price_label, unit_price_cents, description, image_url,
		 location, rating, review_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		 slug = VALUES(slug), title = VALUES(title), duration = VALUES(duration),
		 price_label = VALUES(price_label), unit_price_cents = VALUES(unit_price_cents),
		 description = VALUES(description), image_url = VALUES(image_url),
		 location = VALUES(location), rating = VALUES(rating), review_count = VALUES(review_count)`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.Slug, t.Title, t.Duration, t.PriceLabel,
		t.UnitPriceCents, t.Description, t.ImageURL, t.Location, t.Rating, t.ReviewCount)
	return err
}
