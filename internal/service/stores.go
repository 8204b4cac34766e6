package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/weshowyou-tours/internal/config"
	"github.com/iliyamo/weshowyou-tours/internal/database"
	"github.com/iliyamo/weshowyou-tours/internal/fixture"
	"github.com/iliyamo/weshowyou-tours/internal/model"
	"github.com/iliyamo/weshowyou-tours/internal/repository"
	"github.com/iliyamo/weshowyou-tours/internal/utils"
)

// Stores groups the repositories the handlers depend on.
type Stores struct {
	Tours    repository.TourCatalog
	Bookings repository.BookingStore
	Staff    repository.StaffStore
	Tokens   repository.TokenStore

	db *sql.DB
}

// Close releases the database connection, if any.
func (s Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// OpenStores builds the stores selected by cfg.StoreDriver.
func OpenStores(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMySQL:
		return openMySQL(ctx, cfg, log)
	default:
		return memoryStores(cfg, time.Now())
	}
}

// memoryStores seeds fresh in-memory stores from the fixtures. The admin
// account comes from ADMIN_EMAIL and ADMIN_PASSWORD.
func memoryStores(cfg config.Config, now time.Time) (Stores, error) {
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return Stores{}, fmt.Errorf("hashing admin password: %w", err)
	}
	admin := model.Staff{
		ID:           1,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleStaff,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return Stores{
		Tours:    repository.NewMemoryTourCatalog(fixture.Tours()),
		Bookings: repository.NewMemoryBookingStore(fixture.Bookings(now)),
		Staff:    repository.NewMemoryStaffStore(admin),
		Tokens:   repository.NewMemoryTokenStore(),
	}, nil
}

func openMySQL(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (Stores, error) {
	db, err := database.Open(ctx, database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		return Stores{}, fmt.Errorf("connecting to db: %w", err)
	}
	if err := database.CreateTables(ctx, db); err != nil {
		_ = db.Close()
		return Stores{}, fmt.Errorf("creating tables: %w", err)
	}

	tours := repository.NewTourRepo(db)
	bookings := repository.NewBookingRepo(db)
	staff := repository.NewStaffRepo(db)
	s := Stores{Tours: tours, Bookings: bookings, Staff: staff, Tokens: repository.NewTokenRepo(db), db: db}

	if cfg.SeedFixtures {
		if err := seed(ctx, tours, bookings, time.Now()); err != nil {
			_ = db.Close()
			return Stores{}, fmt.Errorf("seeding fixtures: %w", err)
		}
		log.Info("seeded tour catalog and sample bookings")
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		_, err := staff.Create(ctx, cfg.AdminEmail, cfg.AdminPassword, model.RoleStaff, cfg.BcryptCost)
		switch {
		case errors.Is(err, repository.ErrEmailExists):
		case err != nil:
			_ = db.Close()
			return Stores{}, fmt.Errorf("creating admin account: %w", err)
		default:
			log.WithField("email", cfg.AdminEmail).Info("created admin account")
		}
	}
	return s, nil
}

// seed writes the catalog, and the sample bookings when the booking table
// is still empty.
func seed(ctx context.Context, tours *repository.TourRepo, bookings repository.BookingStore, now time.Time) error {
	for _, t := range fixture.Tours() {
		if err := tours.Upsert(ctx, t); err != nil {
			return err
		}
	}
	existing, err := bookings.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, b := range fixture.Bookings(now) {
		if _, err := bookings.Save(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
