package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/weshowyou-tours/internal/model"
	"github.com/iliyamo/weshowyou-tours/internal/utils"
)

// StaffRepo is the MySQL StaffStore over the staff table.
type StaffRepo struct{ DB *sql.DB }

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

// ErrEmailExists is returned by Create on a duplicate email (MySQL 1062).
var ErrEmailExists = errors.New("email already exists")

// Create inserts an account with a bcrypt hash of password and returns its id.
func (r *StaffRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = normalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO staff (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (model.Staff, error) {
	return r.one(ctx,
		"SELECT id,email,password_hash,role,is_active,created_at,updated_at FROM staff WHERE email=? LIMIT 1",
		normalizeEmail(email))
}

func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (model.Staff, error) {
	return r.one(ctx,
		"SELECT id,email,password_hash,role,is_active,created_at,updated_at FROM staff WHERE id=? LIMIT 1",
		id)
}

func (r *StaffRepo) one(ctx context.Context, q string, arg any) (model.Staff, error) {
	var s model.Staff
	err := r.DB.QueryRowContext(ctx, q, arg).
		Scan(&s.ID, &s.Email, &s.PasswordHash, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Staff{}, ErrStaffNotFound
	}
	return s, err
}
