package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepoValidateRefresh(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewTokenRepo(db)
	cols := []string{"staff_id", "expires_at", "revoked_at"}

	mock.ExpectQuery("SELECT staff_id, expires_at, revoked_at FROM refresh_tokens").WithArgs("live").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(uint64(3), time.Now().Add(time.Hour), nil))
	id, err := repo.ValidateRefresh(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)

	mock.ExpectQuery("SELECT staff_id, expires_at, revoked_at FROM refresh_tokens").WithArgs("revoked").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(uint64(3), time.Now().Add(time.Hour), time.Now()))
	_, err = repo.ValidateRefresh(context.Background(), "revoked")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	mock.ExpectQuery("SELECT staff_id, expires_at, revoked_at FROM refresh_tokens").WithArgs("expired").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(uint64(3), time.Now().Add(-time.Hour), nil))
	_, err = repo.ValidateRefresh(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoRevokeAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=NOW\\(\\) WHERE staff_id=\\?").
		WithArgs(uint64(3)).WillReturnResult(sqlmock.NewResult(0, 2))
	require.NoError(t, NewTokenRepo(db).RevokeAllForUser(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepoGetByEmailNormalizes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM staff WHERE email=\\?").WithArgs("ops@weshowyou.ie").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}).
			AddRow(uint64(1), "ops@weshowyou.ie", "hash", "STAFF", true, now, now))
	s, err := NewStaffRepo(db).GetByEmail(context.Background(), " OPS@weshowyou.ie ")
	require.NoError(t, err)
	assert.Equal(t, "STAFF", s.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}
