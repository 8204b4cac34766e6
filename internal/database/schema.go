package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tours (
		id BIGINT UNSIGNED PRIMARY KEY,
		slug VARCHAR(191) NOT NULL UNIQUE,
		title VARCHAR(255) NOT NULL,
		duration VARCHAR(64) NOT NULL,
		price_label VARCHAR(32) NOT NULL,
		unit_price_cents BIGINT NOT NULL,
		description TEXT NOT NULL,
		image_url VARCHAR(512) NOT NULL,
		location VARCHAR(255) NULL,
		rating DOUBLE NULL,
		review_count INT UNSIGNED NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id VARCHAR(32) PRIMARY KEY,
		customer VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		tour VARCHAR(255) NOT NULL,
		tour_date DATE NOT NULL,
		tour_time TIME NOT NULL,
		participants INT UNSIGNED NOT NULL,
		status VARCHAR(16) NOT NULL,
		payment_status VARCHAR(16) NOT NULL,
		price_cents BIGINT NOT NULL,
		special_requests TEXT NOT NULL,
		guide_notes TEXT NOT NULL,
		pickup_location VARCHAR(255) NOT NULL DEFAULT '',
		emergency_contact VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		CHECK (participants >= 1),
		CHECK (price_cents >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS staff (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(191) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		staff_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_refresh_tokens_staff (staff_id)
	)`,
}

// CreateTables creates every table the MySQL stores use. It is safe to run
// on each start.
func CreateTables(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
