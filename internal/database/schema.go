package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/iliyamo/vehicle-parking/internal/model"
	"github.com/iliyamo/vehicle-parking/internal/utils"
)

// statements creates every table the application uses.  Statements are
// idempotent so Migrate can run on every start.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(64)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'user',
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)  NOT NULL,
		expires_at DATETIME  NOT NULL,
		revoked_at DATETIME  NULL,
		created_at DATETIME  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS parking_lots (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name         VARCHAR(128)  NOT NULL,
		address      VARCHAR(255)  NOT NULL,
		pin_code     VARCHAR(16)   NOT NULL,
		price_per_hr DOUBLE        NOT NULL,
		max_spots    INT           NOT NULL,
		created_at   DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS parking_spots (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		lot_id     BIGINT UNSIGNED NOT NULL,
		spot_no    INT        NOT NULL,
		status     CHAR(1)    NOT NULL DEFAULT 'A',
		created_at DATETIME   NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_spots_lot_no (lot_id, spot_no),
		CONSTRAINT fk_spots_lot FOREIGN KEY (lot_id) REFERENCES parking_lots(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		spot_id        BIGINT UNSIGNED NOT NULL,
		user_id        BIGINT UNSIGNED NOT NULL,
		vehicle_number VARCHAR(32) NOT NULL,
		parking_time   DATETIME    NOT NULL,
		leaving_time   DATETIME    NULL,
		cost           DOUBLE      NULL,
		status         CHAR(1)     NOT NULL DEFAULT 'U',
		created_at     DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_reservations_user (user_id),
		KEY idx_reservations_spot_status (spot_id, status),
		CONSTRAINT fk_reservations_spot FOREIGN KEY (spot_id) REFERENCES parking_spots(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS lot_bookings (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		lot_id       BIGINT UNSIGNED NOT NULL,
		booking_date DATE NOT NULL,
		spots_booked INT  NOT NULL DEFAULT 0,
		UNIQUE KEY uq_bookings_lot_date (lot_id, booking_date),
		CONSTRAINT fk_bookings_lot FOREIGN KEY (lot_id) REFERENCES parking_lots(id)
	) ENGINE=InnoDB`,
}

// Migrate creates missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin ensures an admin account exists so the API is usable on a
// fresh database.  An existing row with the email wins; the configured
// password is never applied over it.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string, bcryptCost int) error {
	var id uint64
	err := db.QueryRowContext(ctx, "SELECT id FROM users WHERE email=? LIMIT 1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		"admin", email, hash, model.RoleAdmin)
	if err == nil {
		log.Printf("seeded admin user %s", email)
	}
	return err
}
