package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order; every statement is idempotent.  Payments
// cascade with their booking and transaction_id is unique across all
// attempts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		first_name    VARCHAR(255) NOT NULL,
		last_name     VARCHAR(255) NOT NULL,
		phone_number  VARCHAR(15)  NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'USER',
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    CHAR(36)        NOT NULL,
		token_hash CHAR(64)        NOT NULL UNIQUE,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS listings (
		id              CHAR(36)      NOT NULL PRIMARY KEY,
		host_id         CHAR(36)      NOT NULL,
		name            VARCHAR(200)  NOT NULL,
		description     TEXT          NOT NULL,
		location        VARCHAR(200)  NOT NULL,
		price_per_night DECIMAL(10,2) NOT NULL,
		created_at      DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_listing_host FOREIGN KEY (host_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id          CHAR(36)      NOT NULL PRIMARY KEY,
		listing_id  CHAR(36)      NOT NULL,
		user_id     CHAR(36)      NOT NULL,
		checkin     DATE          NOT NULL,
		checkout    DATE          NOT NULL,
		total_price DECIMAL(10,2) NOT NULL,
		status      VARCHAR(20)   NOT NULL DEFAULT 'pending',
		created_at  DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_bookings_user (user_id),
		CONSTRAINT fk_booking_listing FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE CASCADE,
		CONSTRAINT fk_booking_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id         CHAR(36) NOT NULL PRIMARY KEY,
		listing_id CHAR(36) NOT NULL,
		user_id    CHAR(36) NOT NULL,
		rating     TINYINT  NOT NULL,
		comment    TEXT     NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_review_listing FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE CASCADE,
		CONSTRAINT fk_review_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS payments (
		id             CHAR(36)      NOT NULL PRIMARY KEY,
		booking_id     CHAR(36)      NOT NULL,
		user_id        CHAR(36)      NOT NULL,
		amount         DECIMAL(10,2) NOT NULL,
		transaction_id VARCHAR(100)  NOT NULL UNIQUE,
		status         VARCHAR(20)   NOT NULL DEFAULT 'Pending',
		created_at     DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_payments_booking (booking_id),
		CONSTRAINT fk_payment_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE,
		CONSTRAINT fk_payment_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	// One row per reference sent to the provider, including those that never
	// produced a payment.
	`CREATE TABLE IF NOT EXISTS payment_attempts (
		tx_ref     VARCHAR(100) NOT NULL PRIMARY KEY,
		booking_id CHAR(36)     NOT NULL,
		user_id    CHAR(36)     NOT NULL,
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_payment_attempts_booking (booking_id),
		CONSTRAINT fk_attempt_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
