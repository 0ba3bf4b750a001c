package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema idempotently. Statements are ordered so foreign
// keys resolve on a fresh database.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(64)  PRIMARY KEY,
			email         VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			is_admin      BOOLEAN      NOT NULL DEFAULT FALSE,
			created_at    DATETIME(6)  NOT NULL,
			UNIQUE KEY uniq_users_email (email)
		)`,
		`CREATE TABLE IF NOT EXISTS auctions (
			id             VARCHAR(64)  PRIMARY KEY,
			seller_id      VARCHAR(64)  NOT NULL,
			title          VARCHAR(255) NOT NULL,
			description    TEXT         NOT NULL,
			category       VARCHAR(64)  NULL,
			starting_price BIGINT       NOT NULL,
			current_price  BIGINT       NOT NULL,
			status         VARCHAR(16)  NOT NULL,
			image_url      VARCHAR(512) NULL,
			starts_at      DATETIME(6)  NOT NULL,
			end_at         DATETIME(6)  NOT NULL,
			created_at     DATETIME(6)  NOT NULL,
			KEY idx_auctions_status_end (status, end_at),
			CONSTRAINT fk_auctions_seller FOREIGN KEY (seller_id) REFERENCES users (id)
		)`,
		`CREATE TABLE IF NOT EXISTS auction_drafts (
			id             VARCHAR(64)  PRIMARY KEY,
			seller_id      VARCHAR(64)  NOT NULL,
			title          VARCHAR(255) NOT NULL,
			description    TEXT         NOT NULL,
			category       VARCHAR(64)  NULL,
			starting_price BIGINT       NOT NULL,
			image_url      VARCHAR(512) NULL,
			starts_at      DATETIME(6)  NOT NULL,
			end_at         DATETIME(6)  NOT NULL,
			created_at     DATETIME(6)  NOT NULL,
			KEY idx_drafts_seller (seller_id),
			CONSTRAINT fk_drafts_seller FOREIGN KEY (seller_id) REFERENCES users (id)
		)`,
		`CREATE TABLE IF NOT EXISTS bids (
			id         VARCHAR(64) PRIMARY KEY,
			auction_id VARCHAR(64) NOT NULL,
			bidder_id  VARCHAR(64) NOT NULL,
			amount     BIGINT      NOT NULL,
			created_at DATETIME(6) NOT NULL,
			KEY idx_bids_auction_created (auction_id, created_at),
			CONSTRAINT fk_bids_auction FOREIGN KEY (auction_id) REFERENCES auctions (id),
			CONSTRAINT fk_bids_bidder FOREIGN KEY (bidder_id) REFERENCES users (id)
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id         VARCHAR(64) PRIMARY KEY,
			user_id    VARCHAR(64) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			expires_at DATETIME(6) NOT NULL,
			KEY idx_sessions_expires (expires_at),
			CONSTRAINT fk_sessions_user FOREIGN KEY (user_id) REFERENCES users (id)
		)`,
	}

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
