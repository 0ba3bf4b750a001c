package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"auction-marketplace/internal/domain"
)

type MySQLAuctionRepository struct {
	db *sql.DB
}

func NewMySQLAuctionRepository(db *sql.DB) *MySQLAuctionRepository {
	return &MySQLAuctionRepository{db: db}
}

const auctionColumns = `id, seller_id, title, description, category, starting_price,
        current_price, status, image_url, starts_at, end_at, created_at`

func (r *MySQLAuctionRepository) CreateAuction(ctx context.Context, auction *domain.Auction) error {
	query := `
        INSERT INTO auctions (` + auctionColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		auction.ID, auction.SellerID, auction.Title, auction.Description,
		nullable(auction.Category), auction.StartingPrice, auction.CurrentPrice,
		string(auction.Status), nullable(auction.ImageURL),
		auction.StartsAt, auction.EndAt, auction.CreatedAt)
	return err
}

func (r *MySQLAuctionRepository) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = ?`

	auction, err := scanAuction(r.db.QueryRowContext(ctx, query, auctionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auction %s: %w", auctionID, domain.ErrNotFound)
	}
	return auction, err
}

func (r *MySQLAuctionRepository) GetAuctionDetail(ctx context.Context, auctionID string) (*domain.AuctionDetail, error) {
	query := `
        SELECT a.id, a.seller_id, a.title, a.description, a.category, a.starting_price,
               a.current_price, a.status, a.image_url, a.starts_at, a.end_at, a.created_at,
               u.email
        FROM auctions a
        JOIN users u ON u.id = a.seller_id
        WHERE a.id = ?
    `

	var detail domain.AuctionDetail
	var category, imageURL sql.NullString
	var status string

	err := r.db.QueryRowContext(ctx, query, auctionID).Scan(
		&detail.ID, &detail.SellerID, &detail.Title, &detail.Description,
		&category, &detail.StartingPrice, &detail.CurrentPrice, &status,
		&imageURL, &detail.StartsAt, &detail.EndAt, &detail.CreatedAt,
		&detail.SellerEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auction %s: %w", auctionID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	detail.Category = category.String
	detail.ImageURL = imageURL.String
	detail.Status = domain.AuctionStatus(status)
	return &detail, nil
}

func (r *MySQLAuctionRepository) SearchAuctions(ctx context.Context, filter domain.AuctionFilter) ([]*domain.Auction, error) {
	var where []string
	var args []interface{}

	if filter.Text != "" {
		pattern := "%" + strings.ToLower(filter.Text) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := `SELECT ` + auctionColumns + ` FROM auctions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY end_at ASC LIMIT ?"
	args = append(args, domain.SearchLimit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}
	return auctions, rows.Err()
}

func (r *MySQLAuctionRepository) UpdateAuctionStatus(ctx context.Context, auctionID string, status domain.AuctionStatus) error {
	query := `UPDATE auctions SET status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, string(status), auctionID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("auction %s: %w", auctionID, domain.ErrNotFound)
	}
	return nil
}

// RecordBid inserts the bid and advances current_price in one transaction.
// The price update is a compare-and-swap against prevPrice; losing the race
// rolls everything back so a failed bid never partially applies.
func (r *MySQLAuctionRepository) RecordBid(ctx context.Context, bid *domain.Bid, prevPrice int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `
        INSERT INTO bids (id, auction_id, bidder_id, amount, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	if _, err := tx.ExecContext(ctx, insert,
		bid.ID, bid.AuctionID, bid.BidderID, bid.Amount, bid.CreatedAt); err != nil {
		return err
	}

	update := `UPDATE auctions SET current_price = ? WHERE id = ? AND current_price = ?`
	result, err := tx.ExecContext(ctx, update, bid.Amount, bid.AuctionID, prevPrice)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("auction %s price moved: %w", bid.AuctionID, domain.ErrConflict)
	}

	return tx.Commit()
}

func (r *MySQLAuctionRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE auctions SET status = ? WHERE status = ? AND end_at <= ?`
	result, err := r.db.ExecContext(ctx, query,
		string(domain.AuctionClosed), string(domain.AuctionActive), now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuction(row rowScanner) (*domain.Auction, error) {
	var auction domain.Auction
	var category, imageURL sql.NullString
	var status string

	err := row.Scan(
		&auction.ID, &auction.SellerID, &auction.Title, &auction.Description,
		&category, &auction.StartingPrice, &auction.CurrentPrice, &status,
		&imageURL, &auction.StartsAt, &auction.EndAt, &auction.CreatedAt)
	if err != nil {
		return nil, err
	}

	auction.Category = category.String
	auction.ImageURL = imageURL.String
	auction.Status = domain.AuctionStatus(status)
	return &auction, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
