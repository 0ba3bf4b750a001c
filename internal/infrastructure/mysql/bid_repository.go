package mysql

import (
	"context"
	"database/sql"

	"auction-marketplace/internal/domain"
)

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

func (r *MySQLBidRepository) GetBidHistory(ctx context.Context, auctionID string) ([]*domain.BidDetail, error) {
	query := `
        SELECT b.id, b.auction_id, b.bidder_id, b.amount, b.created_at, u.email
        FROM bids b
        JOIN users u ON u.id = b.bidder_id
        WHERE b.auction_id = ?
        ORDER BY b.created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.BidDetail
	for rows.Next() {
		var bid domain.BidDetail

		err := rows.Scan(&bid.ID, &bid.AuctionID, &bid.BidderID,
			&bid.Amount, &bid.CreatedAt, &bid.BidderEmail)
		if err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}

	return bids, rows.Err()
}
