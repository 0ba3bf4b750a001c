package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auction-marketplace/internal/domain"
)

type MySQLDraftRepository struct {
	db *sql.DB
}

func NewMySQLDraftRepository(db *sql.DB) *MySQLDraftRepository {
	return &MySQLDraftRepository{db: db}
}

func (r *MySQLDraftRepository) CreateDraft(ctx context.Context, draft *domain.AuctionDraft) error {
	query := `
        INSERT INTO auction_drafts
        (id, seller_id, title, description, category, starting_price, image_url, starts_at, end_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		draft.ID, draft.SellerID, draft.Title, draft.Description,
		nullable(draft.Category), draft.StartingPrice, nullable(draft.ImageURL),
		draft.StartsAt, draft.EndAt, draft.CreatedAt)
	return err
}

func (r *MySQLDraftRepository) GetDraft(ctx context.Context, draftID string) (*domain.AuctionDraft, error) {
	query := `
        SELECT id, seller_id, title, description, category, starting_price,
               image_url, starts_at, end_at, created_at
        FROM auction_drafts WHERE id = ?
    `

	var draft domain.AuctionDraft
	var category, imageURL sql.NullString

	err := r.db.QueryRowContext(ctx, query, draftID).Scan(
		&draft.ID, &draft.SellerID, &draft.Title, &draft.Description,
		&category, &draft.StartingPrice, &imageURL,
		&draft.StartsAt, &draft.EndAt, &draft.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", draftID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	draft.Category = category.String
	draft.ImageURL = imageURL.String
	return &draft, nil
}

func (r *MySQLDraftRepository) DeleteDraft(ctx context.Context, draftID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auction_drafts WHERE id = ?`, draftID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// PromoteDraft creates the auction and deletes the draft in one transaction.
// The delete's row count is the exclusivity guard: if another promotion got
// there first the insert is rolled back and ErrNotFound is returned.
func (r *MySQLDraftRepository) PromoteDraft(ctx context.Context, draftID string, auction *domain.Auction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `
        INSERT INTO auctions
        (id, seller_id, title, description, category, starting_price, current_price,
         status, image_url, starts_at, end_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	if _, err := tx.ExecContext(ctx, insert,
		auction.ID, auction.SellerID, auction.Title, auction.Description,
		nullable(auction.Category), auction.StartingPrice, auction.CurrentPrice,
		string(auction.Status), nullable(auction.ImageURL),
		auction.StartsAt, auction.EndAt, auction.CreatedAt); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM auction_drafts WHERE id = ?`, draftID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("draft %s already promoted: %w", draftID, domain.ErrNotFound)
	}

	return tx.Commit()
}
