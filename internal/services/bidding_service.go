package services

import (
	"context"
	"fmt"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

// BiddingService validates and commits bids. It is the sole writer of an
// auction's current price: the read-validate-write sequence runs under a
// per-auction mutex, and the store's compare-and-swap backs that up across
// instances by rejecting a price that moved underneath us with ErrConflict.
type BiddingService struct {
	auctionRepo domain.AuctionRepository
	locks       *keyedMutex
	log         logger.Logger
}

func NewBiddingService(auctionRepo domain.AuctionRepository, log logger.Logger) *BiddingService {
	return &BiddingService{
		auctionRepo: auctionRepo,
		locks:       newKeyedMutex(),
		log:         log,
	}
}

// PlaceBid accepts or rejects a bid. On acceptance the bid row and the price
// update are persisted as one atomic unit; on any error nothing is applied.
// The caller re-reads the auction for the new authoritative price.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount int64) error {
	unlock := s.locks.Lock(auctionID)
	defer unlock()

	// Price must be read fresh under the lock, never from a cache.
	auction, err := s.auctionRepo.GetAuction(ctx, auctionID)
	if err != nil {
		return err
	}

	if auction.Status != domain.AuctionActive {
		return fmt.Errorf("%w: auction %s is %s", domain.ErrInvalidState, auctionID, auction.Status)
	}
	// Lazy expiry: a time-expired auction is not biddable even while the
	// sweep has not flipped its status yet.
	now := time.Now().UTC()
	if now.After(auction.EndAt) {
		return fmt.Errorf("%w: auction %s ended at %s", domain.ErrInvalidState, auctionID, auction.EndAt.Format(time.RFC3339))
	}

	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidBid)
	}
	if amount <= auction.CurrentPrice {
		return fmt.Errorf("%w: current price is %d", domain.ErrInvalidBid, auction.CurrentPrice)
	}

	bid := &domain.Bid{
		ID:        utils.GenerateID("bid"),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: now,
	}

	if err := s.auctionRepo.RecordBid(ctx, bid, auction.CurrentPrice); err != nil {
		return fmt.Errorf("record bid on auction %s: %w", auctionID, err)
	}

	s.log.Info("Bid accepted",
		"auction_id", auctionID,
		"bidder_id", bidderID,
		"amount", amount,
		"previous_price", auction.CurrentPrice)
	return nil
}
