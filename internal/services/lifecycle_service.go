package services

import (
	"context"
	"fmt"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

// allowedTransitions enumerates every legal status edge. Anything else is
// rejected outright; closure of expired auctions goes through CloseExpired
// instead of an edge here.
var allowedTransitions = map[domain.AuctionStatus]map[domain.AuctionStatus]bool{
	domain.AuctionPending: {
		domain.AuctionActive:   true,
		domain.AuctionRejected: true,
	},
}

// LifecycleService owns every write of an auction's status and the
// draft-to-auction promotion path.
type LifecycleService struct {
	auctionRepo domain.AuctionRepository
	draftRepo   domain.DraftRepository
	log         logger.Logger
}

func NewLifecycleService(auctionRepo domain.AuctionRepository, draftRepo domain.DraftRepository, log logger.Logger) *LifecycleService {
	return &LifecycleService{
		auctionRepo: auctionRepo,
		draftRepo:   draftRepo,
		log:         log,
	}
}

// TransitionStatus moves an auction along one of the enumerated edges.
// Edge legality is checked before the caller's role, so an illegal edge
// reports ErrInvalidTransition even for non-admins.
func (s *LifecycleService) TransitionStatus(ctx context.Context, auctionID string, newStatus domain.AuctionStatus, actor *domain.SessionUser) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, newStatus)
	}

	auction, err := s.auctionRepo.GetAuction(ctx, auctionID)
	if err != nil {
		return err
	}

	if !allowedTransitions[auction.Status][newStatus] {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, auction.Status, newStatus)
	}
	if actor == nil || !actor.IsAdmin {
		return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}

	if err := s.auctionRepo.UpdateAuctionStatus(ctx, auctionID, newStatus); err != nil {
		return err
	}

	s.log.Info("Auction status changed",
		"auction_id", auctionID,
		"from", auction.Status.String(),
		"to", newStatus.String(),
		"actor_id", actor.ID)
	return nil
}

// PromoteDraft copies the draft into a new pending auction and deletes the
// draft, atomically. Running it twice on the same draft id fails with
// ErrNotFound on the second call and never creates a second auction.
func (s *LifecycleService) PromoteDraft(ctx context.Context, draftID, sellerID string) (string, error) {
	draft, err := s.draftRepo.GetDraft(ctx, draftID)
	if err != nil {
		return "", err
	}
	if draft.SellerID != sellerID {
		return "", fmt.Errorf("%w: draft %s belongs to another seller", domain.ErrForbidden, draftID)
	}

	auction := &domain.Auction{
		ID:            utils.GenerateID("auction"),
		SellerID:      draft.SellerID,
		Title:         draft.Title,
		Description:   draft.Description,
		Category:      draft.Category,
		StartingPrice: draft.StartingPrice,
		CurrentPrice:  draft.StartingPrice,
		Status:        domain.AuctionPending,
		ImageURL:      draft.ImageURL,
		StartsAt:      draft.StartsAt,
		EndAt:         draft.EndAt,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.draftRepo.PromoteDraft(ctx, draftID, auction); err != nil {
		return "", err
	}

	s.log.Info("Draft promoted",
		"draft_id", draftID,
		"auction_id", auction.ID,
		"seller_id", sellerID)
	return auction.ID, nil
}

// CloseExpired flips every active auction past its end time to closed. The
// sweep calls this; bidding does not depend on it because PlaceBid rejects
// time-expired auctions on its own.
func (s *LifecycleService) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	closed, err := s.auctionRepo.CloseExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	if closed > 0 {
		s.log.Info("Closed expired auctions", "count", closed)
	}
	return closed, nil
}
