package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

// DraftInput carries the seller-provided fields for a new auction draft.
type DraftInput struct {
	Title         string
	Description   string
	Category      string
	StartingPrice int64
	ImageURL      string
	StartsAt      time.Time
	EndAt         time.Time
}

// ListingService is the read/query surface plus draft management. It never
// writes prices or statuses.
type ListingService struct {
	auctionRepo domain.AuctionRepository
	bidRepo     domain.BidRepository
	draftRepo   domain.DraftRepository
	log         logger.Logger
}

func NewListingService(
	auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	draftRepo domain.DraftRepository,
	log logger.Logger,
) *ListingService {
	return &ListingService{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		draftRepo:   draftRepo,
		log:         log,
	}
}

// SearchAuctions returns up to domain.SearchLimit auctions ordered by
// soonest end time first.
func (s *ListingService) SearchAuctions(ctx context.Context, filter domain.AuctionFilter) ([]*domain.Auction, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, filter.Status)
	}
	return s.auctionRepo.SearchAuctions(ctx, filter)
}

func (s *ListingService) GetAuction(ctx context.Context, auctionID string) (*domain.AuctionDetail, error) {
	return s.auctionRepo.GetAuctionDetail(ctx, auctionID)
}

// GetBidHistory returns the auction's bids newest first.
func (s *ListingService) GetBidHistory(ctx context.Context, auctionID string) ([]*domain.BidDetail, error) {
	if _, err := s.auctionRepo.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	return s.bidRepo.GetBidHistory(ctx, auctionID)
}

func (s *ListingService) CreateDraft(ctx context.Context, sellerID string, input DraftInput) (string, error) {
	if err := validateDraftInput(input); err != nil {
		return "", err
	}

	draft := &domain.AuctionDraft{
		ID:            utils.GenerateID("draft"),
		SellerID:      sellerID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Category:      strings.TrimSpace(input.Category),
		StartingPrice: input.StartingPrice,
		ImageURL:      input.ImageURL,
		StartsAt:      input.StartsAt,
		EndAt:         input.EndAt,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.draftRepo.CreateDraft(ctx, draft); err != nil {
		return "", fmt.Errorf("create draft for seller %s: %w", sellerID, err)
	}

	s.log.Info("Draft created", "draft_id", draft.ID, "seller_id", sellerID)
	return draft.ID, nil
}

// GetDraft returns the draft only to its owner.
func (s *ListingService) GetDraft(ctx context.Context, draftID, sellerID string) (*domain.AuctionDraft, error) {
	draft, err := s.draftRepo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.SellerID != sellerID {
		return nil, fmt.Errorf("%w: draft %s belongs to another seller", domain.ErrForbidden, draftID)
	}
	return draft, nil
}

// DeleteDraft is the cancel path. A draft that is already gone, whether
// deleted or promoted, reports ErrNotFound.
func (s *ListingService) DeleteDraft(ctx context.Context, draftID, sellerID string) error {
	if _, err := s.GetDraft(ctx, draftID, sellerID); err != nil {
		return err
	}
	deleted, err := s.draftRepo.DeleteDraft(ctx, draftID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("draft %s: %w", draftID, domain.ErrNotFound)
	}
	s.log.Info("Draft deleted", "draft_id", draftID, "seller_id", sellerID)
	return nil
}

func validateDraftInput(input DraftInput) error {
	if len(strings.TrimSpace(input.Title)) < 3 {
		return fmt.Errorf("%w: title must be at least 3 characters", domain.ErrValidation)
	}
	if len(strings.TrimSpace(input.Description)) < 20 {
		return fmt.Errorf("%w: description must be at least 20 characters", domain.ErrValidation)
	}
	if input.StartingPrice <= 0 {
		return fmt.Errorf("%w: starting price must be a positive number", domain.ErrValidation)
	}
	if input.StartsAt.IsZero() {
		return fmt.Errorf("%w: start date/time is required", domain.ErrValidation)
	}
	if input.EndAt.IsZero() {
		return fmt.Errorf("%w: end date/time is required", domain.ErrValidation)
	}
	if !input.EndAt.After(input.StartsAt) {
		return fmt.Errorf("%w: end date/time must be after the start date/time", domain.ErrValidation)
	}
	return nil
}
