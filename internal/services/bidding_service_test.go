package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/infrastructure/memory"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

func seedUser(t *testing.T, store *memory.Store, email string, admin bool) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           utils.GenerateID("user"),
		Email:        email,
		PasswordHash: "x",
		IsAdmin:      admin,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func seedAuction(t *testing.T, store *memory.Store, sellerID string, status domain.AuctionStatus, price int64, endAt time.Time) *domain.Auction {
	t.Helper()
	auction := &domain.Auction{
		ID:            utils.GenerateID("auction"),
		SellerID:      sellerID,
		Title:         "Studio Desk Lamp, 1960",
		Description:   "A well preserved desk lamp from a Copenhagen studio.",
		Category:      "Design",
		StartingPrice: price,
		CurrentPrice:  price,
		Status:        status,
		StartsAt:      time.Now().UTC().Add(-time.Hour),
		EndAt:         endAt,
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, store.CreateAuction(context.Background(), auction))
	return auction
}

func TestPlaceBid(t *testing.T) {
	ctx := context.Background()
	future := time.Now().UTC().Add(24 * time.Hour)

	tests := []struct {
		name        string
		status      domain.AuctionStatus
		endAt       time.Time
		amount      int64
		wantErr     error
		wantPrice   int64
		wantBidRows int
	}{
		{
			name:        "accepts_strictly_higher_bid",
			status:      domain.AuctionActive,
			endAt:       future,
			amount:      10500,
			wantErr:     nil,
			wantPrice:   10500,
			wantBidRows: 1,
		},
		{
			name:        "rejects_equal_amount",
			status:      domain.AuctionActive,
			endAt:       future,
			amount:      10000,
			wantErr:     domain.ErrInvalidBid,
			wantPrice:   10000,
			wantBidRows: 0,
		},
		{
			name:        "rejects_lower_amount",
			status:      domain.AuctionActive,
			endAt:       future,
			amount:      9000,
			wantErr:     domain.ErrInvalidBid,
			wantPrice:   10000,
			wantBidRows: 0,
		},
		{
			name:        "rejects_zero_amount",
			status:      domain.AuctionActive,
			endAt:       future,
			amount:      0,
			wantErr:     domain.ErrInvalidBid,
			wantPrice:   10000,
			wantBidRows: 0,
		},
		{
			name:        "rejects_pending_auction",
			status:      domain.AuctionPending,
			endAt:       future,
			amount:      99999,
			wantErr:     domain.ErrInvalidState,
			wantPrice:   10000,
			wantBidRows: 0,
		},
		{
			name:        "rejects_closed_auction",
			status:      domain.AuctionClosed,
			endAt:       future,
			amount:      99999,
			wantErr:     domain.ErrInvalidState,
			wantPrice:   10000,
			wantBidRows: 0,
		},
		{
			name:        "rejects_rejected_auction",
			status:      domain.AuctionRejected,
			endAt:       future,
			amount:      99999,
			wantErr:     domain.ErrInvalidState,
			wantPrice:   10000,
			wantBidRows: 0,
		},
		{
			name:        "rejects_time_expired_active_auction",
			status:      domain.AuctionActive,
			endAt:       time.Now().UTC().Add(-time.Minute),
			amount:      99999,
			wantErr:     domain.ErrInvalidState,
			wantPrice:   10000,
			wantBidRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			seller := seedUser(t, store, "seller@example.com", false)
			bidder := seedUser(t, store, "bidder@example.com", false)
			auction := seedAuction(t, store, seller.ID, tt.status, 10000, tt.endAt)

			service := NewBiddingService(store, logger.NewNop())
			err := service.PlaceBid(ctx, auction.ID, bidder.ID, tt.amount)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			got, getErr := store.GetAuction(ctx, auction.ID)
			require.NoError(t, getErr)
			assert.Equal(t, tt.wantPrice, got.CurrentPrice)

			history, histErr := store.GetBidHistory(ctx, auction.ID)
			require.NoError(t, histErr)
			assert.Len(t, history, tt.wantBidRows)
		})
	}
}

func TestPlaceBidUnknownAuction(t *testing.T) {
	store := memory.NewStore()
	bidder := seedUser(t, store, "bidder@example.com", false)
	service := NewBiddingService(store, logger.NewNop())

	err := service.PlaceBid(context.Background(), "auction-missing", bidder.ID, 10500)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// Concurrent bids on one auction must leave current_price equal to the
// highest accepted amount, with every attempt either recorded verbatim or
// rejected. No amount may be silently altered or lost.
func TestPlaceBidConcurrent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seller := seedUser(t, store, "seller@example.com", false)
	auction := seedAuction(t, store, seller.ID, domain.AuctionActive, 10000, time.Now().UTC().Add(24*time.Hour))
	service := NewBiddingService(store, logger.NewNop())

	const bidders = 64
	amounts := make([]int64, bidders)
	for i := range amounts {
		amounts[i] = 10000 + int64(i+1)*100
	}
	maxAmount := amounts[bidders-1]

	bidderIDs := make([]string, bidders)
	for i := range bidderIDs {
		user := seedUser(t, store, utils.GenerateID("bidder")+"@example.com", false)
		bidderIDs[i] = user.ID
	}

	errs := make([]error, bidders)
	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = service.PlaceBid(ctx, auction.ID, bidderIDs[i], amounts[i])
		}(i)
	}
	wg.Wait()

	// Every attempt either succeeded or was rejected for being too low;
	// the serialized engine never reports a conflict in-process.
	accepted := 0
	for i, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		require.ErrorIs(t, err, domain.ErrInvalidBid, "bid %d (%d)", i, amounts[i])
	}
	require.NotZero(t, accepted)

	got, err := store.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, maxAmount, got.CurrentPrice, "price must equal the highest attempted amount")

	history, err := store.GetBidHistory(ctx, auction.ID)
	require.NoError(t, err)
	require.Len(t, history, accepted)

	// Recorded bids carry their original amounts and the highest recorded
	// amount is the current price.
	attempted := make(map[int64]bool, bidders)
	for _, amount := range amounts {
		attempted[amount] = true
	}
	var highest int64
	for _, bid := range history {
		assert.True(t, attempted[bid.Amount], "recorded amount %d was never attempted", bid.Amount)
		if bid.Amount > highest {
			highest = bid.Amount
		}
	}
	assert.Equal(t, got.CurrentPrice, highest)
}

// Full lifecycle walk-through: promote, approve, bid, re-bid, read history.
func TestAuctionEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.NewNop()

	seller := seedUser(t, store, "seller@example.com", false)
	admin := seedUser(t, store, "admin@example.com", true)
	bidderOne := seedUser(t, store, "one@example.com", false)
	bidderTwo := seedUser(t, store, "two@example.com", false)
	bidderThree := seedUser(t, store, "three@example.com", false)

	listing := NewListingService(store, store, store, log)
	lifecycle := NewLifecycleService(store, store, log)
	bidding := NewBiddingService(store, log)

	draftID, err := listing.CreateDraft(ctx, seller.ID, DraftInput{
		Title:         "Bentwood Lounge Chair",
		Description:   "Steam-bent beech frame with the original webbing intact.",
		Category:      "Design",
		StartingPrice: 10000,
		StartsAt:      time.Now().UTC(),
		EndAt:         time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	auctionID, err := lifecycle.PromoteDraft(ctx, draftID, seller.ID)
	require.NoError(t, err)

	created, err := store.GetAuction(ctx, auctionID)
	require.NoError(t, err)
	assert.Equal(t, domain.AuctionPending, created.Status)
	assert.Equal(t, int64(10000), created.CurrentPrice)

	adminUser := &domain.SessionUser{ID: admin.ID, Email: admin.Email, IsAdmin: true}
	require.NoError(t, lifecycle.TransitionStatus(ctx, auctionID, domain.AuctionActive, adminUser))

	require.NoError(t, bidding.PlaceBid(ctx, auctionID, bidderOne.ID, 10500))

	after, err := store.GetAuction(ctx, auctionID)
	require.NoError(t, err)
	assert.Equal(t, int64(10500), after.CurrentPrice)

	err = bidding.PlaceBid(ctx, auctionID, bidderTwo.ID, 10500)
	require.ErrorIs(t, err, domain.ErrInvalidBid)

	require.NoError(t, bidding.PlaceBid(ctx, auctionID, bidderThree.ID, 11000))

	final, err := store.GetAuction(ctx, auctionID)
	require.NoError(t, err)
	assert.Equal(t, int64(11000), final.CurrentPrice)

	history, err := listing.GetBidHistory(ctx, auctionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(11000), history[0].Amount, "newest bid first")
	assert.Equal(t, int64(10500), history[1].Amount)
}
