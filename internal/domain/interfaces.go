package domain

import (
	"context"
	"time"
)

// Repository interfaces. The mysql package implements them against the
// ledger database; the memory package implements them for tests and local
// runs. Implementations map rows to the typed entities in this package and
// never hand untyped maps to the services.

type AuctionRepository interface {
	CreateAuction(ctx context.Context, auction *Auction) error
	GetAuction(ctx context.Context, auctionID string) (*Auction, error)
	GetAuctionDetail(ctx context.Context, auctionID string) (*AuctionDetail, error)
	SearchAuctions(ctx context.Context, filter AuctionFilter) ([]*Auction, error)
	UpdateAuctionStatus(ctx context.Context, auctionID string, status AuctionStatus) error

	// RecordBid atomically inserts the bid and advances the auction's
	// current price from prevPrice to bid.Amount. The price update is
	// conditional on the price still being prevPrice; losing that race
	// rolls the whole operation back and returns ErrConflict.
	RecordBid(ctx context.Context, bid *Bid, prevPrice int64) error

	// CloseExpired flips every active auction whose end time has passed to
	// closed and reports how many rows changed.
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

type BidRepository interface {
	// GetBidHistory returns the auction's bids newest first.
	GetBidHistory(ctx context.Context, auctionID string) ([]*BidDetail, error)
}

type DraftRepository interface {
	CreateDraft(ctx context.Context, draft *AuctionDraft) error
	GetDraft(ctx context.Context, draftID string) (*AuctionDraft, error)
	// DeleteDraft reports whether a row was actually removed, which is what
	// makes promotion exclusive per draft.
	DeleteDraft(ctx context.Context, draftID string) (bool, error)

	// PromoteDraft atomically creates the auction and deletes the draft.
	// When the draft row is already gone the auction insert is rolled back
	// and ErrNotFound is returned, so a draft can never yield two auctions.
	PromoteDraft(ctx context.Context, draftID string, auction *Auction) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUser(ctx context.Context, userID string) (*User, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	// GetSessionUser resolves a session id to its user, or ErrNotFound when
	// the session is absent or expired relative to now.
	GetSessionUser(ctx context.Context, sessionID string, now time.Time) (*SessionUser, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// SessionCache is a read-through cache in front of SessionRepository.
// Sessions are short-lived capability tokens outside the bidding core's
// trust boundary; auction state is never cached.
type SessionCache interface {
	GetSessionUser(ctx context.Context, sessionID string) (*SessionUser, bool, error)
	SetSessionUser(ctx context.Context, sessionID string, user *SessionUser, ttl time.Duration) error
	InvalidateSession(ctx context.Context, sessionID string) error
}
