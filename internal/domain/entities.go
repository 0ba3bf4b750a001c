package domain

import (
	"time"
)

// User is a registered account. Prices and money everywhere in the system
// are int64 minor currency units (cents).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

type Auction struct {
	ID            string
	SellerID      string
	Title         string
	Description   string
	Category      string // optional, empty when not set
	StartingPrice int64
	CurrentPrice  int64
	Status        AuctionStatus
	ImageURL      string // optional, empty when not set
	StartsAt      time.Time
	EndAt         time.Time
	CreatedAt     time.Time
}

// AuctionDetail is an Auction joined with its seller for the detail page.
type AuctionDetail struct {
	Auction
	SellerEmail string
}

// AuctionDraft is a seller's staging copy of an auction. It has no lifecycle:
// it is created, read back by its owner, and deleted on promote or cancel.
type AuctionDraft struct {
	ID            string
	SellerID      string
	Title         string
	Description   string
	Category      string
	StartingPrice int64
	ImageURL      string
	StartsAt      time.Time
	EndAt         time.Time
	CreatedAt     time.Time
}

// Bid is immutable once recorded.
type Bid struct {
	ID        string
	AuctionID string
	BidderID  string
	Amount    int64
	CreatedAt time.Time
}

// BidDetail is a Bid joined with its bidder for display.
type BidDetail struct {
	Bid
	BidderEmail string
}

type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionUser is the resolved caller identity attached to a request.
type SessionUser struct {
	ID      string
	Email   string
	IsAdmin bool
}

type AuctionStatus string

const (
	AuctionPending  AuctionStatus = "pending"
	AuctionActive   AuctionStatus = "active"
	AuctionClosed   AuctionStatus = "closed"
	AuctionRejected AuctionStatus = "rejected"
)

func (s AuctionStatus) Valid() bool {
	switch s {
	case AuctionPending, AuctionActive, AuctionClosed, AuctionRejected:
		return true
	default:
		return false
	}
}

func (s AuctionStatus) String() string {
	return string(s)
}

// AuctionFilter narrows SearchAuctions. Zero values mean "no constraint".
type AuctionFilter struct {
	Text     string
	Category string
	Status   AuctionStatus
}

// SearchLimit caps every listing query; there is no pagination cursor.
const SearchLimit = 50
