// Package memory implements the domain repositories in process memory.
// It honors the same contracts as the mysql package, including the
// compare-and-swap on RecordBid, so the services can be exercised without a
// database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"auction-marketplace/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	byEmail  map[string]string
	auctions map[string]*domain.Auction
	drafts   map[string]*domain.AuctionDraft
	bids     map[string][]*domain.Bid // key: auctionID, append order
	sessions map[string]*domain.Session
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		byEmail:  make(map[string]string),
		auctions: make(map[string]*domain.Auction),
		drafts:   make(map[string]*domain.AuctionDraft),
		bids:     make(map[string][]*domain.Bid),
		sessions: make(map[string]*domain.Session),
	}
}

// --- AuctionRepository ---

func (s *Store) CreateAuction(ctx context.Context, auction *domain.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *auction
	s.auctions[auction.ID] = &cp
	return nil
}

func (s *Store) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	auction, ok := s.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("auction %s: %w", auctionID, domain.ErrNotFound)
	}
	cp := *auction
	return &cp, nil
}

func (s *Store) GetAuctionDetail(ctx context.Context, auctionID string) (*domain.AuctionDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	auction, ok := s.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("auction %s: %w", auctionID, domain.ErrNotFound)
	}
	detail := domain.AuctionDetail{Auction: *auction}
	if seller, ok := s.users[auction.SellerID]; ok {
		detail.SellerEmail = seller.Email
	}
	return &detail, nil
}

func (s *Store) SearchAuctions(ctx context.Context, filter domain.AuctionFilter) ([]*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text := strings.ToLower(filter.Text)
	var matches []*domain.Auction
	for _, auction := range s.auctions {
		if text != "" &&
			!strings.Contains(strings.ToLower(auction.Title), text) &&
			!strings.Contains(strings.ToLower(auction.Description), text) {
			continue
		}
		if filter.Category != "" && auction.Category != filter.Category {
			continue
		}
		if filter.Status != "" && auction.Status != filter.Status {
			continue
		}
		cp := *auction
		matches = append(matches, &cp)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].EndAt.Before(matches[j].EndAt)
	})
	if len(matches) > domain.SearchLimit {
		matches = matches[:domain.SearchLimit]
	}
	return matches, nil
}

func (s *Store) UpdateAuctionStatus(ctx context.Context, auctionID string, status domain.AuctionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	auction, ok := s.auctions[auctionID]
	if !ok {
		return fmt.Errorf("auction %s: %w", auctionID, domain.ErrNotFound)
	}
	auction.Status = status
	return nil
}

func (s *Store) RecordBid(ctx context.Context, bid *domain.Bid, prevPrice int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[bid.AuctionID]
	if !ok {
		return fmt.Errorf("auction %s: %w", bid.AuctionID, domain.ErrNotFound)
	}
	if auction.CurrentPrice != prevPrice {
		return fmt.Errorf("auction %s price moved: %w", bid.AuctionID, domain.ErrConflict)
	}

	cp := *bid
	s.bids[bid.AuctionID] = append(s.bids[bid.AuctionID], &cp)
	auction.CurrentPrice = bid.Amount
	return nil
}

func (s *Store) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var closed int64
	for _, auction := range s.auctions {
		if auction.Status == domain.AuctionActive && !auction.EndAt.After(now) {
			auction.Status = domain.AuctionClosed
			closed++
		}
	}
	return closed, nil
}

// --- BidRepository ---

func (s *Store) GetBidHistory(ctx context.Context, auctionID string) ([]*domain.BidDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := s.bids[auctionID]
	history := make([]*domain.BidDetail, 0, len(bids))
	// Newest first. Append order ties are broken by recency as well, so walk
	// the slice backwards before sorting on timestamps.
	for i := len(bids) - 1; i >= 0; i-- {
		detail := domain.BidDetail{Bid: *bids[i]}
		if bidder, ok := s.users[bids[i].BidderID]; ok {
			detail.BidderEmail = bidder.Email
		}
		history = append(history, &detail)
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})
	return history, nil
}

// --- DraftRepository ---

func (s *Store) CreateDraft(ctx context.Context, draft *domain.AuctionDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *draft
	s.drafts[draft.ID] = &cp
	return nil
}

func (s *Store) GetDraft(ctx context.Context, draftID string) (*domain.AuctionDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[draftID]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", draftID, domain.ErrNotFound)
	}
	cp := *draft
	return &cp, nil
}

func (s *Store) DeleteDraft(ctx context.Context, draftID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.drafts[draftID]
	delete(s.drafts, draftID)
	return ok, nil
}

func (s *Store) PromoteDraft(ctx context.Context, draftID string, auction *domain.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[draftID]; !ok {
		return fmt.Errorf("draft %s already promoted: %w", draftID, domain.ErrNotFound)
	}
	delete(s.drafts, draftID)
	cp := *auction
	s.auctions[auction.ID] = &cp
	return nil
}

// --- UserRepository ---

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return fmt.Errorf("user %s: %w", user.Email, domain.ErrEmailTaken)
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	cp := *user
	return &cp, nil
}

// --- SessionRepository ---

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *Store) GetSessionUser(ctx context.Context, sessionID string, now time.Time) (*domain.SessionUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok || !session.ExpiresAt.After(now) {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	user, ok := s.users[session.UserID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return &domain.SessionUser{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, session := range s.sessions {
		if !session.ExpiresAt.After(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
