package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/api/middleware"
	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

type AuctionHandler struct {
	bidding   *services.BiddingService
	lifecycle *services.LifecycleService
	listing   *services.ListingService
	log       logger.Logger
}

func NewAuctionHandler(
	bidding *services.BiddingService,
	lifecycle *services.LifecycleService,
	listing *services.ListingService,
	log logger.Logger,
) *AuctionHandler {
	return &AuctionHandler{
		bidding:   bidding,
		lifecycle: lifecycle,
		listing:   listing,
		log:       log,
	}
}

type auctionResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category,omitempty"`
	CurrentPrice int64     `json:"current_price"`
	Status       string    `json:"status"`
	ImageURL     string    `json:"image_url,omitempty"`
	EndAt        time.Time `json:"end_at"`
}

type auctionDetailResponse struct {
	auctionResponse
	SellerID      string    `json:"seller_id"`
	SellerEmail   string    `json:"seller_email"`
	StartingPrice int64     `json:"starting_price"`
	StartsAt      time.Time `json:"starts_at"`
	CreatedAt     time.Time `json:"created_at"`
}

type bidResponse struct {
	ID          string    `json:"id"`
	AuctionID   string    `json:"auction_id"`
	BidderEmail string    `json:"bidder_email"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

type placeBidRequest struct {
	Amount int64 `json:"amount"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

// List handles GET /auctions?q=&category=&status=
func (h *AuctionHandler) List(c echo.Context) error {
	filter := domain.AuctionFilter{
		Text:     c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Status:   domain.AuctionStatus(c.QueryParam("status")),
	}

	auctions, err := h.listing.SearchAuctions(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]auctionResponse, 0, len(auctions))
	for _, auction := range auctions {
		out = append(out, auctionResponse{
			ID:           auction.ID,
			Title:        auction.Title,
			Description:  auction.Description,
			Category:     auction.Category,
			CurrentPrice: auction.CurrentPrice,
			Status:       auction.Status.String(),
			ImageURL:     auction.ImageURL,
			EndAt:        auction.EndAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":    len(out),
		"auctions": out,
	})
}

func (h *AuctionHandler) Get(c echo.Context) error {
	detail, err := h.listing.GetAuction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, auctionDetailResponse{
		auctionResponse: auctionResponse{
			ID:           detail.ID,
			Title:        detail.Title,
			Description:  detail.Description,
			Category:     detail.Category,
			CurrentPrice: detail.CurrentPrice,
			Status:       detail.Status.String(),
			ImageURL:     detail.ImageURL,
			EndAt:        detail.EndAt,
		},
		SellerID:      detail.SellerID,
		SellerEmail:   detail.SellerEmail,
		StartingPrice: detail.StartingPrice,
		StartsAt:      detail.StartsAt,
		CreatedAt:     detail.CreatedAt,
	})
}

func (h *AuctionHandler) GetBids(c echo.Context) error {
	bids, err := h.listing.GetBidHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	out := make([]bidResponse, 0, len(bids))
	for _, bid := range bids {
		out = append(out, bidResponse{
			ID:          bid.ID,
			AuctionID:   bid.AuctionID,
			BidderEmail: bid.BidderEmail,
			Amount:      bid.Amount,
			CreatedAt:   bid.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(out),
		"bids":  out,
	})
}

// PlaceBid handles POST /auctions/:id/bids. The response carries no price;
// clients re-fetch the auction for the authoritative state.
func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	var req placeBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	user := middleware.UserFrom(c)
	auctionID := c.Param("id")
	if err := h.bidding.PlaceBid(c.Request().Context(), auctionID, user.ID, req.Amount); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"result": "accepted"})
}

func (h *AuctionHandler) TransitionStatus(c echo.Context) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	user := middleware.UserFrom(c)
	auctionID := c.Param("id")
	err := h.lifecycle.TransitionStatus(c.Request().Context(), auctionID, domain.AuctionStatus(req.Status), user)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"auction_id": auctionID,
		"status":     req.Status,
	})
}
