package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/api/middleware"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

type DraftHandler struct {
	listing   *services.ListingService
	lifecycle *services.LifecycleService
	log       logger.Logger
}

func NewDraftHandler(listing *services.ListingService, lifecycle *services.LifecycleService, log logger.Logger) *DraftHandler {
	return &DraftHandler{listing: listing, lifecycle: lifecycle, log: log}
}

type draftRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	StartingPrice int64     `json:"starting_price"`
	ImageURL      string    `json:"image_url"`
	StartsAt      time.Time `json:"starts_at"`
	EndAt         time.Time `json:"end_at"`
}

type draftResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category,omitempty"`
	StartingPrice int64     `json:"starting_price"`
	ImageURL      string    `json:"image_url,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
	EndAt         time.Time `json:"end_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *DraftHandler) Create(c echo.Context) error {
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	user := middleware.UserFrom(c)
	draftID, err := h.listing.CreateDraft(c.Request().Context(), user.ID, services.DraftInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		StartingPrice: req.StartingPrice,
		ImageURL:      req.ImageURL,
		StartsAt:      req.StartsAt,
		EndAt:         req.EndAt,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"draft_id": draftID})
}

func (h *DraftHandler) Get(c echo.Context) error {
	user := middleware.UserFrom(c)
	draft, err := h.listing.GetDraft(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, draftResponse{
		ID:            draft.ID,
		Title:         draft.Title,
		Description:   draft.Description,
		Category:      draft.Category,
		StartingPrice: draft.StartingPrice,
		ImageURL:      draft.ImageURL,
		StartsAt:      draft.StartsAt,
		EndAt:         draft.EndAt,
		CreatedAt:     draft.CreatedAt,
	})
}

// Delete is the cancel path for an unsubmitted draft.
func (h *DraftHandler) Delete(c echo.Context) error {
	user := middleware.UserFrom(c)
	if err := h.listing.DeleteDraft(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Promote confirms the draft: the auction is created in pending status and
// the draft is gone afterwards.
func (h *DraftHandler) Promote(c echo.Context) error {
	user := middleware.UserFrom(c)
	auctionID, err := h.lifecycle.PromoteDraft(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"auction_id": auctionID})
}
