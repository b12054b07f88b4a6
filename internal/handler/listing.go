package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideboard/internal/domain"
	"rideboard/internal/middleware"
	"rideboard/internal/service"
)

// ListingHandler handles HTTP requests for ride listings.
type ListingHandler struct {
	listingService *service.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListingRequest is the HTTP request body for posting a listing.
type CreateListingRequest struct {
	Type           string   `json:"type"` // OFFERING or SEEKING
	StartLocation  string   `json:"start_location"`
	EndLocation    string   `json:"end_location"`
	RideDate       string   `json:"ride_date"` // "2006-01-02"
	RideTime       string   `json:"ride_time,omitempty"`
	SeatsAvailable int      `json:"seats_available,omitempty"`
	Description    string   `json:"description,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	CommunityID    string   `json:"community_id,omitempty"`
	RecurringDays  []string `json:"recurring_days,omitempty"`
}

// EditListingRequest is the HTTP request body for editing a listing.
type EditListingRequest struct {
	StartLocation  string   `json:"start_location"`
	EndLocation    string   `json:"end_location"`
	RideDate       string   `json:"ride_date"`
	RideTime       string   `json:"ride_time,omitempty"`
	SeatsAvailable int      `json:"seats_available,omitempty"`
	Description    string   `json:"description,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	RecurringDays  []string `json:"recurring_days,omitempty"`
}

// ListingResponse is the HTTP representation of a listing.
type ListingResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	Type           string   `json:"type"`
	StartLocation  string   `json:"start_location"`
	EndLocation    string   `json:"end_location"`
	RideDate       string   `json:"ride_date"`
	RideTime       string   `json:"ride_time,omitempty"`
	SeatsAvailable int      `json:"seats_available,omitempty"`
	Description    string   `json:"description,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	CommunityID    string   `json:"community_id,omitempty"`
	RecurringDays  []string `json:"recurring_days,omitempty"`
	ExpiresAt      string   `json:"expires_at"`
	IsArchived     bool     `json:"is_archived"`
	CreatedAt      string   `json:"created_at"`
}

func toListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:             l.ID,
		UserID:         l.UserID,
		Type:           string(l.Type),
		StartLocation:  l.StartLocation,
		EndLocation:    l.EndLocation,
		RideDate:       l.RideDate,
		RideTime:       l.RideTime,
		SeatsAvailable: l.SeatsAvailable,
		Description:    l.Description,
		Phone:          l.Phone,
		CommunityID:    l.CommunityID,
		RecurringDays:  l.RecurringDays,
		ExpiresAt:      l.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		IsArchived:     l.IsArchived,
		CreatedAt:      l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create handles POST /v1/listings
func (h *ListingHandler) Create(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), service.CreateListingRequest{
		UserID:         middleware.UserID(c),
		Type:           domain.ListingType(req.Type),
		StartLocation:  req.StartLocation,
		EndLocation:    req.EndLocation,
		RideDate:       req.RideDate,
		RideTime:       req.RideTime,
		SeatsAvailable: req.SeatsAvailable,
		Description:    req.Description,
		Phone:          req.Phone,
		CommunityID:    req.CommunityID,
		RecurringDays:  req.RecurringDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toListingResponse(listing))
}

// Get handles GET /v1/listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	listing, err := h.listingService.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toListingResponse(listing))
}

// Edit handles PUT /v1/listings/:id
func (h *ListingHandler) Edit(c *gin.Context) {
	var req EditListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.listingService.EditListing(c.Request.Context(), middleware.UserID(c), c.Param("id"), service.EditListingRequest{
		StartLocation:  req.StartLocation,
		EndLocation:    req.EndLocation,
		RideDate:       req.RideDate,
		RideTime:       req.RideTime,
		SeatsAvailable: req.SeatsAvailable,
		Description:    req.Description,
		Phone:          req.Phone,
		RecurringDays:  req.RecurringDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toListingResponse(listing))
}

// Archive handles POST /v1/listings/:id/archive
func (h *ListingHandler) Archive(c *gin.Context) {
	listing, err := h.listingService.ArchiveListing(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toListingResponse(listing))
}

// Current handles GET /v1/listings/current — the caller's active listing.
func (h *ListingHandler) Current(c *gin.Context) {
	listing, err := h.listingService.CurrentListing(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toListingResponse(listing))
}

// LastExpired handles GET /v1/listings/last-expired — the caller's most
// recent archived-or-expired listing.
func (h *ListingHandler) LastExpired(c *gin.Context) {
	listing, err := h.listingService.LastExpiredListing(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toListingResponse(listing))
}
