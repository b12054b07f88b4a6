package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rideboard/internal/domain"
	"rideboard/internal/middleware"
	"rideboard/internal/repository"
	"rideboard/internal/service"
)

// FeedHandler handles the board feed.
type FeedHandler struct {
	feedService *service.FeedService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedService *service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// FeedResponse is one page of the feed.
type FeedResponse struct {
	Listings   []ListingResponse `json:"listings"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// Get handles GET /v1/feed
//
// Query parameters: scope (public|community|all), community_id, type
// (OFFERING|SEEKING), sort (newest|oldest), q, limit, cursor.
func (h *FeedHandler) Get(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	page, err := h.feedService.AssembleFeed(c.Request.Context(), middleware.UserID(c), service.FeedParams{
		Scope:       repository.ListingScope(c.Query("scope")),
		CommunityID: c.Query("community_id"),
		Type:        domain.ListingType(c.Query("type")),
		SortBy:      repository.SortOrder(c.Query("sort")),
		SearchText:  c.Query("q"),
		Limit:       limit,
		Cursor:      c.Query("cursor"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := FeedResponse{
		Listings:   make([]ListingResponse, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	for _, l := range page.Items {
		response.Listings = append(response.Listings, toListingResponse(l))
	}
	respondJSON(c, http.StatusOK, response)
}
