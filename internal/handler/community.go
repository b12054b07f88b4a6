package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideboard/internal/domain"
	"rideboard/internal/middleware"
	"rideboard/internal/service"
)

// CommunityHandler handles HTTP requests for communities.
type CommunityHandler struct {
	communityService *service.CommunityService
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(communityService *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// CreateCommunityRequest is the HTTP request body for creating a community.
type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CommunityResponse is the HTTP representation of a community.
type CommunityResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

func toCommunityResponse(c *domain.Community) CommunityResponse {
	return CommunityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create handles POST /v1/communities
func (h *CommunityHandler) Create(c *gin.Context) {
	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	community, err := h.communityService.CreateCommunity(c.Request.Context(), middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toCommunityResponse(community))
}

// Join handles POST /v1/communities/:id/join
func (h *CommunityHandler) Join(c *gin.Context) {
	membership, err := h.communityService.JoinCommunity(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, gin.H{
		"community_id": membership.CommunityID,
		"user_id":      membership.UserID,
		"joined_at":    membership.JoinedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// Get handles GET /v1/communities/:id
func (h *CommunityHandler) Get(c *gin.Context) {
	community, err := h.communityService.GetCommunity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toCommunityResponse(community))
}

// GetAll handles GET /v1/communities
func (h *CommunityHandler) GetAll(c *gin.Context) {
	communities, err := h.communityService.ListCommunities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CommunityResponse, 0, len(communities))
	for _, community := range communities {
		response = append(response, toCommunityResponse(community))
	}
	respondJSON(c, http.StatusOK, response)
}

// Mine handles GET /v1/communities/mine
func (h *CommunityHandler) Mine(c *gin.Context) {
	communities, err := h.communityService.MyCommunities(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CommunityResponse, 0, len(communities))
	for _, community := range communities {
		response = append(response, toCommunityResponse(community))
	}
	respondJSON(c, http.StatusOK, response)
}
