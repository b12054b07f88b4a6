package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rideboard/internal/domain"
	"rideboard/internal/middleware"
	"rideboard/internal/repository"
)

// UserHandler handles HTTP requests for user profiles and settings.
type UserHandler struct {
	userRepo repository.UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	DisableAutoExpiry bool   `json:"disable_auto_expiry"`
	NICStatus         string `json:"nic_status"`
	NICVerified       bool   `json:"nic_verified"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		DisableAutoExpiry: u.DisableAutoExpiry,
		NICStatus:         string(u.Verification.Status),
		NICVerified:       u.Verification.NICVerified,
	}
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and email are required"})
		return
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Verification: domain.Verification{
			Status: domain.VerificationUnverified,
		},
		CreatedAt: time.Now(),
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "email already registered"})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// Me handles GET /v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userRepo.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// UpdateSettingsRequest is the HTTP request body for settings changes.
type UpdateSettingsRequest struct {
	DisableAutoExpiry *bool `json:"disable_auto_expiry"`
}

// UpdateSettings handles PATCH /v1/users/me/settings
//
// Toggling disable_auto_expiry rewrites no listings: classification of the
// caller's existing rows changes on the next read.
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.DisableAutoExpiry == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "disable_auto_expiry is required"})
		return
	}

	userID := middleware.UserID(c)
	if err := h.userRepo.SetDisableAutoExpiry(c.Request.Context(), userID, *req.DisableAutoExpiry); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toUserResponse(user))
}
