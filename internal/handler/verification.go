package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rideboard/internal/domain"
	"rideboard/internal/middleware"
	"rideboard/internal/service"
	"rideboard/internal/storage"
)

// maxNICImageSize caps a single uploaded NIC photo.
const maxNICImageSize = 10 << 20 // 10 MiB

// VerificationHandler handles the NIC verification surface: user submission
// with image upload, and the admin review endpoints.
type VerificationHandler struct {
	verificationService *service.VerificationService
	uploader            storage.Uploader
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verificationService *service.VerificationService, uploader storage.Uploader) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService, uploader: uploader}
}

// VerificationResponse is the HTTP representation of the verification
// sub-record.
type VerificationResponse struct {
	Status          string `json:"status"`
	NICNumber       string `json:"nic_number,omitempty"`
	NICVerified     bool   `json:"nic_verified"`
	FrontImageURL   string `json:"front_image_url,omitempty"`
	BackImageURL    string `json:"back_image_url,omitempty"`
	PendingFrontURL string `json:"pending_front_url,omitempty"`
	PendingBackURL  string `json:"pending_back_url,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	RejectedAt      string `json:"rejected_at,omitempty"`
}

func toVerificationResponse(v *domain.Verification) VerificationResponse {
	response := VerificationResponse{
		Status:          string(v.Status),
		NICNumber:       v.NICNumber,
		NICVerified:     v.NICVerified,
		FrontImageURL:   v.FrontImageURL,
		BackImageURL:    v.BackImageURL,
		PendingFrontURL: v.PendingFrontURL,
		PendingBackURL:  v.PendingBackURL,
		RejectionReason: v.RejectionReason,
	}
	if !v.RejectedAt.IsZero() {
		response.RejectedAt = v.RejectedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return response
}

// Submit handles POST /v1/verification — multipart form with "front" and
// "back" image files. The images are uploaded first; the workflow itself only
// sees the resulting URLs.
func (h *VerificationHandler) Submit(c *gin.Context) {
	userID := middleware.UserID(c)

	frontURL, err := h.uploadPart(c, "front", userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	backURL, err := h.uploadPart(c, "back", userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.verificationService.Submit(c.Request.Context(), userID, frontURL, backURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusAccepted, toVerificationResponse(&user.Verification))
}

// Status handles GET /v1/verification
func (h *VerificationHandler) Status(c *gin.Context) {
	verification, err := h.verificationService.Status(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toVerificationResponse(verification))
}

// ApproveRequest is the admin approval body.
type ApproveRequest struct {
	NICNumber string `json:"nic_number"`
}

// Approve handles POST /v1/admin/verification/:userId/approve
func (h *VerificationHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.verificationService.Approve(c.Request.Context(), c.Param("userId"), req.NICNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toVerificationResponse(&user.Verification))
}

// RejectRequest is the admin rejection body.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject handles POST /v1/admin/verification/:userId/reject
func (h *VerificationHandler) Reject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.verificationService.Reject(c.Request.Context(), c.Param("userId"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toVerificationResponse(&user.Verification))
}

// PendingUser pairs a user with their pending submission for the admin queue.
type PendingUser struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PendingFrontURL string `json:"pending_front_url"`
	PendingBackURL  string `json:"pending_back_url"`
	SubmittedAt     string `json:"submitted_at,omitempty"`
}

// ListPending handles GET /v1/admin/verification/pending
func (h *VerificationHandler) ListPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.verificationService.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PendingUser, 0, len(users))
	for _, u := range users {
		pending := PendingUser{
			UserID:          u.ID,
			Name:            u.Name,
			Email:           u.Email,
			PendingFrontURL: u.Verification.PendingFrontURL,
			PendingBackURL:  u.Verification.PendingBackURL,
		}
		if !u.Verification.SubmittedAt.IsZero() {
			pending.SubmittedAt = u.Verification.SubmittedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		response = append(response, pending)
	}
	respondJSON(c, http.StatusOK, response)
}

// uploadPart reads one multipart image and pushes it to object storage.
func (h *VerificationHandler) uploadPart(c *gin.Context, field, userID string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("%s image is required", field)
	}
	if fileHeader.Size > maxNICImageSize {
		return "", fmt.Errorf("%s image exceeds size limit", field)
	}

	data, err := readAll(fileHeader)
	if err != nil {
		return "", fmt.Errorf("reading %s image: %w", field, err)
	}

	filename := fmt.Sprintf("%s-%s-%s", userID, field, uuid.New().String())
	return h.uploader.UploadImage(c.Request.Context(), "nic", filename, data)
}

func readAll(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
