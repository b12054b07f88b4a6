package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideboard/internal/repository"
	"rideboard/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Unexpected errors are logged and masked behind a generic message.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(code, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
//
// Ownership violations map to 403, never 404: listing existence is public
// information on this board, so masking buys nothing and one consistent
// status keeps clients simple.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidListingID),
		errors.Is(err, service.ErrInvalidListingType),
		errors.Is(err, service.ErrMissingLocation),
		errors.Is(err, service.ErrInvalidRideDate),
		errors.Is(err, service.ErrInvalidRecurringDay),
		errors.Is(err, service.ErrInvalidCommunityName),
		errors.Is(err, service.ErrMissingVerificationImages),
		errors.Is(err, service.ErrMissingRejectionReason),
		errors.Is(err, service.ErrMissingNICNumber),
		errors.Is(err, service.ErrInvalidScope),
		errors.Is(err, service.ErrInvalidSortOrder),
		errors.Is(err, service.ErrBadCursor),
		errors.Is(err, service.ErrRatingOutOfRange):
		return http.StatusBadRequest

	// Forbidden
	case errors.Is(err, service.ErrNotListingOwner),
		errors.Is(err, service.ErrNotCommunityMember),
		errors.Is(err, service.ErrOwnListingReview):
		return http.StatusForbidden

	// Conflict - state machine and uniqueness violations
	case errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrInvalidStateTransition),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrDuplicateReview),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrStateMismatch):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
