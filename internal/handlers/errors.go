package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// errorStatus maps service errors to HTTP statuses. Order matters: the first match wins.
var errorStatus = []struct {
	err    error
	status int
}{
	{apperrors.ErrLedgerWriteFailure, http.StatusInternalServerError},
	{apperrors.ErrRewardNotFound, http.StatusNotFound},
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrRoleMismatch, http.StatusForbidden},
	{apperrors.ErrForbidden, http.StatusForbidden},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrDuplicate, http.StatusConflict},
	{apperrors.ErrAlreadyPriority, http.StatusConflict},
	{apperrors.ErrInsufficientPoints, http.StatusBadRequest},
	{apperrors.ErrListingRequired, http.StatusBadRequest},
	{apperrors.ErrListingNotOwned, http.StatusBadRequest},
	{apperrors.ErrUnsupportedRewardType, http.StatusBadRequest},
	{apperrors.ErrUnknownReason, http.StatusBadRequest},
	{apperrors.ErrMissingAmount, http.StatusBadRequest},
	{apperrors.ErrInvalidReferralCode, http.StatusBadRequest},
	{apperrors.ErrSelfReview, http.StatusBadRequest},
	{apperrors.ErrValidation, http.StatusBadRequest},
}

// respondError writes err as {"message": ...}. Anything that does not map to a
// client error is logged and answered with fallback so internals never leak.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status := http.StatusInternalServerError
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			status = m.status
			break
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Message: fallback})
		return
	}
	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Message: err.Error()})
}

// respondBindError answers a request whose body or query failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request: " + err.Error()})
}

// principalOrAbort returns the authenticated caller or writes a 401.
func principalOrAbort(c *gin.Context) (middleware.Principal, bool) {
	p, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Principal not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
	}
	return p, ok
}
