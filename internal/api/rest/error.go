package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/notary-bridge/internal/api/shared/errors"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error *apierrors.APIError `json:"error"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code apierrors.ErrorCode, message string, details ...string) {
	c.JSON(statusCode, errorResponse{Error: apierrors.NewAPIError(code, message, details...)})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.ErrCodeBadRequest, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, apierrors.ErrCodeValidationFailed, "Validation failed", details)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, apierrors.ErrCodeNotFound, message, details...)
}

// respondConflict sends a 409 Conflict response
func respondConflict(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusConflict, apierrors.ErrCodeConflict, message, details...)
}

// respondUnverified sends a 422 response for operations the secondary ledger does not back
func respondUnverified(c *gin.Context, details string) {
	respondWithError(c, http.StatusUnprocessableEntity, apierrors.ErrCodeUnverified, "Trigger not verified", details)
}

// respondUnavailable sends a 503 Service Unavailable response
func respondUnavailable(c *gin.Context, err error, message string) {
	respondWithError(c, http.StatusServiceUnavailable, apierrors.ErrCodeUnavailable, message, err.Error())
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, logger *zap.Logger, err error, message string, fields ...zap.Field) {
	logger.Error(message, append(fields, zap.Error(err))...)
	respondWithError(c, http.StatusInternalServerError, apierrors.ErrCodeInternalError, message)
}
