package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest          ErrorCode = "bad_request"
	errCodeNotFound            ErrorCode = "not_found"
	errCodeValidationFailed    ErrorCode = "validation_failed"
	errCodeConflict            ErrorCode = "conflict"
	errCodeInsufficientBalance ErrorCode = "insufficient_balance"
	errCodeWithdrawalLimit     ErrorCode = "withdrawal_limit_exceeded"
	errCodeAssociationRequired ErrorCode = "token_association_required"
	errCodeEarningNotClaimable ErrorCode = "earning_not_claimable"

	// Server errors (5xx)
	errCodeInternalError   ErrorCode = "internal_error"
	errCodeDatabaseError   ErrorCode = "database_error"
	errCodeTransferFailed  ErrorCode = "transfer_failed"
	errCodeTransferPending ErrorCode = "transfer_pending"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message, details...)
}

// respondValidationError sends a 422 Unprocessable Entity with validation details
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusUnprocessableEntity, errCodeValidationFailed, "Validation failed", details)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondDomainError maps domain sentinel errors to the HTTP error taxonomy.
// Business rejections carry the sentinel's self-correcting message; anything
// unrecognized is treated as a storage/internal failure with a generic body.
func respondDomainError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountOverflow):
		respondWithError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		respondWithError(c, http.StatusBadRequest, errCodeInsufficientBalance, err.Error())
	case errors.Is(err, domain.ErrWithdrawalLimitExceeded):
		respondWithError(c, http.StatusBadRequest, errCodeWithdrawalLimit, err.Error())
	case errors.Is(err, domain.ErrTokenAssociationRequired):
		respondWithError(c, http.StatusBadRequest, errCodeAssociationRequired, err.Error())
	case errors.Is(err, domain.ErrEarningNotClaimable):
		respondWithError(c, http.StatusBadRequest, errCodeEarningNotClaimable, err.Error())
	case errors.Is(err, domain.ErrEarningNotFound):
		respondNotFound(c, err.Error())
	case errors.Is(err, domain.ErrIntentNotPending):
		respondWithError(c, http.StatusConflict, errCodeConflict, err.Error())
	case errors.Is(err, domain.ErrTransferFailed):
		logger.Error(err)
		respondWithError(c, http.StatusInternalServerError, errCodeTransferFailed,
			"The transfer was rejected by the ledger; your balance is unchanged and you can retry")
	case errors.Is(err, domain.ErrTransferOutcomeUnknown):
		logger.Error(err)
		respondWithError(c, http.StatusInternalServerError, errCodeTransferPending,
			"The transfer outcome is not yet known; it will be resolved automatically, do not retry immediately")
	default:
		respondInternalError(c, err, fallbackMessage)
	}
}
