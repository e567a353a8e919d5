package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxventura/wishd/internal/domain"
)

// statusFor maps domain sentinels onto HTTP statuses: caller mistakes are
// 4xx, wallet/ledger availability problems are 5xx.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotConnected),
		errors.Is(err, domain.ErrStaleSigner),
		errors.Is(err, domain.ErrNoAccounts),
		errors.Is(err, domain.ErrWrongNetwork),
		errors.Is(err, domain.ErrPrerequisiteNotMet),
		errors.Is(err, domain.ErrNothingToClaim),
		errors.Is(err, domain.ErrUserRejected),
		errors.Is(err, domain.ErrSwitchRejected),
		errors.Is(err, domain.ErrAddRejected),
		errors.Is(err, domain.ErrChainNotRecognized):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrLedgerUnavailable),
		errors.Is(err, domain.ErrContractNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrSwitchFailed),
		errors.Is(err, domain.ErrTransactionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, domain.ApiResponse{
		Message: err.Error(),
		Success: false,
		Status:  status,
	})
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, domain.ApiResponse{
		Message: message,
		Success: true,
		Status:  http.StatusOK,
		Data:    data,
	})
}
