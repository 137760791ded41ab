package http

import (
	"errors"
	"net/http"

	"pr-rca-service/internal/account"
)

// mapError translates domain errors into HTTP status codes. Unknown
// errors become a plain 500 without leaking internals.
func (h *handler) mapError(err error) int {
	switch {
	case errors.Is(err, account.ErrUserNotFound),
		errors.Is(err, account.ErrRepositoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, account.ErrPlanLimitReached):
		return http.StatusPaymentRequired
	case errors.Is(err, account.ErrEmailRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
