package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ubiquity/pricereset/internal/reset"
	"github.com/ubiquity/pricereset/internal/service"
	"github.com/ubiquity/pricereset/pkg/stableswap"
)

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrWithdrawalExceedsBalanceBadRequest maps an over-withdrawal to a 400 error.
var ErrWithdrawalExceedsBalanceBadRequest = fiber.NewError(fiber.StatusBadRequest, "withdrawal exceeds pool balance")

// ErrInvalidPriceBadRequest is returned when the target price is zero.
var ErrInvalidPriceBadRequest = fiber.NewError(fiber.StatusBadRequest, "price must be a positive integer")

// ErrPriceListBadRequest is returned when the prices list is empty or too
// long.
var ErrPriceListBadRequest = fiber.NewError(fiber.StatusBadRequest, "prices must list between 1 and 32 values")

// ErrUnsupportedDirection signals that the target price needs coin 0 to grow.
var ErrUnsupportedDirection = fiber.NewError(fiber.StatusUnprocessableEntity, "target price requires depositing the first coin, which is not supported")

// ErrInsufficientLiquidity signals that the holder cannot cover the burn.
var ErrInsufficientLiquidity = fiber.NewError(fiber.StatusUnprocessableEntity, "holder LP balance is below the required burn")

// ErrUnpriceablePool covers pool states the solver cannot price.
var ErrUnpriceablePool = fiber.NewError(fiber.StatusUnprocessableEntity, "pool state cannot be priced")

// ErrComputationFailedInternal signals a generic server-side failure.
var ErrComputationFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "computation failed")

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}

// NewAmountRequired returns a 400 Bad Request for a missing amount field.
func NewAmountRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" is required")
}

// NewInvalidAmount returns a 400 Bad Request for an amount that is not a
// base-10 uint256.
func NewInvalidAmount(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+": expected a base-10 uint256")
}

// mapError turns service and math errors into HTTP errors. The second return
// is false for errors that are not the caller's doing.
func mapError(err error) (*fiber.Error, bool) {
	switch {
	case errors.Is(err, stableswap.ErrWithdrawalExceedsBalance):
		return ErrWithdrawalExceedsBalanceBadRequest, true
	case errors.Is(err, reset.ErrInvalidPrice):
		return ErrInvalidPriceBadRequest, true
	case errors.Is(err, service.ErrNoPrices), errors.Is(err, service.ErrTooManyPrices):
		return ErrPriceListBadRequest, true
	case errors.Is(err, reset.ErrUnsupportedDirection):
		return ErrUnsupportedDirection, true
	case errors.Is(err, reset.ErrInsufficientLiquidity):
		return ErrInsufficientLiquidity, true
	case errors.Is(err, stableswap.ErrNotConverged),
		errors.Is(err, stableswap.ErrEmptyPool),
		errors.Is(err, stableswap.ErrZeroBalance),
		errors.Is(err, stableswap.ErrOverflow),
		errors.Is(err, stableswap.ErrUnderflow),
		errors.Is(err, stableswap.ErrDivByZero):
		return ErrUnpriceablePool, true
	default:
		return ErrComputationFailedInternal, false
	}
}
