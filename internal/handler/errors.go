package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/nulln0ne/dex-engine/internal/service"
	"github.com/nulln0ne/dex-engine/pkg/farm"
	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
	"github.com/nulln0ne/dex-engine/pkg/liquidity"
	"github.com/nulln0ne/dex-engine/pkg/pair"
)

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrInvalidBody indicates that the JSON request body could not be decoded.
var ErrInvalidBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

// ErrSameAddresses is returned when src and dst addresses are identical.
var ErrSameAddresses = fiber.NewError(fiber.StatusBadRequest, "src and dst addresses cannot be the same")

// ErrInvalidAmountFormat is returned when an amount is not a base-10 unsigned
// integer.
var ErrInvalidAmountFormat = fiber.NewError(fiber.StatusBadRequest, "invalid amount format")

// ErrAmountNonPositive is returned when the amount is zero.
var ErrAmountNonPositive = fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")

// ErrInvalidPrice is returned for a malformed or negative USD price.
var ErrInvalidPrice = fiber.NewError(fiber.StatusBadRequest, "invalid usd price")

// ErrIncompletePrices is returned when only one side of a pair is priced.
var ErrIncompletePrices = fiber.NewError(fiber.StatusBadRequest, "both first_price_usd and second_price_usd are required")

// ErrInvalidDecimals is returned for token decimals or a price exponent
// outside [0, 77].
var ErrInvalidDecimals = fiber.NewError(fiber.StatusBadRequest, "token decimals out of range")

// ErrInvalidSlippage is returned when slippage_bps is not an integer in
// [0, 10000].
var ErrInvalidSlippage = fiber.NewError(fiber.StatusBadRequest, "slippage_bps must be between 0 and 10000")

// ErrBatchTooLarge is returned for a batch above maxBatchPositions.
var ErrBatchTooLarge = fiber.NewError(fiber.StatusBadRequest, "too many positions in batch")

// ErrSameTokenBadRequest maps a same-token validation failure to a 400 error.
var ErrSameTokenBadRequest = fiber.NewError(fiber.StatusBadRequest, "src and dst tokens cannot be the same")

// ErrPairMismatchBadRequest maps tokens absent from the pool to a 400 error.
var ErrPairMismatchBadRequest = fiber.NewError(fiber.StatusBadRequest, "pool does not trade src/dst")

// ErrEmptyReservesBadRequest maps empty-reserve pool state to a 400 error.
var ErrEmptyReservesBadRequest = fiber.NewError(fiber.StatusBadRequest, "pool has insufficient reserves")

// ErrInsufficientLiquidityBadRequest maps an output at or above the reserve
// to a 400 error.
var ErrInsufficientLiquidityBadRequest = fiber.NewError(fiber.StatusBadRequest, "amount exceeds pool liquidity")

// ErrUnknownFarmNotFound maps an unregistered farm to a 404 error.
var ErrUnknownFarmNotFound = fiber.NewError(fiber.StatusNotFound, "unknown farm")

// ErrUnprocessablePosition maps arithmetic failures caused by request values,
// such as a zero current farm amount, to a 422 error.
var ErrUnprocessablePosition = fiber.NewError(fiber.StatusUnprocessableEntity, "position cannot be computed from the supplied state")

// ErrEstimationFailedInternal signals a generic server-side estimation error.
var ErrEstimationFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "estimation failed")

// NewInvalidAmount wraps an amount parsing error into a 400 Bad Request with
// a descriptive message.
func NewInvalidAmount(field string, err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+": "+err.Error())
}

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}

func (h *BaseHandler) handleServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrSameToken):
		return ErrSameTokenBadRequest
	case errors.Is(err, service.ErrPairMismatch):
		return ErrPairMismatchBadRequest
	case errors.Is(err, service.ErrEmptyReserves), errors.Is(err, pair.ErrInvalidReserve):
		return ErrEmptyReservesBadRequest
	case errors.Is(err, pair.ErrInsufficientLiquidity):
		return ErrInsufficientLiquidityBadRequest
	case errors.Is(err, pair.ErrInvalidTolerance):
		return ErrInvalidSlippage
	case errors.Is(err, liquidity.ErrInvalidDecimals):
		return ErrInvalidDecimals
	case errors.Is(err, service.ErrUnknownFarm):
		return ErrUnknownFarmNotFound
	case errors.Is(err, fixedpoint.ErrDivisionByZero), errors.Is(err, fixedpoint.ErrUnderflow), errors.Is(err, fixedpoint.ErrOverflow):
		return ErrUnprocessablePosition
	case errors.Is(err, farm.ErrUnknownVersion), errors.Is(err, farm.ErrInvalidPercentage), errors.Is(err, farm.ErrInvalidPenalty):
		h.logger.Error("farm registry is inconsistent", "err", err)
		return ErrEstimationFailedInternal
	default:
		h.logger.Error("service computation failed", "err", err)
		return ErrEstimationFailedInternal
	}
}
