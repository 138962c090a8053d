package handler

import (
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"github.com/shopspring/decimal"

	"github.com/nulln0ne/dex-engine/internal/metrics"
	"github.com/nulln0ne/dex-engine/internal/service"
	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
	"github.com/nulln0ne/dex-engine/pkg/liquidity"
	"github.com/nulln0ne/dex-engine/pkg/pair"
)

type PairHandler struct {
	BaseHandler
	service *service.PairService
}

func NewPairHandler(logger *slog.Logger, m *metrics.Metrics, svc *service.PairService) *PairHandler {
	return &PairHandler{
		BaseHandler: BaseHandler{
			logger:  logger,
			metrics: m,
		},
		service: svc,
	}
}

// SwapRequest is shared by /estimate, /estimate/in and /quote. Only one of
// SrcAmount and DstAmount is read per route. SlippageBps is optional and
// ignored by /quote.
type SwapRequest struct {
	Pool        string `query:"pool" json:"pool"`
	Src         string `query:"src" json:"src"`
	Dst         string `query:"dst" json:"dst"`
	SrcAmount   string `query:"src_amount" json:"src_amount"`
	DstAmount   string `query:"dst_amount" json:"dst_amount"`
	SlippageBps string `query:"slippage_bps" json:"slippage_bps"`
}

// ExactInResponse is returned by /estimate when slippage_bps is set. The hex
// field is ready for a swapExactTokensForTokens payload.
type ExactInResponse struct {
	AmountOut       fixedpoint.Uint `json:"amount_out"`
	AmountOutMin    fixedpoint.Uint `json:"amount_out_min"`
	AmountOutMinHex string          `json:"amount_out_min_hex"`
}

// ExactOutResponse is returned by /estimate/in when slippage_bps is set.
type ExactOutResponse struct {
	AmountIn       fixedpoint.Uint `json:"amount_in"`
	AmountInMax    fixedpoint.Uint `json:"amount_in_max"`
	AmountInMaxHex string          `json:"amount_in_max_hex"`
}

type PositionRequest struct {
	Pool           string `query:"pool"`
	Liquidity      string `query:"liquidity"`
	FirstPriceUSD  string `query:"first_price_usd"`
	SecondPriceUSD string `query:"second_price_usd"`
	FirstDecimals  int32  `query:"first_decimals"`
	SecondDecimals int32  `query:"second_decimals"`
}

type PositionResponse struct {
	liquidity.Amounts
	ValueUSD *decimal.Decimal `json:"value_usd,omitempty"`
}

// Estimate answers GET /estimate with the amount of dst received for
// src_amount. With slippage_bps it answers an ExactInResponse instead.
func (h *PairHandler) Estimate() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		req, err := h.parseSwapRequest(c)
		if err != nil {
			return err
		}
		amountIn, err := parseAmount("src_amount", req.SrcAmount)
		if err != nil {
			return err
		}

		if req.SlippageBps != "" {
			bps, err := parseSlippage(req.SlippageBps)
			if err != nil {
				return err
			}
			out, minOut, err := h.service.EstimateWithSlippage(c.Context(), common.HexToAddress(req.Pool), common.HexToAddress(req.Src), common.HexToAddress(req.Dst), amountIn, bps)
			h.observe("estimate", start, err)
			if err != nil {
				return h.handleServiceError(err)
			}
			return c.JSON(ExactInResponse{AmountOut: out, AmountOutMin: minOut, AmountOutMinHex: minOut.Hex()})
		}

		amountOut, err := h.service.Estimate(c.Context(), common.HexToAddress(req.Pool), common.HexToAddress(req.Src), common.HexToAddress(req.Dst), amountIn)
		h.observe("estimate", start, err)
		if err != nil {
			return h.handleServiceError(err)
		}

		h.logger.Debug("estimate computed", "pool", req.Pool, "src", req.Src, "dst", req.Dst, "in", amountIn, "out", amountOut)
		return c.SendString(amountOut.String())
	}
}

// EstimateIn answers GET /estimate/in with the amount of src needed to
// receive dst_amount. With slippage_bps it answers an ExactOutResponse.
func (h *PairHandler) EstimateIn() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		req, err := h.parseSwapRequest(c)
		if err != nil {
			return err
		}
		amountOut, err := parseAmount("dst_amount", req.DstAmount)
		if err != nil {
			return err
		}

		if req.SlippageBps != "" {
			bps, err := parseSlippage(req.SlippageBps)
			if err != nil {
				return err
			}
			in, maxIn, err := h.service.EstimateInWithSlippage(c.Context(), common.HexToAddress(req.Pool), common.HexToAddress(req.Src), common.HexToAddress(req.Dst), amountOut, bps)
			h.observe("estimate_in", start, err)
			if err != nil {
				return h.handleServiceError(err)
			}
			return c.JSON(ExactOutResponse{AmountIn: in, AmountInMax: maxIn, AmountInMaxHex: maxIn.Hex()})
		}

		amountIn, err := h.service.EstimateIn(c.Context(), common.HexToAddress(req.Pool), common.HexToAddress(req.Src), common.HexToAddress(req.Dst), amountOut)
		h.observe("estimate_in", start, err)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(amountIn.String())
	}
}

// Quote answers GET /quote with the amount of dst that balances src_amount
// in a liquidity add.
func (h *PairHandler) Quote() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		req, err := h.parseSwapRequest(c)
		if err != nil {
			return err
		}
		amount, err := parseAmount("src_amount", req.SrcAmount)
		if err != nil {
			return err
		}

		quoted, err := h.service.Quote(c.Context(), common.HexToAddress(req.Pool), common.HexToAddress(req.Src), common.HexToAddress(req.Dst), amount)
		h.observe("quote", start, err)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.SendString(quoted.String())
	}
}

// Position answers GET /position with the tokens redeemed by burning
// liquidity, and their USD value when both prices are supplied.
func (h *PairHandler) Position() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		var req PositionRequest
		if err := c.Bind().Query(&req); err != nil {
			h.logger.Debug("failed to bind query parameters", "err", err)
			return ErrInvalidQueryParameters
		}
		if err := validateAddress("pool", req.Pool); err != nil {
			return err
		}
		lp, err := parseAmount("liquidity", req.Liquidity)
		if err != nil {
			return err
		}
		pool := common.HexToAddress(req.Pool)

		if req.FirstPriceUSD == "" && req.SecondPriceUSD == "" {
			amounts, err := h.service.Position(c.Context(), pool, lp)
			h.observe("position", start, err)
			if err != nil {
				return h.handleServiceError(err)
			}
			return c.JSON(PositionResponse{Amounts: amounts})
		}

		first, second, err := parsePrices(req)
		if err != nil {
			return err
		}
		amounts, value, err := h.service.PositionValueUSD(c.Context(), pool, lp, first, second)
		h.observe("position", start, err)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(PositionResponse{Amounts: amounts, ValueUSD: &value})
	}
}

func (h *PairHandler) parseSwapRequest(c fiber.Ctx) (*SwapRequest, error) {
	var req SwapRequest

	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return nil, ErrInvalidQueryParameters
	}

	for _, field := range []struct{ name, value string }{
		{"pool", req.Pool},
		{"src", req.Src},
		{"dst", req.Dst},
	} {
		if err := validateAddress(field.name, field.value); err != nil {
			return nil, err
		}
	}

	if common.HexToAddress(req.Src) == common.HexToAddress(req.Dst) {
		return nil, ErrSameAddresses
	}

	return &req, nil
}

func validateAddress(field, addr string) error {
	if addr == "" {
		return NewAddressRequired(field)
	}
	if !common.IsHexAddress(addr) {
		return NewInvalidAddress(field)
	}
	return nil
}

// parseAmount reads a strictly positive decimal amount.
func parseAmount(field, raw string) (fixedpoint.Uint, error) {
	if raw == "" {
		return fixedpoint.Zero, fiber.NewError(fiber.StatusBadRequest, field+" is required")
	}
	amount, err := fixedpoint.Parse(raw)
	if err != nil {
		return fixedpoint.Zero, NewInvalidAmount(field, ErrInvalidAmountFormat)
	}
	if amount.IsZero() {
		return fixedpoint.Zero, ErrAmountNonPositive
	}
	return amount, nil
}

// parseSlippage reads a tolerance in basis points, at most 100%.
func parseSlippage(raw string) (uint64, error) {
	v, err := fixedpoint.Parse(raw)
	if err != nil {
		return 0, ErrInvalidSlippage
	}
	bps, ok := v.Uint64()
	if !ok || bps > pair.SlippageDenominator {
		return 0, ErrInvalidSlippage
	}
	return bps, nil
}

func parsePrices(req PositionRequest) (liquidity.TokenPrice, liquidity.TokenPrice, error) {
	if req.FirstPriceUSD == "" || req.SecondPriceUSD == "" {
		return liquidity.TokenPrice{}, liquidity.TokenPrice{}, ErrIncompletePrices
	}
	first, err := decimal.NewFromString(req.FirstPriceUSD)
	if err != nil || first.IsNegative() {
		return liquidity.TokenPrice{}, liquidity.TokenPrice{}, ErrInvalidPrice
	}
	second, err := decimal.NewFromString(req.SecondPriceUSD)
	if err != nil || second.IsNegative() {
		return liquidity.TokenPrice{}, liquidity.TokenPrice{}, ErrInvalidPrice
	}
	firstPrice := liquidity.TokenPrice{Decimals: req.FirstDecimals, USD: first}
	secondPrice := liquidity.TokenPrice{Decimals: req.SecondDecimals, USD: second}
	if firstPrice.Validate() != nil || secondPrice.Validate() != nil {
		return liquidity.TokenPrice{}, liquidity.TokenPrice{}, ErrInvalidDecimals
	}
	return firstPrice, secondPrice, nil
}
