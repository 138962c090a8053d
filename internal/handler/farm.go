package handler

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/nulln0ne/dex-engine/internal/metrics"
	"github.com/nulln0ne/dex-engine/internal/service"
	"github.com/nulln0ne/dex-engine/pkg/farm"
	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
)

const maxBatchPositions = 1_000

type FarmHandler struct {
	BaseHandler
	service *service.FarmService
}

func NewFarmHandler(logger *slog.Logger, m *metrics.Metrics, svc *service.FarmService) *FarmHandler {
	return &FarmHandler{
		BaseHandler: BaseHandler{
			logger:  logger,
			metrics: m,
		},
		service: svc,
	}
}

// FarmStateRequest carries the farm's dynamic global state. Amounts and
// nonces are decimal strings.
type FarmStateRequest struct {
	RewardPerShare        fixedpoint.Uint `json:"reward_per_share"`
	FarmTokenSupply       fixedpoint.Uint `json:"farm_token_supply"`
	PerBlockRewardAmount  fixedpoint.Uint `json:"per_block_reward_amount"`
	LastRewardBlockNonce  uint64          `json:"last_reward_block_nonce,string"`
	CurrentBlockNonce     uint64          `json:"current_block_nonce,string"`
	ProduceRewardsEnabled bool            `json:"produce_rewards_enabled"`
}

func (r FarmStateRequest) state() service.FarmState {
	return service.FarmState{
		RewardPerShare:        r.RewardPerShare,
		FarmTokenSupply:       r.FarmTokenSupply,
		PerBlockRewardAmount:  r.PerBlockRewardAmount,
		LastRewardBlockNonce:  r.LastRewardBlockNonce,
		CurrentBlockNonce:     r.CurrentBlockNonce,
		ProduceRewardsEnabled: r.ProduceRewardsEnabled,
	}
}

// FarmPositionRequest is a farm token's attributes plus the units redeemed.
type FarmPositionRequest struct {
	RewardPerShare       fixedpoint.Uint `json:"reward_per_share"`
	InitialFarmingAmount fixedpoint.Uint `json:"initial_farming_amount"`
	CompoundedReward     fixedpoint.Uint `json:"compounded_reward"`
	CurrentFarmAmount    fixedpoint.Uint `json:"current_farm_amount"`
	EnteringEpoch        uint64          `json:"entering_epoch,string"`
	LockedRewards        bool            `json:"locked_rewards"`
	Liquidity            fixedpoint.Uint `json:"liquidity"`
}

func (r FarmPositionRequest) position() service.FarmPosition {
	return service.FarmPosition{
		Attributes: farm.TokenAttributes{
			RewardPerShare:       r.RewardPerShare,
			InitialFarmingAmount: r.InitialFarmingAmount,
			CompoundedReward:     r.CompoundedReward,
			CurrentFarmAmount:    r.CurrentFarmAmount,
			EnteringEpoch:        r.EnteringEpoch,
			LockedRewards:        r.LockedRewards,
		},
		Redeemed: r.Liquidity,
	}
}

type RewardsRequest struct {
	Farm     FarmStateRequest    `json:"farm"`
	Position FarmPositionRequest `json:"position"`
}

type ExitRequest struct {
	Farm         FarmStateRequest    `json:"farm"`
	Position     FarmPositionRequest `json:"position"`
	CurrentEpoch uint64              `json:"current_epoch,string"`
}

type BatchRewardsRequest struct {
	Farm      FarmStateRequest      `json:"farm"`
	Positions []FarmPositionRequest `json:"positions"`
}

type BatchRewardsResponse struct {
	Rewards []fixedpoint.Uint `json:"rewards"`
}

// Rewards answers POST /farms/:farm/rewards.
func (h *FarmHandler) Rewards() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		var req RewardsRequest
		if err := h.bindJSON(c, &req); err != nil {
			return err
		}

		result, err := h.service.Rewards(c.Context(), c.Params("farm"), req.Farm.state(), req.Position.position())
		h.observe("farm_rewards", start, err)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(result)
	}
}

// Exit answers POST /farms/:farm/exit.
func (h *FarmHandler) Exit() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		var req ExitRequest
		if err := h.bindJSON(c, &req); err != nil {
			return err
		}

		payout, err := h.service.Exit(c.Context(), c.Params("farm"), req.Farm.state(), req.Position.position(), req.CurrentEpoch)
		h.observe("farm_exit", start, err)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(payout)
	}
}

// RewardsBatch answers POST /farms/:farm/rewards/batch. Rewards are returned
// in the order of the request positions.
func (h *FarmHandler) RewardsBatch() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		var req BatchRewardsRequest
		if err := h.bindJSON(c, &req); err != nil {
			return err
		}
		if len(req.Positions) > maxBatchPositions {
			return ErrBatchTooLarge
		}

		positions := make([]service.FarmPosition, len(req.Positions))
		for i, p := range req.Positions {
			positions[i] = p.position()
		}

		rewards, err := h.service.RewardsBatch(c.Context(), c.Params("farm"), req.Farm.state(), positions)
		h.observe("farm_rewards_batch", start, err)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(BatchRewardsResponse{Rewards: rewards})
	}
}

func (h *FarmHandler) bindJSON(c fiber.Ctx, out any) error {
	if err := c.Bind().JSON(out); err != nil {
		h.logger.Debug("failed to bind request body", "err", err)
		return ErrInvalidBody
	}
	return nil
}
