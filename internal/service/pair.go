package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/nulln0ne/dex-engine/pkg/fixedpoint"
	"github.com/nulln0ne/dex-engine/pkg/liquidity"
	"github.com/nulln0ne/dex-engine/pkg/pair"
)

// ChainReader is the subset of *ethclient.Client the pair service reads with.
type ChainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
}

// contract UniswapV2Pair is IUniswapV2Pair, UniswapV2ERC20
//
//	slot 0  uint    totalSupply          (UniswapV2ERC20)
//	slot 6  address token0
//	slot 7  address token1
//	slot 8  uint112 reserve0 | uint112 reserve1 | uint32 blockTimestampLast
const (
	slotTotalSupply = 0
	slotToken0      = 6
	slotToken1      = 7
	slotReserves    = 8
)

// PairState is a snapshot of pair storage at Block.
type PairState struct {
	Block       uint64
	Token0      common.Address
	Token1      common.Address
	Reserve0    fixedpoint.Uint
	Reserve1    fixedpoint.Uint
	TotalSupply fixedpoint.Uint
}

// Orient returns (reserveIn, reserveOut) for a src -> dst swap.
func (s PairState) Orient(src, dst common.Address) (fixedpoint.Uint, fixedpoint.Uint, error) {
	switch {
	case src == dst:
		return fixedpoint.Zero, fixedpoint.Zero, ErrSameToken
	case src == s.Token0 && dst == s.Token1:
		return s.Reserve0, s.Reserve1, nil
	case src == s.Token1 && dst == s.Token0:
		return s.Reserve1, s.Reserve0, nil
	default:
		return fixedpoint.Zero, fixedpoint.Zero, ErrPairMismatch
	}
}

// Reserves returns the snapshot with token0 as the first side.
func (s PairState) Reserves() liquidity.Reserves {
	return liquidity.Reserves{First: s.Reserve0, Second: s.Reserve1, TotalSupply: s.TotalSupply}
}

// PairService answers pricing and position queries by reading pair storage
// directly at the latest block.
type PairService struct {
	BaseService
	chain ChainReader
	fee   pair.Fee
}

// NewPairService constructs a PairService. *ethclient.Client satisfies chain.
func NewPairService(logger *slog.Logger, chain ChainReader, fee pair.Fee) *PairService {
	return &PairService{
		BaseService: BaseService{logger: logger},
		chain:       chain,
		fee:         fee,
	}
}

// Estimate returns the output of swapping amountIn of src for dst.
func (p *PairService) Estimate(ctx context.Context, pool, src, dst common.Address, amountIn fixedpoint.Uint) (fixedpoint.Uint, error) {
	p.logger.Debug("estimating swap", "pool", pool.Hex(), "src", src.Hex(), "dst", dst.Hex(), "in", amountIn)

	reserveIn, reserveOut, err := p.orientedReserves(ctx, pool, src, dst)
	if err != nil {
		return fixedpoint.Zero, err
	}
	out, err := pair.GetAmountOut(amountIn, reserveIn, reserveOut, p.fee)
	if err != nil {
		return fixedpoint.Zero, err
	}
	p.logger.Debug("amount out computed", "out", out)
	return out, nil
}

// EstimateIn returns the input of src needed to receive amountOut of dst.
func (p *PairService) EstimateIn(ctx context.Context, pool, src, dst common.Address, amountOut fixedpoint.Uint) (fixedpoint.Uint, error) {
	p.logger.Debug("estimating swap input", "pool", pool.Hex(), "src", src.Hex(), "dst", dst.Hex(), "out", amountOut)

	reserveIn, reserveOut, err := p.orientedReserves(ctx, pool, src, dst)
	if err != nil {
		return fixedpoint.Zero, err
	}
	in, err := pair.GetAmountIn(amountOut, reserveIn, reserveOut, p.fee)
	if err != nil {
		return fixedpoint.Zero, err
	}
	p.logger.Debug("amount in computed", "in", in)
	return in, nil
}

// EstimateWithSlippage is Estimate plus the amountOutMin guard for
// toleranceBps of slippage.
func (p *PairService) EstimateWithSlippage(ctx context.Context, pool, src, dst common.Address, amountIn fixedpoint.Uint, toleranceBps uint64) (out, minOut fixedpoint.Uint, err error) {
	if out, err = p.Estimate(ctx, pool, src, dst, amountIn); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if minOut, err = pair.MinAmountWithSlippage(out, toleranceBps); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	return out, minOut, nil
}

// EstimateInWithSlippage is EstimateIn plus the amountInMax guard for
// toleranceBps of slippage. The guard must fit a calldata word.
func (p *PairService) EstimateInWithSlippage(ctx context.Context, pool, src, dst common.Address, amountOut fixedpoint.Uint, toleranceBps uint64) (in, maxIn fixedpoint.Uint, err error) {
	if in, err = p.EstimateIn(ctx, pool, src, dst, amountOut); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if maxIn, err = pair.MaxAmountWithSlippage(in, toleranceBps); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	if _, err = maxIn.Uint256(); err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, fmt.Errorf("amountInMax: %w", err)
	}
	return in, maxIn, nil
}

// Quote returns the amount of dst that must accompany amount of src for a
// balanced liquidity add. No fee is applied.
func (p *PairService) Quote(ctx context.Context, pool, src, dst common.Address, amount fixedpoint.Uint) (fixedpoint.Uint, error) {
	state, err := p.tradableState(ctx, pool, src, dst)
	if err != nil {
		return fixedpoint.Zero, err
	}
	side := liquidity.SideFirst
	if src == state.Token1 {
		side = liquidity.SideSecond
	}
	return liquidity.EquivalentAmount(amount, side, state.Reserves())
}

// Position returns the token amounts redeemed by burning lp LP tokens of pool.
func (p *PairService) Position(ctx context.Context, pool common.Address, lp fixedpoint.Uint) (liquidity.Amounts, error) {
	state, err := p.State(ctx, pool)
	if err != nil {
		return liquidity.Amounts{}, err
	}
	return liquidity.TokensForPosition(lp, state.Reserves())
}

// PositionValueUSD is Position plus the USD value of both amounts, both
// computed from the same snapshot.
func (p *PairService) PositionValueUSD(ctx context.Context, pool common.Address, lp fixedpoint.Uint, first, second liquidity.TokenPrice) (liquidity.Amounts, decimal.Decimal, error) {
	state, err := p.State(ctx, pool)
	if err != nil {
		return liquidity.Amounts{}, decimal.Zero, err
	}
	reserves := state.Reserves()
	amounts, err := liquidity.TokensForPosition(lp, reserves)
	if err != nil {
		return liquidity.Amounts{}, decimal.Zero, err
	}
	value, err := liquidity.ValueUSD(lp, reserves, first, second)
	if err != nil {
		return liquidity.Amounts{}, decimal.Zero, err
	}
	return amounts, value, nil
}

// State reads the pair snapshot at the latest block.
func (p *PairService) State(ctx context.Context, pool common.Address) (PairState, error) {
	bn, err := p.chain.BlockNumber(ctx)
	if err != nil {
		return PairState{}, fmt.Errorf("block number: %w", err)
	}
	blockNum := new(big.Int).SetUint64(bn)

	words := make(map[uint64][]byte, 4)
	for _, slot := range []uint64{slotTotalSupply, slotToken0, slotToken1, slotReserves} {
		b, err := p.readSlot(ctx, pool, blockNum, slot)
		if err != nil {
			return PairState{}, err
		}
		words[slot] = b
	}

	state := PairState{
		Block:       bn,
		Token0:      common.BytesToAddress(words[slotToken0]),
		Token1:      common.BytesToAddress(words[slotToken1]),
		TotalSupply: fixedpoint.FromUint256(new(uint256.Int).SetBytes(words[slotTotalSupply])),
	}
	state.Reserve0, state.Reserve1 = parseReserves(words[slotReserves])
	return state, nil
}

func (p *PairService) orientedReserves(ctx context.Context, pool, src, dst common.Address) (fixedpoint.Uint, fixedpoint.Uint, error) {
	state, err := p.tradableState(ctx, pool, src, dst)
	if err != nil {
		return fixedpoint.Zero, fixedpoint.Zero, err
	}
	return state.Orient(src, dst)
}

// tradableState reads the pool and checks that it trades src/dst with both
// reserves non-zero.
func (p *PairService) tradableState(ctx context.Context, pool, src, dst common.Address) (PairState, error) {
	if src == dst {
		return PairState{}, ErrSameToken
	}
	state, err := p.State(ctx, pool)
	if err != nil {
		return PairState{}, err
	}
	reserveIn, reserveOut, err := state.Orient(src, dst)
	if err != nil {
		return PairState{}, err
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return PairState{}, ErrEmptyReserves
	}
	return state, nil
}

func (p *PairService) readSlot(ctx context.Context, pool common.Address, blockNum *big.Int, slot uint64) ([]byte, error) {
	key := common.BigToHash(new(big.Int).SetUint64(slot))
	b, err := p.chain.StorageAt(ctx, pool, key, blockNum)
	if err != nil {
		return nil, fmt.Errorf("storageAt slot %d (pool %s, block %s): %w",
			slot, pool.Hex(), blockNum.String(), err)
	}
	return b, nil
}

var mask112 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 112), uint256.NewInt(1))

// parseReserves unpacks two uint112 reserves from the 32-byte storage word:
//
//	[ 32 bits timestamp | 112 bits reserve1 | 112 bits reserve0 ]
//
// read big-endian, so reserve0 occupies the low bits.
func parseReserves(b []byte) (reserve0, reserve1 fixedpoint.Uint) {
	word := new(uint256.Int).SetBytes(b)
	r0 := new(uint256.Int).And(word, mask112)
	r1 := new(uint256.Int).And(new(uint256.Int).Rsh(word, 112), mask112)
	return fixedpoint.FromUint256(r0), fixedpoint.FromUint256(r1)
}
