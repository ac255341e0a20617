package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"

	"github.com/ubiquity/pricereset/internal/eth"
	"github.com/ubiquity/pricereset/internal/reset"
	"github.com/ubiquity/pricereset/pkg/stableswap"
)

// MaxQuotePrices caps the number of target prices planned in one call.
const MaxQuotePrices = 32

// SnapshotReader reads pool state. *eth.PoolReader implements it.
type SnapshotReader interface {
	Snapshot(ctx context.Context, addrs eth.PoolAddresses) (*eth.PoolState, error)
}

// ResetService computes invariants, burn amounts and price reset plans
// against live pool state.
type ResetService struct {
	BaseService
	reader      SnapshotReader
	driver      *reset.Driver
	parallelism int
}

// NewResetService constructs a ResetService. parallelism bounds the number
// of plans computed concurrently by QuoteMany.
func NewResetService(logger *slog.Logger, reader SnapshotReader, parallelism int) *ResetService {
	if parallelism < 1 {
		parallelism = 1
	}
	return &ResetService{
		BaseService: BaseService{logger: logger},
		reader:      reader,
		driver:      reset.NewDriver(logger),
		parallelism: parallelism,
	}
}

type InvariantQuote struct {
	Block      uint64
	Normalized stableswap.Vector
	Solution   stableswap.Solution
}

type BurnQuote struct {
	Block     uint64
	Breakdown stableswap.BurnBreakdown
}

// Quote is the result of planning one target price. Err holds the reason
// the reset is not feasible; it does not fail the batch.
type Quote struct {
	Price *uint256.Int
	Plan  *reset.Plan
	Err   error
}

func (s *ResetService) Invariant(ctx context.Context, addrs eth.PoolAddresses) (*InvariantQuote, error) {
	snap, err := s.snapshot(ctx, addrs)
	if err != nil {
		return nil, err
	}
	xp, err := stableswap.Normalize(stableswap.Rates(snap.VirtualPrice), snap.Balances)
	if err != nil {
		return nil, err
	}
	sol, err := stableswap.SolveD(xp, snap.Amp)
	if err != nil {
		return nil, err
	}
	if !sol.Converged {
		s.logger.Warn("invariant did not converge", "pool", addrs.Pool.Hex(), "block", snap.Block)
	}
	return &InvariantQuote{Block: snap.Block, Normalized: xp, Solution: sol}, nil
}

func (s *ResetService) Burn(ctx context.Context, addrs eth.PoolAddresses, amounts stableswap.Vector) (*BurnQuote, error) {
	snap, err := s.snapshot(ctx, addrs)
	if err != nil {
		return nil, err
	}
	b, err := stableswap.CalcBurn(stableswap.BurnParams{
		Amp:          snap.Amp,
		VirtualPrice: snap.VirtualPrice,
		Fee:          snap.Fee,
		Balances:     snap.Balances,
		TotalSupply:  snap.TotalSupply,
		Amounts:      amounts,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("burn quoted", "pool", addrs.Pool.Hex(), "block", snap.Block, "burn", b.Amount.Dec())
	return &BurnQuote{Block: snap.Block, Breakdown: b}, nil
}

// Reset plans the burn that moves the pool to price for addrs.Holder.
func (s *ResetService) Reset(ctx context.Context, addrs eth.PoolAddresses, price *uint256.Int) (*reset.Plan, error) {
	snap, err := s.snapshot(ctx, addrs)
	if err != nil {
		return nil, err
	}
	return s.driver.Run(snap, price)
}

// QuoteMany plans every price against a single snapshot, in parallel.
// Quotes are returned in the order of prices.
func (s *ResetService) QuoteMany(ctx context.Context, addrs eth.PoolAddresses, prices []*uint256.Int) ([]Quote, error) {
	if len(prices) == 0 {
		return nil, ErrNoPrices
	}
	if len(prices) > MaxQuotePrices {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPrices, len(prices), MaxQuotePrices)
	}

	snap, err := s.snapshot(ctx, addrs)
	if err != nil {
		return nil, err
	}

	quotes := make([]Quote, len(prices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, price := range prices {
		i, price := i, price
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plan, err := s.driver.Run(snap, price)
			quotes[i] = Quote{Price: price, Plan: plan, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *ResetService) snapshot(ctx context.Context, addrs eth.PoolAddresses) (reset.Snapshot, error) {
	state, err := s.reader.Snapshot(ctx, addrs)
	if err != nil {
		return reset.Snapshot{}, fmt.Errorf("read pool %s: %w", addrs.Pool.Hex(), err)
	}
	return reset.Snapshot{
		Block:        state.Block,
		Balances:     stableswap.Vector{state.Balances[0], state.Balances[1]},
		TotalSupply:  state.TotalSupply,
		Amp:          state.Amp,
		Fee:          state.Fee,
		VirtualPrice: state.VirtualPrice,
		AvailableLP:  state.HolderLP,
	}, nil
}
