// Package reset plans the LP burn that moves a metapool's spot price to a
// target value.
package reset

import (
	"log/slog"

	"github.com/holiman/uint256"

	"github.com/ubiquity/pricereset/pkg/stableswap"
)

// Stage is a step of the reset state machine.
type Stage int

const (
	StageComputeTargetWithdrawal Stage = iota
	StageComputeBurn
	StageCheckFeasibility
	StageSucceeded
)

func (s Stage) String() string {
	switch s {
	case StageComputeTargetWithdrawal:
		return "compute_target_withdrawal"
	case StageComputeBurn:
		return "compute_burn"
	case StageCheckFeasibility:
		return "check_feasibility"
	case StageSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// priceScale is the scale of impacted prices supplied by callers.
var priceScale = uint256.NewInt(10)

// Snapshot is the pool state a reset is planned against.
type Snapshot struct {
	Block        uint64
	Balances     stableswap.Vector
	TotalSupply  *uint256.Int
	Amp          *uint256.Int
	Fee          *uint256.Int
	VirtualPrice *uint256.Int
	AvailableLP  *uint256.Int
}

// Plan is a feasible reset, ready to hand to the transaction sender.
type Plan struct {
	Block       uint64
	Amounts     stableswap.Vector
	Burn        stableswap.BurnBreakdown
	PriceBefore *uint256.Int
	PriceAfter  *uint256.Int
	// Calldata encodes remove_liquidity_imbalance(Amounts, Burn.Amount).
	Calldata []byte
}

// Driver runs the reset state machine. It holds no per-call state and is
// safe for concurrent use.
type Driver struct {
	logger *slog.Logger
}

func NewDriver(logger *slog.Logger) *Driver {
	return &Driver{logger: logger}
}

// Run plans the burn that brings the pool to impactedPrice. Failures are
// returned as *StageError wrapping one of the package errors or a
// stableswap error.
func (d *Driver) Run(snap Snapshot, impactedPrice *uint256.Int) (*Plan, error) {
	stage := StageComputeTargetWithdrawal
	amounts, err := TargetWithdrawal(snap.Balances, impactedPrice)
	if err != nil {
		return nil, d.fail(stage, err)
	}
	d.logger.Debug("target withdrawal", "block", snap.Block, "price", impactedPrice.Dec(), "amount0", amounts[0].Dec())

	stage = StageComputeBurn
	burn, err := stableswap.CalcBurn(stableswap.BurnParams{
		Amp:          snap.Amp,
		VirtualPrice: snap.VirtualPrice,
		Fee:          snap.Fee,
		Balances:     snap.Balances,
		TotalSupply:  snap.TotalSupply,
		Amounts:      amounts,
	})
	if err != nil {
		return nil, d.fail(stage, err)
	}
	d.logger.Debug("burn computed", "d0", burn.D0.Dec(), "d2", burn.D2.Dec(), "burn", burn.Amount.Dec())

	stage = StageCheckFeasibility
	if burn.Amount.Gt(snap.AvailableLP) {
		return nil, d.fail(stage, ErrInsufficientLiquidity)
	}

	rates := stableswap.Rates(snap.VirtualPrice)
	before, err := stableswap.GetDy(0, 1, stableswap.Precision, snap.Balances, rates, snap.Amp, snap.Fee)
	if err != nil {
		return nil, d.fail(stage, err)
	}
	// post-withdrawal price ignores the share of the imbalance fee the pool keeps
	after, err := stableswap.GetDy(0, 1, stableswap.Precision, burn.NewBalances, rates, snap.Amp, snap.Fee)
	if err != nil {
		return nil, d.fail(stage, err)
	}

	calldata, err := packRemoveLiquidityImbalance(amounts, burn.Amount)
	if err != nil {
		return nil, d.fail(stage, err)
	}

	d.logger.Debug("reset planned", "stage", StageSucceeded, "price_before", before.Dec(), "price_after", after.Dec())
	return &Plan{
		Block:       snap.Block,
		Amounts:     amounts,
		Burn:        burn,
		PriceBefore: before,
		PriceAfter:  after,
		Calldata:    calldata,
	}, nil
}

func (d *Driver) fail(stage Stage, err error) error {
	d.logger.Debug("price reset failed", "stage", stage, "err", err)
	return &StageError{Stage: stage, Err: err}
}

// TargetWithdrawal derives the single-sided withdrawal for impactedPrice:
// the first balance shrinks to balances[1] / impactedPrice * 10. Moving the
// price the other way is not supported.
func TargetWithdrawal(balances stableswap.Vector, impactedPrice *uint256.Int) (stableswap.Vector, error) {
	if impactedPrice.IsZero() {
		return stableswap.Vector{}, ErrInvalidPrice
	}
	// divide first, then scale, to match the tool's integer price math
	expected := new(uint256.Int).Div(balances[1], impactedPrice)
	if _, overflow := expected.MulOverflow(expected, priceScale); overflow || expected.Gt(balances[0]) {
		return stableswap.Vector{}, ErrUnsupportedDirection
	}
	return stableswap.Vector{
		new(uint256.Int).Sub(balances[0], expected),
		new(uint256.Int),
	}, nil
}
