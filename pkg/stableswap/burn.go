package stableswap

import (
	"fmt"

	"github.com/holiman/uint256"
)

// BurnParams is a pool snapshot plus the withdrawal to price.
type BurnParams struct {
	Amp          *uint256.Int
	VirtualPrice *uint256.Int
	Fee          *uint256.Int
	Balances     Vector
	TotalSupply  *uint256.Int
	Amounts      Vector
}

// BurnBreakdown carries the burn amount together with the intermediate
// values that produced it.
type BurnBreakdown struct {
	Amount      *uint256.Int
	D0          *uint256.Int
	D1          *uint256.Int
	D2          *uint256.Int
	NewBalances Vector
	Fees        Vector
}

// CalcBurn prices an imbalanced withdrawal the way remove_liquidity_imbalance
// does: the invariant before (D0), after the raw withdrawal (D1) and after
// imbalance fees (D2), then burn = (D0 - D2) * totalSupply / D0 + 1.
func CalcBurn(p BurnParams) (BurnBreakdown, error) {
	rates := Rates(p.VirtualPrice)

	d0, err := invariantOf(rates, p.Balances, p.Amp)
	if err != nil {
		return BurnBreakdown{}, fmt.Errorf("invariant before withdrawal: %w", err)
	}
	if d0.IsZero() {
		return BurnBreakdown{}, ErrEmptyPool
	}

	var newBalances Vector
	for i := range p.Balances {
		if p.Amounts[i].Gt(p.Balances[i]) {
			return BurnBreakdown{}, fmt.Errorf("%w: coin %d amount %s > balance %s",
				ErrWithdrawalExceedsBalance, i, p.Amounts[i].Dec(), p.Balances[i].Dec())
		}
		newBalances[i] = new(uint256.Int).Sub(p.Balances[i], p.Amounts[i])
	}

	d1, err := invariantOf(rates, newBalances, p.Amp)
	if err != nil {
		return BurnBreakdown{}, fmt.Errorf("invariant after withdrawal: %w", err)
	}

	fees, err := ImbalanceFees(p.Balances, newBalances, d0, d1, p.Fee)
	if err != nil {
		return BurnBreakdown{}, fmt.Errorf("imbalance fees: %w", err)
	}

	d2, err := invariantOf(rates, fees.Adjusted, p.Amp)
	if err != nil {
		return BurnBreakdown{}, fmt.Errorf("invariant after fees: %w", err)
	}

	// the trailing +1 rounds in the pool's favour
	var c calc
	amount := c.add(c.mulDiv(c.sub(d0, d2), p.TotalSupply, d0), one)
	if c.err != nil {
		return BurnBreakdown{}, fmt.Errorf("burn amount: %w", c.err)
	}

	return BurnBreakdown{
		Amount:      amount,
		D0:          d0,
		D1:          d1,
		D2:          d2,
		NewBalances: newBalances,
		Fees:        fees.Fees,
	}, nil
}

// BurnAmount returns the LP amount to burn for withdrawing amounts from a
// pool in the given state.
func BurnAmount(amp, virtualPrice, fee *uint256.Int, balances Vector, totalSupply *uint256.Int, amounts Vector) (*uint256.Int, error) {
	b, err := CalcBurn(BurnParams{
		Amp:          amp,
		VirtualPrice: virtualPrice,
		Fee:          fee,
		Balances:     balances,
		TotalSupply:  totalSupply,
		Amounts:      amounts,
	})
	if err != nil {
		return nil, err
	}
	return b.Amount, nil
}
