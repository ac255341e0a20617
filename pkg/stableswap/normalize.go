package stableswap

import "github.com/holiman/uint256"

// Normalize rescales raw balances into the common 18-decimal basis:
// xp[i] = rates[i] * balances[i] / Precision.
func Normalize(rates, balances Vector) (Vector, error) {
	var (
		c  calc
		xp Vector
	)
	for i := range xp {
		xp[i] = c.mulDiv(rates[i], balances[i], Precision)
	}
	if c.err != nil {
		return Vector{}, c.err
	}
	return xp, nil
}

// Rates returns the rate vector of a metapool whose second coin is the LP
// token of a base pool quoted at virtualPrice.
func Rates(virtualPrice *uint256.Int) Vector {
	return Vector{Precision.Clone(), virtualPrice.Clone()}
}
