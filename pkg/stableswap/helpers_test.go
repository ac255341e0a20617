package stableswap

import "github.com/holiman/uint256"

func dec(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

// units returns n whole 18-decimal tokens.
func units(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), Precision)
}

func vec(x0, x1 *uint256.Int) Vector {
	return Vector{x0, x1}
}
