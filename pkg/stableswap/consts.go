// Package stableswap reproduces the two-coin Curve StableSwap math off-chain.
// Every operation mirrors the contract's uint256 arithmetic (floor division,
// revert on overflow) so results can be submitted back to the pool as-is.
package stableswap

import "github.com/holiman/uint256"

const (
	// NCoins is the number of assets in the pool.
	NCoins = 2
	// MaxRounds bounds the Newton iterations of the solvers.
	MaxRounds = 255
)

var (
	// Precision is the 18-decimal fixed-point unit.
	Precision = uint256.NewInt(1_000_000_000_000_000_000)
	// APrecision scales the amplification coefficient.
	APrecision = uint256.NewInt(100)
	// FeeDenominator is the denominator of fee rates.
	FeeDenominator = uint256.NewInt(10_000_000_000)

	nCoins        = uint256.NewInt(NCoins)
	nCoinsPlusOne = uint256.NewInt(NCoins + 1)
	one           = uint256.NewInt(1)
)

// Vector holds one value per pool asset.
type Vector [NCoins]*uint256.Int

// NewVector builds a Vector from two values. The values are copied.
func NewVector(x0, x1 *uint256.Int) Vector {
	return Vector{x0.Clone(), x1.Clone()}
}

// ZeroVector returns a vector of zeros.
func ZeroVector() Vector {
	return Vector{new(uint256.Int), new(uint256.Int)}
}

// Clone returns a deep copy of v.
func (v Vector) Clone() Vector {
	var out Vector
	for i, x := range v {
		out[i] = x.Clone()
	}
	return out
}
