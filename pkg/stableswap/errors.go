package stableswap

import "errors"

var (
	// ErrNotConverged is returned when a Newton iteration does not settle
	// within MaxRounds.
	ErrNotConverged = errors.New("stableswap: solver did not converge")
	ErrOverflow     = errors.New("stableswap: uint256 overflow")
	ErrUnderflow    = errors.New("stableswap: uint256 underflow")
	ErrDivByZero    = errors.New("stableswap: division by zero")

	// ErrZeroBalance is returned when the invariant is requested for a pool
	// with one empty side.
	ErrZeroBalance = errors.New("stableswap: zero balance in non-empty pool")
	ErrEmptyPool   = errors.New("stableswap: pool invariant is zero")

	// ErrWithdrawalExceedsBalance reports amounts[i] > balances[i].
	ErrWithdrawalExceedsBalance = errors.New("stableswap: withdrawal exceeds balance")
	ErrInvalidIndex             = errors.New("stableswap: invalid coin index")
)
