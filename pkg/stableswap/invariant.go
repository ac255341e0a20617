package stableswap

import "github.com/holiman/uint256"

// Solution is the outcome of the invariant solver. When Converged is false D
// is zero, which is what the contract reports for a pool that never settles.
type Solution struct {
	D         *uint256.Int
	Converged bool
	Rounds    int
}

// SolveD finds the invariant D of normalized balances xp for the
// pre-scaled amplification amp:
//
//	A*n^n*sum(x_i) + D = A*n^n*D + D^(n+1) / (n^n * prod(x_i))
//
// using the contract's Newton iteration:
//
//	D = (Ann*S/A_PRECISION + D_P*n) * D / ((Ann - A_PRECISION)*D/A_PRECISION + (n+1)*D_P)
//
// Errors are only returned for conditions that revert on chain (overflow,
// an empty side in a non-empty pool). Non-convergence is reported through
// Solution.Converged.
func SolveD(xp Vector, amp *uint256.Int) (Solution, error) {
	return solveD(xp, amp, MaxRounds)
}

func solveD(xp Vector, amp *uint256.Int, maxRounds int) (Solution, error) {
	var c calc

	s := c.add(xp[0], xp[1])
	if c.err != nil {
		return Solution{}, c.err
	}
	if s.IsZero() {
		return Solution{D: new(uint256.Int), Converged: true}, nil
	}
	for _, x := range xp {
		if x.IsZero() {
			return Solution{}, ErrZeroBalance
		}
	}

	d := s.Clone()
	ann := c.mul(amp, nCoins)
	// Ann*S/A_PRECISION and Ann-A_PRECISION do not change between rounds
	annS := c.mulDiv(ann, s, APrecision)
	annLess := c.sub(ann, APrecision)
	if c.err != nil {
		return Solution{}, c.err
	}

	for round := 1; round <= maxRounds; round++ {
		// D_P = D^(n+1) / (n^n * prod(x_i)), one factor at a time
		dp := d.Clone()
		for _, x := range xp {
			dp = c.mulDiv(dp, d, c.mul(x, nCoins))
		}
		prev := d

		num := c.add(annS, c.mul(dp, nCoins))
		den := c.add(c.mulDiv(annLess, d, APrecision), c.mul(dp, nCoinsPlusOne))
		d = c.mulDiv(num, d, den)
		if c.err != nil {
			return Solution{}, c.err
		}

		if closeEnough(d, prev) {
			return Solution{D: d, Converged: true, Rounds: round}, nil
		}
	}
	return Solution{D: new(uint256.Int), Rounds: maxRounds}, nil
}

// ComputeInvariant returns D for normalized balances xp. A solver that does
// not converge yields 0, matching the contract tooling this mirrors; use
// SolveD to tell the two cases apart.
func ComputeInvariant(xp Vector, amp *uint256.Int) (*uint256.Int, error) {
	sol, err := SolveD(xp, amp)
	if err != nil {
		return nil, err
	}
	return sol.D, nil
}

// invariantOf normalizes balances and solves for D, turning non-convergence
// into ErrNotConverged.
func invariantOf(rates, balances Vector, amp *uint256.Int) (*uint256.Int, error) {
	xp, err := Normalize(rates, balances)
	if err != nil {
		return nil, err
	}
	sol, err := SolveD(xp, amp)
	if err != nil {
		return nil, err
	}
	if !sol.Converged {
		return nil, ErrNotConverged
	}
	return sol.D, nil
}
