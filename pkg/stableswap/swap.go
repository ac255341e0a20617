package stableswap

import "github.com/holiman/uint256"

// GetY solves for the normalized balance of coin j once coin i holds x,
// keeping the invariant d fixed.
func GetY(i, j int, x *uint256.Int, xp Vector, amp, d *uint256.Int) (*uint256.Int, error) {
	if i == j || i < 0 || j < 0 || i >= NCoins || j >= NCoins {
		return nil, ErrInvalidIndex
	}

	var c calc
	ann := c.mul(amp, nCoins)
	cc := d.Clone()
	s := new(uint256.Int)
	for k := 0; k < NCoins; k++ {
		var xk *uint256.Int
		switch k {
		case i:
			xk = x
		case j:
			continue
		default:
			xk = xp[k]
		}
		s = c.add(s, xk)
		cc = c.mulDiv(cc, d, c.mul(xk, nCoins))
	}
	cc = c.mulDiv(cc, c.mul(d, APrecision), c.mul(ann, nCoins))
	b := c.add(s, c.mulDiv(d, APrecision, ann))
	if c.err != nil {
		return nil, c.err
	}

	y := d.Clone()
	for round := 0; round < MaxRounds; round++ {
		prev := y
		// y = (y^2 + c) / (2y + b - D)
		y = c.div(c.add(c.mul(y, y), cc), c.sub(c.add(c.mul(y, nCoins), b), d))
		if c.err != nil {
			return nil, c.err
		}
		if closeEnough(y, prev) {
			return y, nil
		}
	}
	return nil, ErrNotConverged
}

// GetDy quotes how much of coin j an exchange of dx of coin i returns,
// after the swap fee.
func GetDy(i, j int, dx *uint256.Int, balances, rates Vector, amp, fee *uint256.Int) (*uint256.Int, error) {
	if i == j || i < 0 || j < 0 || i >= NCoins || j >= NCoins {
		return nil, ErrInvalidIndex
	}
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

	var c calc
	x := c.add(xp[i], c.mulDiv(dx, rates[i], Precision))
	if c.err != nil {
		return nil, c.err
	}
	y, err := GetY(i, j, x, xp, amp, sol.D)
	if err != nil {
		return nil, err
	}

	dy := c.sub(c.sub(xp[j], y), one)
	dyFee := c.mulDiv(fee, dy, FeeDenominator)
	out := c.mulDiv(c.sub(dy, dyFee), Precision, rates[j])
	if c.err != nil {
		return nil, c.err
	}
	return out, nil
}
