package stableswap

import "github.com/holiman/uint256"

// calc chains checked uint256 operations. The first failure sticks; every
// operation after it returns zero and leaves err untouched.
type calc struct {
	err error
}

func (c *calc) add(x, y *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		c.err = ErrOverflow
	}
	return z
}

func (c *calc) sub(x, y *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		c.err = ErrUnderflow
	}
	return z
}

func (c *calc) mul(x, y *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		c.err = ErrOverflow
	}
	return z
}

// div is floor division. uint256.Div yields 0 for a zero divisor; the
// contract reverts instead.
func (c *calc) div(x, y *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	if y.IsZero() {
		c.err = ErrDivByZero
		return new(uint256.Int)
	}
	return new(uint256.Int).Div(x, y)
}

// mulDiv computes x*y/d over a 512-bit product. Only a quotient wider than
// 256 bits is an overflow.
func (c *calc) mulDiv(x, y, d *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	if d.IsZero() {
		c.err = ErrDivByZero
		return new(uint256.Int)
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		c.err = ErrOverflow
	}
	return z
}

// absDiff returns |x - y|.
func absDiff(x, y *uint256.Int) *uint256.Int {
	if x.Gt(y) {
		return new(uint256.Int).Sub(x, y)
	}
	return new(uint256.Int).Sub(y, x)
}

// closeEnough reports |x - y| <= 1.
func closeEnough(x, y *uint256.Int) bool {
	return !absDiff(x, y).Gt(one)
}
