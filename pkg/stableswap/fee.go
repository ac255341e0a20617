package stableswap

import "github.com/holiman/uint256"

// FeeResult holds the per-coin imbalance fees and the balances left once
// they are deducted.
type FeeResult struct {
	Fees     Vector
	Adjusted Vector
}

// BaseFee converts the pool fee into the per-coin imbalance fee,
// fee * n / (4 * (n - 1)). For two coins this is fee / 2.
func BaseFee(fee *uint256.Int) (*uint256.Int, error) {
	var c calc
	out := c.mulDiv(fee, nCoins, uint256.NewInt(4*(NCoins-1)))
	if c.err != nil {
		return nil, c.err
	}
	return out, nil
}

// ImbalanceFees charges each coin for its deviation from the ideal balance,
// the old balance scaled by d1/d0.
func ImbalanceFees(oldBalances, newBalances Vector, d0, d1, fee *uint256.Int) (FeeResult, error) {
	if d0.IsZero() {
		return FeeResult{}, ErrEmptyPool
	}
	baseFee, err := BaseFee(fee)
	if err != nil {
		return FeeResult{}, err
	}

	var (
		c   calc
		res FeeResult
	)
	for i := range oldBalances {
		ideal := c.mulDiv(d1, oldBalances[i], d0)
		diff := absDiff(ideal, newBalances[i])
		res.Fees[i] = c.mulDiv(baseFee, diff, FeeDenominator)
		res.Adjusted[i] = c.sub(newBalances[i], res.Fees[i])
	}
	if c.err != nil {
		return FeeResult{}, c.err
	}
	return res, nil
}
