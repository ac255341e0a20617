package reset

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"

	"github.com/ubiquity/pricereset/pkg/stableswap"
)

const removeLiquidityImbalanceABI = `[{
	"name": "remove_liquidity_imbalance",
	"type": "function",
	"stateMutability": "nonpayable",
	"inputs": [
		{"name": "_amounts", "type": "uint256[2]"},
		{"name": "_max_burn_amount", "type": "uint256"}
	],
	"outputs": [{"name": "", "type": "uint256"}]
}]`

var poolWriteABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(removeLiquidityImbalanceABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// packRemoveLiquidityImbalance encodes remove_liquidity_imbalance(amounts, maxBurn).
func packRemoveLiquidityImbalance(amounts stableswap.Vector, maxBurn *uint256.Int) ([]byte, error) {
	return poolWriteABI.Pack("remove_liquidity_imbalance",
		[stableswap.NCoins]*big.Int{amounts[0].ToBig(), amounts[1].ToBig()},
		maxBurn.ToBig(),
	)
}
