package eth

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// view methods of a Curve metapool, its LP token and its base pool
const poolReadABIJSON = `[
	{"name":"balances","type":"function","stateMutability":"view","inputs":[{"name":"i","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"A_precise","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"fee","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"get_virtual_price","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"totalSupply","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"_owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var poolReadABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(poolReadABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// PoolAddresses locates the contracts a snapshot is read from. LPToken
// defaults to Pool (factory metapools are their own LP token). A zero
// Holder skips the LP balance read.
type PoolAddresses struct {
	Pool     common.Address
	BasePool common.Address
	LPToken  common.Address
	Holder   common.Address
}

// PoolState is a consistent read of a two-coin metapool at Block.
type PoolState struct {
	Block        uint64
	Balances     [2]*uint256.Int
	Amp          *uint256.Int
	Fee          *uint256.Int
	TotalSupply  *uint256.Int
	VirtualPrice *uint256.Int
	HolderLP     *uint256.Int
}

// PoolReader reads pool state through eth_call, pinning every read of a
// snapshot to the same block.
type PoolReader struct {
	logger *slog.Logger
	client Client
	retry  RetryPolicy
}

func NewPoolReader(logger *slog.Logger, client Client, policy RetryPolicy) *PoolReader {
	return &PoolReader{logger: logger, client: client, retry: policy}
}

// Snapshot reads balances, amplification, fee, LP supply, the base pool's
// virtual price and the holder's LP balance at the latest block.
func (r *PoolReader) Snapshot(ctx context.Context, addrs PoolAddresses) (*PoolState, error) {
	var bn uint64
	err := r.retry.do(ctx, func() error {
		var err error
		bn, err = r.client.BlockNumber(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}
	block := new(big.Int).SetUint64(bn)

	lpToken := addrs.LPToken
	if lpToken == (common.Address{}) {
		lpToken = addrs.Pool
	}

	state := &PoolState{Block: bn}
	for i := range state.Balances {
		if state.Balances[i], err = r.CallUint(ctx, addrs.Pool, block, "balances", big.NewInt(int64(i))); err != nil {
			return nil, err
		}
	}
	if state.Amp, err = r.CallUint(ctx, addrs.Pool, block, "A_precise"); err != nil {
		return nil, err
	}
	if state.Fee, err = r.CallUint(ctx, addrs.Pool, block, "fee"); err != nil {
		return nil, err
	}
	if state.TotalSupply, err = r.CallUint(ctx, lpToken, block, "totalSupply"); err != nil {
		return nil, err
	}
	if state.VirtualPrice, err = r.CallUint(ctx, addrs.BasePool, block, "get_virtual_price"); err != nil {
		return nil, err
	}
	state.HolderLP = new(uint256.Int)
	if addrs.Holder != (common.Address{}) {
		if state.HolderLP, err = r.CallUint(ctx, lpToken, block, "balanceOf", addrs.Holder); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("pool snapshot read",
		"pool", addrs.Pool.Hex(), "block", bn,
		"balance0", state.Balances[0].Dec(), "balance1", state.Balances[1].Dec(),
		"amp", state.Amp.Dec(), "fee", state.Fee.Dec(), "supply", state.TotalSupply.Dec())
	return state, nil
}

// CallUint calls a view method returning a single uint256 at block.
func (r *PoolReader) CallUint(ctx context.Context, to common.Address, block *big.Int, method string, args ...interface{}) (*uint256.Int, error) {
	input, err := poolReadABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	var out []byte
	err = r.retry.do(ctx, func() error {
		var err error
		out, err = r.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, block)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("eth_call %s (contract %s, block %s): %w", method, to.Hex(), block, err)
	}

	values, err := poolReadABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s: %w: %d outputs", method, ErrUnexpectedOutput, len(values))
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %T", method, ErrUnexpectedOutput, values[0])
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("%s: %w", method, ErrValueTooLarge)
	}
	return u, nil
}
