// Package handler defines HTTP request handlers and related utilities.
package handler

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ubiquity/pricereset/internal/eth"
)

// BaseHandler provides common dependencies for HTTP handlers.
type BaseHandler struct {
	logger *slog.Logger
}

// PoolQuery identifies the pool a request is about.
type PoolQuery struct {
	Pool     string `query:"pool" json:"pool"`
	BasePool string `query:"base_pool" json:"base_pool"`
	LPToken  string `query:"lp_token" json:"lp_token"`
}

func (q PoolQuery) addresses() (eth.PoolAddresses, error) {
	required := []struct{ field, value string }{
		{"pool", q.Pool},
		{"base_pool", q.BasePool},
	}
	for _, r := range required {
		if r.value == "" {
			return eth.PoolAddresses{}, NewAddressRequired(r.field)
		}
		if !common.IsHexAddress(r.value) {
			return eth.PoolAddresses{}, NewInvalidAddress(r.field)
		}
	}
	addrs := eth.PoolAddresses{
		Pool:     common.HexToAddress(q.Pool),
		BasePool: common.HexToAddress(q.BasePool),
	}
	if q.LPToken != "" {
		if !common.IsHexAddress(q.LPToken) {
			return eth.PoolAddresses{}, NewInvalidAddress("lp_token")
		}
		addrs.LPToken = common.HexToAddress(q.LPToken)
	}
	return addrs, nil
}

// parseAmount parses a base-10 uint256. Zero is allowed.
func parseAmount(field, s string) (*uint256.Int, error) {
	if s == "" {
		return nil, NewAmountRequired(field)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, NewInvalidAmount(field)
	}
	return v, nil
}
