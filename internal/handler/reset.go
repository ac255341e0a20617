package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gofiber/fiber/v3"
	"github.com/holiman/uint256"

	"github.com/ubiquity/pricereset/internal/eth"
	"github.com/ubiquity/pricereset/internal/reset"
	"github.com/ubiquity/pricereset/internal/service"
	"github.com/ubiquity/pricereset/pkg/stableswap"
)

type ResetHandler struct {
	BaseHandler
	service *service.ResetService
}

func NewResetHandler(logger *slog.Logger, svc *service.ResetService) *ResetHandler {
	return &ResetHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

// Register mounts the handler's routes on app.
func (h *ResetHandler) Register(app *fiber.App) {
	app.Get("/invariant", h.Invariant())
	app.Get("/burn", h.Burn())
	app.Get("/reset", h.Reset())
	app.Get("/reset/quotes", h.Quotes())
}

type BurnRequest struct {
	Pool     string `query:"pool" json:"pool"`
	BasePool string `query:"base_pool" json:"base_pool"`
	LPToken  string `query:"lp_token" json:"lp_token"`
	Amount0  string `query:"amount0" json:"amount0"`
	Amount1  string `query:"amount1" json:"amount1"`
}

type ResetRequest struct {
	Pool     string `query:"pool" json:"pool"`
	BasePool string `query:"base_pool" json:"base_pool"`
	LPToken  string `query:"lp_token" json:"lp_token"`
	Holder   string `query:"holder" json:"holder"`
	Price    string `query:"price" json:"price"`
	Prices   string `query:"prices" json:"prices"`
}

type InvariantResponse struct {
	Block     uint64    `json:"block"`
	D         string    `json:"d"`
	Converged bool      `json:"converged"`
	Rounds    int       `json:"rounds"`
	Balances  [2]string `json:"normalized_balances"`
}

type BurnResponse struct {
	Block  uint64    `json:"block"`
	Burn   string    `json:"burn"`
	D0     string    `json:"d0"`
	D1     string    `json:"d1"`
	D2     string    `json:"d2"`
	Fees   [2]string `json:"fees"`
	Amount [2]string `json:"amounts"`
}

type PlanResponse struct {
	Block       uint64    `json:"block"`
	Amounts     [2]string `json:"amounts"`
	Burn        string    `json:"burn"`
	PriceBefore string    `json:"price_before"`
	PriceAfter  string    `json:"price_after"`
	Calldata    string    `json:"calldata"`
}

type QuoteResponse struct {
	Price string        `json:"price"`
	Plan  *PlanResponse `json:"plan,omitempty"`
	Error string        `json:"error,omitempty"`
}

func (h *ResetHandler) Invariant() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req PoolQuery
		if err := c.Bind().Query(&req); err != nil {
			h.logger.Debug("failed to bind query parameters", "err", err)
			return ErrInvalidQueryParameters
		}
		addrs, err := req.addresses()
		if err != nil {
			return err
		}

		q, err := h.service.Invariant(context.Background(), addrs)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(InvariantResponse{
			Block:     q.Block,
			D:         q.Solution.D.Dec(),
			Converged: q.Solution.Converged,
			Rounds:    q.Solution.Rounds,
			Balances:  decVector(q.Normalized),
		})
	}
}

func (h *ResetHandler) Burn() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req BurnRequest
		if err := c.Bind().Query(&req); err != nil {
			h.logger.Debug("failed to bind query parameters", "err", err)
			return ErrInvalidQueryParameters
		}
		addrs, err := PoolQuery{Pool: req.Pool, BasePool: req.BasePool, LPToken: req.LPToken}.addresses()
		if err != nil {
			return err
		}
		a0, err := parseAmount("amount0", req.Amount0)
		if err != nil {
			return err
		}
		a1, err := parseAmount("amount1", req.Amount1)
		if err != nil {
			return err
		}

		q, err := h.service.Burn(context.Background(), addrs, stableswap.Vector{a0, a1})
		if err != nil {
			return h.handleServiceError(err)
		}
		b := q.Breakdown
		h.logger.Debug("burn computed", "pool", req.Pool, "burn", b.Amount.Dec())
		return c.JSON(BurnResponse{
			Block:  q.Block,
			Burn:   b.Amount.Dec(),
			D0:     b.D0.Dec(),
			D1:     b.D1.Dec(),
			D2:     b.D2.Dec(),
			Fees:   decVector(b.Fees),
			Amount: [2]string{a0.Dec(), a1.Dec()},
		})
	}
}

func (h *ResetHandler) Reset() fiber.Handler {
	return func(c fiber.Ctx) error {
		req, addrs, err := h.parseResetRequest(c)
		if err != nil {
			return err
		}
		price, err := parseAmount("price", req.Price)
		if err != nil {
			return err
		}

		plan, err := h.service.Reset(context.Background(), addrs, price)
		if err != nil {
			return h.handleServiceError(err)
		}
		h.logger.Info("reset planned", "pool", req.Pool, "price", price.Dec(), "burn", plan.Burn.Amount.Dec(), "block", plan.Block)
		return c.JSON(planResponse(plan))
	}
}

func (h *ResetHandler) Quotes() fiber.Handler {
	return func(c fiber.Ctx) error {
		req, addrs, err := h.parseResetRequest(c)
		if err != nil {
			return err
		}
		if req.Prices == "" {
			return ErrPriceListBadRequest
		}
		var prices []*uint256.Int
		for _, s := range strings.Split(req.Prices, ",") {
			p, err := parseAmount("prices", strings.TrimSpace(s))
			if err != nil {
				return err
			}
			prices = append(prices, p)
		}

		quotes, err := h.service.QuoteMany(context.Background(), addrs, prices)
		if err != nil {
			return h.handleServiceError(err)
		}
		out := make([]QuoteResponse, len(quotes))
		for i, q := range quotes {
			out[i] = QuoteResponse{Price: q.Price.Dec()}
			if q.Err != nil {
				mapped, _ := mapError(q.Err)
				out[i].Error = mapped.Message
				continue
			}
			plan := planResponse(q.Plan)
			out[i].Plan = &plan
		}
		return c.JSON(out)
	}
}

func (h *ResetHandler) parseResetRequest(c fiber.Ctx) (*ResetRequest, eth.PoolAddresses, error) {
	var req ResetRequest
	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return nil, eth.PoolAddresses{}, ErrInvalidQueryParameters
	}
	addrs, err := PoolQuery{Pool: req.Pool, BasePool: req.BasePool, LPToken: req.LPToken}.addresses()
	if err != nil {
		return nil, eth.PoolAddresses{}, err
	}
	if req.Holder == "" {
		return nil, eth.PoolAddresses{}, NewAddressRequired("holder")
	}
	if !common.IsHexAddress(req.Holder) {
		return nil, eth.PoolAddresses{}, NewInvalidAddress("holder")
	}
	addrs.Holder = common.HexToAddress(req.Holder)
	return &req, addrs, nil
}

func (h *ResetHandler) handleServiceError(err error) error {
	mapped, callerErr := mapError(err)
	if !callerErr {
		h.logger.Error("service call failed", "err", err)
	} else {
		h.logger.Debug("request rejected", "err", err)
	}
	return mapped
}

func planResponse(p *reset.Plan) PlanResponse {
	return PlanResponse{
		Block:       p.Block,
		Amounts:     decVector(p.Amounts),
		Burn:        p.Burn.Amount.Dec(),
		PriceBefore: p.PriceBefore.Dec(),
		PriceAfter:  p.PriceAfter.Dec(),
		Calldata:    hexutil.Encode(p.Calldata),
	}
}

func decVector(v stableswap.Vector) [2]string {
	return [2]string{v[0].Dec(), v[1].Dec()}
}
