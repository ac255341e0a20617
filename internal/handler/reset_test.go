package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"github.com/holiman/uint256"

	"github.com/ubiquity/pricereset/internal/eth"
	"github.com/ubiquity/pricereset/internal/service"
	"github.com/ubiquity/pricereset/pkg/stableswap"
)

type fakeReader struct {
	state *eth.PoolState
	err   error
	last  eth.PoolAddresses
}

func (f *fakeReader) Snapshot(ctx context.Context, addrs eth.PoolAddresses) (*eth.PoolState, error) {
	f.last = addrs
	if f.err != nil {
		return nil, f.err
	}
	return f.state, nil
}

func units(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), stableswap.Precision)
}

func balancedState() *eth.PoolState {
	return &eth.PoolState{
		Block:        42,
		Balances:     [2]*uint256.Int{units(10_000), units(10_000)},
		Amp:          uint256.NewInt(10_000),
		Fee:          uint256.NewInt(4_000_000),
		TotalSupply:  units(20_000),
		VirtualPrice: stableswap.Precision.Clone(),
		HolderLP:     units(5_000),
	}
}

const (
	poolHex   = "0x0000000000000000000000000000000000000aBc"
	baseHex   = "0x0000000000000000000000000000000000000bcd"
	holderHex = "0x00000000000000000000000000000000000000aa"
)

func newTestApp(fr *fakeReader) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewResetService(logger, fr, 2)
	app := fiber.New()
	NewResetHandler(logger, svc).Register(app)
	return app
}

func get(t *testing.T, app *fiber.App, target string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode body: %v", err)
		}
	}
	return resp.StatusCode
}

func TestInvariantHandler_OK(t *testing.T) {
	fr := &fakeReader{state: balancedState()}
	app := newTestApp(fr)

	var body InvariantResponse
	status := get(t, app, "/invariant?pool="+poolHex+"&base_pool="+baseHex, &body)
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	if body.D != "20000000000000000000000" || !body.Converged || body.Block != 42 {
		t.Fatalf("unexpected body: %+v", body)
	}
	// LP token defaults to the pool inside the reader
	if fr.last.LPToken != (common.Address{}) {
		t.Fatalf("lp_token should be left empty, got %s", fr.last.LPToken.Hex())
	}
}

func TestBurnHandler_OK(t *testing.T) {
	app := newTestApp(&fakeReader{state: balancedState()})

	var body BurnResponse
	status := get(t, app, "/burn?pool="+poolHex+"&base_pool="+baseHex+"&amount0=100000000000000000000&amount1=0", &body)
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	if body.Burn != "100022487750322117482" {
		t.Fatalf("unexpected burn: %s", body.Burn)
	}
}

func TestResetHandler_OK(t *testing.T) {
	app := newTestApp(&fakeReader{state: balancedState()})

	var body PlanResponse
	status := get(t, app, "/reset?pool="+poolHex+"&base_pool="+baseHex+"&holder="+holderHex+"&price=11", &body)
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	if body.Burn != "909487516300031106747" || body.Amounts[0] != "909090909090909090910" {
		t.Fatalf("unexpected plan: %+v", body)
	}
	if !strings.HasPrefix(body.Calldata, "0x") || len(body.Calldata) != 2+2*(4+3*32) {
		t.Fatalf("unexpected calldata: %s", body.Calldata)
	}
}

func TestQuotesHandler_MixedOutcomes(t *testing.T) {
	app := newTestApp(&fakeReader{state: balancedState()})

	var body []QuoteResponse
	status := get(t, app, "/reset/quotes?pool="+poolHex+"&base_pool="+baseHex+"&holder="+holderHex+"&prices=11,9", &body)
	if status != http.StatusOK {
		t.Fatalf("unexpected status: %d", status)
	}
	if len(body) != 2 {
		t.Fatalf("unexpected quote count: %d", len(body))
	}
	if body[0].Plan == nil || body[0].Error != "" {
		t.Fatalf("expected a plan for price 11: %+v", body[0])
	}
	if body[1].Plan != nil || body[1].Error != ErrUnsupportedDirection.Message {
		t.Fatalf("expected unsupported direction for price 9: %+v", body[1])
	}
}

func TestHandlers_Status(t *testing.T) {
	pool := "pool=" + poolHex + "&base_pool=" + baseHex
	lowLP := balancedState()
	lowLP.HolderLP = units(1)

	cases := []struct {
		name   string
		state  *eth.PoolState
		err    error
		target string
		status int
	}{
		{"missing_params", balancedState(), nil, "/invariant", http.StatusBadRequest},
		{"bad_pool", balancedState(), nil, "/invariant?pool=0x12&base_pool=" + baseHex, http.StatusBadRequest},
		{"bad_lp_token", balancedState(), nil, "/invariant?" + pool + "&lp_token=nope", http.StatusBadRequest},
		{"missing_amount", balancedState(), nil, "/burn?" + pool + "&amount0=1", http.StatusBadRequest},
		{"negative_amount", balancedState(), nil, "/burn?" + pool + "&amount0=-1&amount1=0", http.StatusBadRequest},
		{"over_withdrawal", balancedState(), nil, "/burn?" + pool + "&amount0=10000000000000000000001&amount1=0", http.StatusBadRequest},
		{"missing_holder", balancedState(), nil, "/reset?" + pool + "&price=11", http.StatusBadRequest},
		{"zero_price", balancedState(), nil, "/reset?" + pool + "&holder=" + holderHex + "&price=0", http.StatusBadRequest},
		{"unsupported_direction", balancedState(), nil, "/reset?" + pool + "&holder=" + holderHex + "&price=9", http.StatusUnprocessableEntity},
		{"insufficient_liquidity", lowLP, nil, "/reset?" + pool + "&holder=" + holderHex + "&price=11", http.StatusUnprocessableEntity},
		{"empty_pool", &eth.PoolState{
			Balances: [2]*uint256.Int{new(uint256.Int), new(uint256.Int)}, Amp: uint256.NewInt(10_000), Fee: new(uint256.Int),
			TotalSupply: new(uint256.Int), VirtualPrice: stableswap.Precision, HolderLP: new(uint256.Int),
		}, nil, "/burn?" + pool + "&amount0=0&amount1=0", http.StatusUnprocessableEntity},
		{"missing_prices", balancedState(), nil, "/reset/quotes?" + pool + "&holder=" + holderHex, http.StatusBadRequest},
		{"reader_failure", nil, errors.New("rpc down"), "/invariant?" + pool, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&fakeReader{state: tc.state, err: tc.err})
			if status := get(t, app, tc.target, nil); status != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, status)
			}
		})
	}
}
