package stableswap

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestComputeInvariant_EmptyPool(t *testing.T) {
	for _, amp := range []uint64{100, 10_000, 500_000} {
		d, err := ComputeInvariant(ZeroVector(), uint256.NewInt(amp))
		require.NoError(t, err)
		require.True(t, d.IsZero(), "amp %d", amp)
	}
}

func TestComputeInvariant_BalancedIsExact(t *testing.T) {
	balances := []*uint256.Int{
		uint256.NewInt(1),
		uint256.NewInt(7),
		units(1),
		units(10_000),
		dec("123456789012345678901234567"),
	}
	for _, x := range balances {
		for _, amp := range []uint64{100, 3_700, 10_000, 200_000} {
			sol, err := SolveD(vec(x, x), uint256.NewInt(amp))
			require.NoError(t, err)
			require.True(t, sol.Converged)
			require.Equal(t, 1, sol.Rounds)
			want := new(uint256.Int).Mul(x, uint256.NewInt(2))
			require.Truef(t, want.Eq(sol.D), "x=%s amp=%d: got %s want %s", x.Dec(), amp, sol.D.Dec(), want.Dec())
		}
	}
}

func TestSolveD_Golden(t *testing.T) {
	cases := []struct {
		name   string
		xp     Vector
		amp    uint64
		want   string
		rounds int
	}{
		{"skewed_1_to_3", vec(units(1_000), units(3_000)), 10_000, "3993431643088518257649", 4},
		{"skewed_1_to_3_high_amp", vec(units(1_000), units(3_000)), 20_000, "3996691453407454565842", 4},
		{"skewed_1_to_2", vec(units(1_500), units(3_000)), 10_000, "4497220477859841864424", 4},
		{"dust_against_whale", vec(uint256.NewInt(1), dec("1000000000000000000000000000000")), 100, "199999999993333333333", 61},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sol, err := SolveD(tc.xp, uint256.NewInt(tc.amp))
			require.NoError(t, err)
			require.True(t, sol.Converged)
			require.Equal(t, tc.rounds, sol.Rounds)
			require.Equal(t, tc.want, sol.D.Dec())
		})
	}
}

func TestSolveD_IntermediatesWiderThan256Bits(t *testing.T) {
	// D_P*D peaks near 298 bits here while every quotient fits in 256
	xp := vec(uint256.NewInt(1), dec("1000000000000000000000000000000"))
	sol, err := SolveD(xp, uint256.NewInt(100))
	require.NoError(t, err)
	require.True(t, sol.Converged)
	require.Equal(t, "199999999993333333333", sol.D.Dec())

	burn, err := BurnAmount(uint256.NewInt(100), Precision, uint256.NewInt(4_000_000), xp, units(77), ZeroVector())
	require.NoError(t, err)
	require.Equal(t, uint64(1), burn.Uint64())
}

func TestSolveD_NotConverged(t *testing.T) {
	xp := vec(units(1_000), units(3_000))

	sol, err := solveD(xp, uint256.NewInt(10_000), 1)
	require.NoError(t, err)
	require.False(t, sol.Converged)
	require.True(t, sol.D.IsZero())
	require.Equal(t, 1, sol.Rounds)
}

func TestSolveD_Errors(t *testing.T) {
	_, err := SolveD(vec(new(uint256.Int), units(1)), uint256.NewInt(10_000))
	require.ErrorIs(t, err, ErrZeroBalance)

	// D_P itself no longer fits in 256 bits
	_, err = SolveD(vec(uint256.NewInt(1), dec("10000000000000000000000000000000000000000")), uint256.NewInt(200))
	require.ErrorIs(t, err, ErrOverflow)

	// Ann below A_PRECISION
	_, err = SolveD(vec(units(1), units(2)), uint256.NewInt(49))
	require.ErrorIs(t, err, ErrUnderflow)
}

func TestComputeInvariant_Monotonic(t *testing.T) {
	amp := uint256.NewInt(10_000)
	base := units(5_000)
	prev := new(uint256.Int)
	for _, n := range []uint64{1, 10, 100, 1_000, 4_999, 5_000, 5_001, 20_000, 1_000_000} {
		d, err := ComputeInvariant(vec(base, units(n)), amp)
		require.NoError(t, err)
		require.Falsef(t, d.Lt(prev), "D decreased at %d: %s < %s", n, d.Dec(), prev.Dec())
		prev = d

		// D_P is floored one coin at a time, so coin order can move D by one unit
		swapped, err := ComputeInvariant(vec(units(n), base), amp)
		require.NoError(t, err)
		require.Truef(t, closeEnough(d, swapped), "order changed D by more than 1: %s vs %s", d.Dec(), swapped.Dec())
	}
}

func TestComputeInvariant_UnitRatesAreNeutral(t *testing.T) {
	amp := uint256.NewInt(10_000)
	rates := vec(Precision, Precision)
	for _, balances := range []Vector{
		vec(units(1_000), units(3_000)),
		vec(units(10_000), units(10_000)),
		vec(dec("5000000000000000000123"), dec("4800000000000000000999")),
	} {
		xp, err := Normalize(rates, balances)
		require.NoError(t, err)
		require.Equal(t, balances, xp)

		viaRates, err := ComputeInvariant(xp, amp)
		require.NoError(t, err)
		direct, err := ComputeInvariant(balances, amp)
		require.NoError(t, err)
		require.True(t, direct.Eq(viaRates))
	}
}

func TestNormalize_VirtualPrice(t *testing.T) {
	xp, err := Normalize(Rates(dec("1020000000000000000")), vec(units(5_000), units(4_800)))
	require.NoError(t, err)
	require.Equal(t, "5000000000000000000000", xp[0].Dec())
	require.Equal(t, "4896000000000000000000", xp[1].Dec())

	d, err := ComputeInvariant(xp, uint256.NewInt(10_000))
	require.NoError(t, err)
	require.Equal(t, "9895994588684171208770", d.Dec())
}
