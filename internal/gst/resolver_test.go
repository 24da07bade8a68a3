package gst

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitIntraState(t *testing.T) {
	split := Split(18, "Gujarat", "Gujarat")
	require.Equal(t, 9.0, split.CGST)
	require.Equal(t, 9.0, split.SGST)
	require.Equal(t, 0.0, split.IGST)
	require.Equal(t, 18.0, split.Total())
}

func TestSplitInterState(t *testing.T) {
	split := Split(18, "Gujarat", "Maharashtra")
	require.Equal(t, 0.0, split.CGST)
	require.Equal(t, 0.0, split.SGST)
	require.Equal(t, 18.0, split.IGST)
	require.Equal(t, 18.0, split.Total())
}

func TestSplitAlwaysSumsToRate(t *testing.T) {
	for _, rate := range []float64{0, 0.25, 3, 5, 12, 18, 28} {
		intra := Split(rate, "Kerala", "Kerala")
		inter := Split(rate, "Kerala", "Karnataka")
		require.InDelta(t, rate, intra.Total(), 1e-9)
		require.InDelta(t, rate, inter.Total(), 1e-9)
		if rate > 0 {
			require.Zero(t, intra.IGST)
			require.Zero(t, inter.CGST)
			require.Zero(t, inter.SGST)
		}
	}
}

func TestIsIntraStateNormalization(t *testing.T) {
	require.True(t, IsIntraState("Gujarat(24)", "gujarat"))
	require.True(t, IsIntraState("  Tamil Nadu (33) ", "tamil nadu"))
	require.False(t, IsIntraState("Gujarat", "Maharashtra"))
}

func TestEmptyStateFallsThroughToInterState(t *testing.T) {
	split := Split(12, "", "Gujarat")
	require.Equal(t, 12.0, split.IGST)

	split = Split(12, "Gujarat", "")
	require.Equal(t, 12.0, split.IGST)

	split = Split(12, "", "")
	require.Equal(t, 12.0, split.IGST)
}

func TestRateFromLedgerName(t *testing.T) {
	cases := map[string]float64{
		"Output CGST 9%":  9,
		"IGST 18":         18,
		"GST 2.5% Input":  2.5,
		"Sales Account":   0,
		"":                0,
		"CGST @ 14 (out)": 14,
	}
	for name, want := range cases {
		require.Equal(t, want, RateFromLedgerName(name), name)
	}
}
