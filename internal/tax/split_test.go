package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSplitRateIntrastate(t *testing.T) {
	for _, rate := range []string{"0", "5", "12", "18", "28", "0.25", "100"} {
		r := decimal.RequireFromString(rate)
		split := SplitRate(r, true)
		require.True(t, split.CGST.Add(split.SGST).Equal(r), "cgst+sgst must equal rate %s", rate)
		require.True(t, split.CGST.Equal(split.SGST), "cgst and sgst must match for rate %s", rate)
		require.True(t, split.IGST.IsZero(), "igst must be zero intrastate for rate %s", rate)
		require.True(t, split.Rate().Equal(r))
	}
}

func TestSplitRateInterstate(t *testing.T) {
	for _, rate := range []string{"0", "5", "18", "28", "100"} {
		r := decimal.RequireFromString(rate)
		split := SplitRate(r, false)
		require.True(t, split.IGST.Equal(r), "igst must equal rate %s", rate)
		require.True(t, split.CGST.IsZero())
		require.True(t, split.SGST.IsZero())
	}
}

func TestSplitRateClampsOutOfRange(t *testing.T) {
	split := SplitRate(decimal.NewFromInt(-5), true)
	require.True(t, split.Rate().IsZero())

	split = SplitRate(decimal.NewFromInt(150), false)
	require.True(t, split.IGST.Equal(decimal.NewFromInt(100)))
}

func TestSplitRateExample(t *testing.T) {
	// 18% intrastate splits into 9% CGST + 9% SGST.
	split := SplitRate(decimal.NewFromInt(18), true)
	require.True(t, split.CGST.Equal(decimal.NewFromInt(9)))
	require.True(t, split.SGST.Equal(decimal.NewFromInt(9)))
	require.True(t, split.IGST.IsZero())
}

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name     string
		seller   string
		buyer    string
		fallback SupplyScope
		want     SupplyScope
		fellBack bool
	}{
		{"same state", "27", "27", ScopeInterstate, ScopeIntrastate, false},
		{"different state", "27", "29", ScopeIntrastate, ScopeInterstate, false},
		{"unknown buyer", "27", "", ScopeIntrastate, ScopeIntrastate, true},
		{"unknown seller", "", "29", ScopeInterstate, ScopeInterstate, true},
		{"both unknown", "", "", ScopeIntrastate, ScopeIntrastate, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scope, fellBack := ResolveScope(tc.seller, tc.buyer, tc.fallback)
			require.Equal(t, tc.want, scope)
			require.Equal(t, tc.fellBack, fellBack)
		})
	}
}
