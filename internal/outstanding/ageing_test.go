package outstanding

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyBuckets(t *testing.T) {
	asOf := date(2024, time.December, 15)
	cases := []struct {
		name string
		due  time.Time
		days int
		want Bucket
	}{
		{"due today", asOf, 0, Bucket0To30},
		{"due in future", date(2025, time.January, 10), 0, Bucket0To30},
		{"thirty days", date(2024, time.November, 15), 30, Bucket0To30},
		{"thirty one days", date(2024, time.November, 14), 31, Bucket31To60},
		{"forty four days", date(2024, time.November, 1), 44, Bucket31To60},
		{"sixty days", date(2024, time.October, 16), 60, Bucket31To60},
		{"sixty one days", date(2024, time.October, 15), 61, Bucket61To90},
		{"ninety days", date(2024, time.September, 16), 90, Bucket61To90},
		{"ninety one days", date(2024, time.September, 15), 91, Bucket90Plus},
		{"very old", date(2023, time.January, 1), 714, Bucket90Plus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ageing := Classify(tc.due, asOf)
			require.Equal(t, tc.days, ageing.OverdueDays)
			require.Equal(t, tc.want, ageing.Bucket)
		})
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2024, time.November, 1, 23, 30, 0, 0, time.UTC)
	asOf := time.Date(2024, time.November, 2, 0, 5, 0, 0, time.UTC)
	ageing := Classify(due, asOf)
	require.Equal(t, 1, ageing.OverdueDays)
}

func TestClassifyMonotonic(t *testing.T) {
	asOf := date(2024, time.December, 31)
	prev := 0
	for days := 0; days <= 120; days++ {
		due := asOf.AddDate(0, 0, -days)
		ageing := Classify(due, asOf)
		require.Equal(t, days, ageing.OverdueDays)
		require.GreaterOrEqual(t, ageing.Bucket.Severity(), prev)
		prev = ageing.Bucket.Severity()
	}
}

func TestInterest(t *testing.T) {
	rate := decimal.RequireFromString("12")

	t.Run("not overdue accrues nothing", func(t *testing.T) {
		got := Interest(decimal.NewFromInt(10000), rate, 0)
		require.True(t, got.IsZero())
	})

	t.Run("simple interest on overdue days", func(t *testing.T) {
		// 10000 * 12% * 73/365 = 240.00
		got := Interest(decimal.NewFromInt(10000), rate, 73)
		require.True(t, got.Equal(decimal.RequireFromString("240")), got.String())
	})

	t.Run("rounds to paise", func(t *testing.T) {
		got := Interest(decimal.RequireFromString("9999.99"), rate, 44)
		require.Equal(t, int32(-2), got.Exponent())
	})

	t.Run("zero outstanding", func(t *testing.T) {
		got := Interest(decimal.Zero, rate, 44)
		require.True(t, got.IsZero())
	})
}
