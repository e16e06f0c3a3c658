package voucher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func itemLine(taxable, cgst, sgst, igst, discount string) Line {
	return Line{
		Kind:         LineKindItem,
		TaxableValue: dec(taxable),
		CGSTAmount:   dec(cgst),
		SGSTAmount:   dec(sgst),
		IGSTAmount:   dec(igst),
		Discount:     dec(discount),
	}
}

func entryLine(entryType EntryType, amount string) Line {
	return Line{Kind: LineKindLedger, EntryType: entryType, Amount: dec(amount)}
}

func TestAggregateLines(t *testing.T) {
	lines := []Line{
		itemLine("10000", "900", "900", "0", "500"),
		itemLine("2000", "180", "180", "0", "0"),
	}
	totals := AggregateLines(lines)

	require.True(t, totals.Subtotal.Equal(dec("12000")))
	require.True(t, totals.CGSTTotal.Equal(dec("1080")))
	require.True(t, totals.SGSTTotal.Equal(dec("1080")))
	require.True(t, totals.IGSTTotal.IsZero())
	require.True(t, totals.DiscountTotal.Equal(dec("500")))
	// subtotal + taxes - discount
	require.True(t, totals.GrandTotal.Equal(dec("13660")), totals.GrandTotal.String())
}

func TestAggregateLinesOrderIndependent(t *testing.T) {
	a := itemLine("10.01", "0.9", "0.9", "0", "0.33")
	b := itemLine("999.99", "90", "90", "0", "0")
	c := itemLine("0.07", "0.01", "0.01", "0", "0")

	forward := AggregateLines([]Line{a, b, c})
	reversed := AggregateLines([]Line{c, b, a})
	require.True(t, forward.GrandTotal.Equal(reversed.GrandTotal))
	require.True(t, forward.Subtotal.Equal(reversed.Subtotal))
}

func TestAggregateLinesEmpty(t *testing.T) {
	totals := AggregateLines(nil)
	require.True(t, totals.GrandTotal.IsZero())
	require.True(t, totals.Subtotal.IsZero())
}

func TestAggregateEntries(t *testing.T) {
	t.Run("exact balance", func(t *testing.T) {
		totals := AggregateEntries([]Line{
			entryLine(EntryDebit, "5000"),
			entryLine(EntryCredit, "3000"),
			entryLine(EntryCredit, "2000"),
		})
		require.True(t, totals.Balanced)
		require.True(t, totals.DebitTotal.Equal(dec("5000")))
		require.True(t, totals.CreditTotal.Equal(dec("5000")))
	})

	t.Run("difference of exactly one paisa balances", func(t *testing.T) {
		totals := AggregateEntries([]Line{
			entryLine(EntryDebit, "5000.00"),
			entryLine(EntryCredit, "4999.99"),
		})
		require.True(t, totals.Balanced)
	})

	t.Run("difference beyond the tolerance fails", func(t *testing.T) {
		totals := AggregateEntries([]Line{
			entryLine(EntryDebit, "5000.00"),
			entryLine(EntryCredit, "4999.98"),
		})
		require.False(t, totals.Balanced)
	})

	t.Run("credit heavy imbalance fails", func(t *testing.T) {
		totals := AggregateEntries([]Line{
			entryLine(EntryDebit, "100"),
			entryLine(EntryCredit, "200"),
		})
		require.False(t, totals.Balanced)
	})

	t.Run("empty voucher balances at zero", func(t *testing.T) {
		totals := AggregateEntries(nil)
		require.True(t, totals.Balanced)
	})
}
