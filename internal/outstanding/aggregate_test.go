package outstanding

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func classifiedFixture() []ClassifiedBill {
	groupA := "Sundry Debtors"
	mk := func(id int64, party string, partyID int64, group *string, outstanding string, overdue int, bucket Bucket, risk Risk) ClassifiedBill {
		return ClassifiedBill{
			Bill: Bill{
				ID:            id,
				BillNumber:    "B-" + party,
				PartyLedgerID: partyID,
				PartyName:     party,
				GroupName:     group,
				DueDate:       time.Now(),
			},
			OutstandingAmount: decimal.RequireFromString(outstanding),
			OverdueDays:       overdue,
			Bucket:            bucket,
			Risk:              risk,
		}
	}
	return []ClassifiedBill{
		mk(1, "Acme Traders", 10, &groupA, "1500.00", 0, Bucket0To30, RiskLow),
		mk(2, "Acme Traders", 10, &groupA, "2500.00", 44, Bucket31To60, RiskMedium),
		mk(3, "Beta Supplies", 11, &groupA, "4000.00", 95, Bucket90Plus, RiskCritical),
		mk(4, "Gamma & Co", 12, nil, "500.00", 10, Bucket0To30, RiskLow),
	}
}

func totalOf(summaries []Summary) decimal.Decimal {
	total := decimal.Zero
	for _, s := range summaries {
		total = total.Add(s.TotalOutstanding)
	}
	return total
}

func TestAggregateByParty(t *testing.T) {
	summaries := Aggregate(classifiedFixture(), GroupByParty)
	require.Len(t, summaries, 3)

	byKey := make(map[string]Summary)
	for _, s := range summaries {
		byKey[s.Key] = s
	}

	acme := byKey["Acme Traders"]
	require.Equal(t, 2, acme.BillCount)
	require.True(t, acme.TotalOutstanding.Equal(decimal.RequireFromString("4000")))
	require.True(t, acme.CurrentDue.Equal(decimal.RequireFromString("1500")))
	require.True(t, acme.Overdue.Equal(decimal.RequireFromString("2500")))
	require.Equal(t, RiskMedium, acme.Risk)
	require.NotNil(t, acme.PartyLedgerID)
	require.Equal(t, int64(10), *acme.PartyLedgerID)
	require.True(t, acme.Breakdown[Bucket31To60].Equal(decimal.RequireFromString("2500")))
	require.True(t, acme.Breakdown[Bucket90Plus].IsZero())
	require.Equal(t, "4,000.00", acme.FormattedTotal)

	require.Equal(t, RiskCritical, byKey["Beta Supplies"].Risk)
}

func TestAggregateByGroupUsesUnassigned(t *testing.T) {
	summaries := Aggregate(classifiedFixture(), GroupByGroup)
	require.Len(t, summaries, 2)

	byKey := make(map[string]Summary)
	for _, s := range summaries {
		byKey[s.Key] = s
	}
	require.Contains(t, byKey, UnassignedGroup)
	require.True(t, byKey[UnassignedGroup].TotalOutstanding.Equal(decimal.RequireFromString("500")))
	require.Equal(t, 3, byKey["Sundry Debtors"].BillCount)
}

func TestAggregateConservesTotalAcrossGroupings(t *testing.T) {
	bills := classifiedFixture()
	byParty := totalOf(Aggregate(bills, GroupByParty))
	byGroup := totalOf(Aggregate(bills, GroupByGroup))
	require.True(t, byParty.Equal(byGroup), "%s vs %s", byParty, byGroup)
	require.True(t, byParty.Equal(decimal.RequireFromString("8500")))
}

func TestAggregateSortsByKey(t *testing.T) {
	summaries := Aggregate(classifiedFixture(), GroupByParty)
	for i := 1; i < len(summaries); i++ {
		require.Less(t, summaries[i-1].Key, summaries[i].Key)
	}
}

func TestAggregateEmpty(t *testing.T) {
	require.Empty(t, Aggregate(nil, GroupByParty))
}

func TestFormatAmountIndianGrouping(t *testing.T) {
	require.Equal(t, "12,34,567.50", FormatAmount(decimal.RequireFromString("1234567.5")))
	require.Equal(t, "0.00", FormatAmount(decimal.Zero))
}
