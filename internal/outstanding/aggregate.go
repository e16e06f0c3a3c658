package outstanding

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Aggregate rolls classified bills up by the requested key. Every bill
// maps to exactly one group; bills without a roll-up key land in the
// explicit Unassigned group, so the summed totals always equal the sum
// of the input bills' outstanding amounts.
func Aggregate(bills []ClassifiedBill, groupBy GroupBy) []Summary {
	byKey := make(map[string]*Summary)
	for _, bill := range bills {
		key, partyID := groupKey(bill, groupBy)
		summary, ok := byKey[key]
		if !ok {
			summary = &Summary{
				Key:              key,
				PartyLedgerID:    partyID,
				TotalOutstanding: decimal.Zero,
				CurrentDue:       decimal.Zero,
				Overdue:          decimal.Zero,
				Breakdown:        emptyBreakdown(),
				Risk:             RiskLow,
			}
			byKey[key] = summary
		}
		summary.BillCount++
		summary.TotalOutstanding = summary.TotalOutstanding.Add(bill.OutstandingAmount)
		if bill.OverdueDays > 0 {
			summary.Overdue = summary.Overdue.Add(bill.OutstandingAmount)
		} else {
			summary.CurrentDue = summary.CurrentDue.Add(bill.OutstandingAmount)
		}
		summary.Breakdown[bill.Bucket] = summary.Breakdown[bill.Bucket].Add(bill.OutstandingAmount)
		if bill.Risk.Severity() > summary.Risk.Severity() {
			summary.Risk = bill.Risk
		}
	}

	summaries := make([]Summary, 0, len(byKey))
	for _, summary := range byKey {
		summary.FormattedTotal = FormatAmount(summary.TotalOutstanding)
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Key < summaries[j].Key })
	return summaries
}

func groupKey(bill ClassifiedBill, groupBy GroupBy) (string, *int64) {
	if groupBy == GroupByGroup {
		if bill.GroupName == nil || *bill.GroupName == "" {
			return UnassignedGroup, nil
		}
		return *bill.GroupName, nil
	}
	if bill.PartyName == "" {
		return UnassignedGroup, nil
	}
	id := bill.PartyLedgerID
	return bill.PartyName, &id
}

func emptyBreakdown() map[Bucket]decimal.Decimal {
	breakdown := make(map[Bucket]decimal.Decimal, len(Buckets))
	for _, b := range Buckets {
		breakdown[b] = decimal.Zero
	}
	return breakdown
}
