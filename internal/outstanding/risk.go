package outstanding

import "github.com/shopspring/decimal"

var (
	utilizationHalf  = decimal.RequireFromString("0.5")
	utilizationHigh  = decimal.RequireFromString("0.8")
	utilizationFull  = decimal.NewFromInt(1)
	riskBySeverity   = []Risk{RiskLow, RiskMedium, RiskHigh, RiskCritical}
)

// utilizationSeverity maps a credit utilisation ratio to an ordinal
// severity: under half the limit is 0, under 80% is 1, under the limit
// is 2, and at or over the limit is 3.
func utilizationSeverity(ratio decimal.Decimal) int {
	switch {
	case ratio.LessThan(utilizationHalf):
		return 0
	case ratio.LessThan(utilizationHigh):
		return 1
	case ratio.LessThan(utilizationFull):
		return 2
	default:
		return 3
	}
}

// ScoreRisk combines bucket severity and credit utilisation into a risk
// category. The result is the worse of the two, which keeps the score
// monotonic in both inputs: a bill can never look safer because it aged
// further or its party drew closer to the limit.
func ScoreRisk(bucket Bucket, utilization decimal.Decimal) Risk {
	severity := bucket.Severity()
	if us := utilizationSeverity(utilization); us > severity {
		severity = us
	}
	return riskBySeverity[severity]
}

// CreditUtilization returns outstanding divided by the credit limit. A
// party without a configured limit reports zero utilisation; utilisation
// then contributes nothing to its risk score.
func CreditUtilization(outstanding, creditLimit decimal.Decimal) decimal.Decimal {
	if creditLimit.Sign() <= 0 {
		return decimal.Zero
	}
	return outstanding.Div(creditLimit)
}
