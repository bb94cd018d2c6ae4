package services

import (
	"github.com/shopspring/decimal"

	"hotel-reservations/models"
)

var (
	refundFull    = decimal.NewFromInt(1)
	refundHalf    = decimal.NewFromFloat(0.5)
	refundNothing = decimal.Zero
)

// RefundPolicyFor derives the refund tier from the hours remaining until
// check-in at cancellation time:
//
//	>= 48h  FULL_REFUND     100%
//	24-48h  PARTIAL_REFUND   50%
//	< 24h   NO_REFUND         0
func RefundPolicyFor(hoursUntilCheckIn float64) (models.RefundPolicy, decimal.Decimal) {
	switch {
	case hoursUntilCheckIn >= 48:
		return models.FullRefund, refundFull
	case hoursUntilCheckIn >= 24:
		return models.PartialRefund, refundHalf
	default:
		return models.NoRefund, refundNothing
	}
}

// RefundAmount applies the tier multiplier to the booking's total price.
// Extras are consumption charges and are never refunded.
func RefundAmount(totalPrice decimal.Decimal, multiplier decimal.Decimal) decimal.Decimal {
	return totalPrice.Mul(multiplier).Round(2)
}
