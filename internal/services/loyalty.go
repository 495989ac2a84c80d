package services

import (
	"github.com/shopspring/decimal"
)

// PointsPerUnitSpent is how much must be paid on a prepaid order to earn one reward point.
var PointsPerUnitSpent = decimal.NewFromInt(20)

// PointsEarned returns floor(amountPaid / 20). Zero and negative amounts earn nothing.
func PointsEarned(amountPaid decimal.Decimal) int64 {
	if !amountPaid.IsPositive() {
		return 0
	}
	return amountPaid.Div(PointsPerUnitSpent).Floor().IntPart()
}

// RedeemableDiscount returns min(subtotal, availablePoints), one point per currency unit.
// The discount never exceeds the subtotal and is never negative.
func RedeemableDiscount(subtotal decimal.Decimal, availablePoints int64) decimal.Decimal {
	if !subtotal.IsPositive() || availablePoints <= 0 {
		return decimal.Zero
	}
	return decimal.Min(subtotal, decimal.NewFromInt(availablePoints))
}

// PointsForDiscount is the number of points debited for an applied discount. Points are
// whole units, so a fractional discount consumes the next whole point.
func PointsForDiscount(discount decimal.Decimal) int64 {
	if !discount.IsPositive() {
		return 0
	}
	return discount.Ceil().IntPart()
}
