package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementType is how an order is paid for.
type SettlementType string

const (
	SettlementPrepaid SettlementType = "prepaid"
	SettlementKhata   SettlementType = "khata"
)

// Valid reports whether t is a known settlement type.
func (t SettlementType) Valid() bool {
	return t == SettlementPrepaid || t == SettlementKhata
}

// KhataPaymentMethod is recorded as the payment method of every khata order.
const KhataPaymentMethod = "khata"

// Order is an immutable record of a settled cart. ToPay always equals Subtotal - Discount.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Items         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	ToPay         decimal.Decimal `json:"to_pay"`
	Type          SettlementType  `json:"type"`
	PaymentMethod string          `json:"payment_method"`
	Date          string          `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ContainsAnyProduct reports whether any line references one of productIDs.
func (o Order) ContainsAnyProduct(productIDs map[string]struct{}) bool {
	for _, it := range o.Items {
		if _, ok := productIDs[it.ProductID]; ok {
			return true
		}
	}
	return false
}
