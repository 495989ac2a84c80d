package services

import (
	"kirana/internal/models"

	"github.com/shopspring/decimal"
)

// KhataThreshold is the number of prepaid orders that unlocks khata.
const KhataThreshold = 5

// DisplayCreditLimit is shown once khata unlocks. It is never enforced.
var DisplayCreditLimit = decimal.NewFromInt(1000)

// KhataEligible reports whether the customer may place khata orders. The prepaid count is
// the only gate; used credit and the display limit never block an order.
func KhataEligible(acct *models.CustomerAccount) bool {
	return acct.PrepaidCount >= KhataThreshold
}

// OnThresholdCrossed assigns the display credit limit the first time the customer is
// eligible for khata. It reports whether acct changed; later calls are no-ops.
func OnThresholdCrossed(acct *models.CustomerAccount) bool {
	if !KhataEligible(acct) || acct.HasCreditLimit() {
		return false
	}
	limit := DisplayCreditLimit
	acct.CreditLimit = &limit
	return true
}

// ApplyKhataCharge adds amount to the running khata balance with no cap.
func ApplyKhataCharge(acct *models.CustomerAccount, amount decimal.Decimal) {
	acct.UsedCredit = acct.UsedCredit.Add(amount)
}
