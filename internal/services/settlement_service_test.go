package services_test

import (
	"encoding/json"
	"errors"
	"testing"

	"kirana/internal/models"
	"kirana/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func prepaid() services.SettleInput {
	return services.SettleInput{Type: models.SettlementPrepaid, PaymentMethod: "upi"}
}

func khata() services.SettleInput {
	return services.SettleInput{Type: models.SettlementKhata}
}

func TestSettlement_KhataRejectedForNewCustomer(t *testing.T) {
	f := newFixture(t, nil)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	rice := f.addProduct(t, shop, "Rice", "250", "Snacks")
	f.fill(t, cust, rice.ID, 2)
	before := f.user(t, cust)

	result, err := f.settle.Settle(f.ctx, cust, khata())
	assert.ErrorIs(t, err, models.ErrIneligible)
	assert.Nil(t, result)
	assert.Equal(t, "Khata is not yet unlocked.", models.Reason(err))

	assert.Equal(t, before, f.user(t, cust))
	assert.Len(t, f.cart(t, cust), 1)
	assert.Empty(t, f.allOrders(t))
}

func TestSettlement_PrepaidWithRewards(t *testing.T) {
	f := newFixture(t, nil)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	dal := f.addProduct(t, shop, "Dal", "100", "Snacks")
	f.setAccount(t, cust, func(a *models.CustomerAccount) {
		a.PrepaidCount = 5
		a.RewardPoints = 30
	})
	f.fill(t, cust, dal.ID, 2)

	result, err := f.settle.Settle(f.ctx, cust, services.SettleInput{
		Type:          models.SettlementPrepaid,
		UseRewards:    true,
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	o := result.Order
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, models.SettlementPrepaid, o.Type)
	assert.Equal(t, "upi", o.PaymentMethod)
	assert.Equal(t, "200", o.Subtotal.String())
	assert.Equal(t, "30", o.Discount.String())
	assert.Equal(t, "170", o.ToPay.String())
	assert.Equal(t, "18/10/2026, 10:31:00", o.Date)
	assert.Equal(t, int64(8), result.PointsEarned)
	assert.Equal(t, int64(30), result.PointsRedeemed)
	assert.Equal(t, "PREPAID order placed! Amount to pay: ₹ 170 (₹30 from reward points)", result.Message)

	acct := f.user(t, cust).Customer
	assert.Equal(t, int64(8), acct.RewardPoints)
	assert.Equal(t, 6, acct.PrepaidCount)
	require.NotNil(t, acct.CreditLimit)
	assert.Equal(t, "1000", acct.CreditLimit.String())
	assert.True(t, acct.UsedCredit.IsZero())
	assert.Equal(t, *acct, *result.User.Customer)

	assert.Empty(t, f.cart(t, cust))
	require.Len(t, f.allOrders(t), 1)
}

func TestSettlement_KhataAfterUnlock(t *testing.T) {
	f := newFixture(t, nil)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	dal := f.addProduct(t, shop, "Dal", "100", "Snacks")
	ghee := f.addProduct(t, shop, "Ghee", "150", "Milk & Dairy")
	f.setAccount(t, cust, func(a *models.CustomerAccount) {
		a.PrepaidCount = 5
		a.RewardPoints = 30
	})
	f.fill(t, cust, dal.ID, 2)
	_, err := f.settle.Settle(f.ctx, cust, services.SettleInput{Type: models.SettlementPrepaid, UseRewards: true, PaymentMethod: "cash"})
	require.NoError(t, err)

	f.fill(t, cust, ghee.ID, 2)
	result, err := f.settle.Settle(f.ctx, cust, services.SettleInput{Type: models.SettlementKhata, UseRewards: true})
	require.NoError(t, err)

	o := result.Order
	assert.Equal(t, models.SettlementKhata, o.Type)
	assert.Equal(t, models.KhataPaymentMethod, o.PaymentMethod)
	assert.True(t, o.Discount.IsZero())
	assert.Equal(t, "300", o.ToPay.String())
	assert.Equal(t, int64(0), result.PointsEarned)
	assert.Equal(t, "KHATA order placed! Amount to pay: ₹ 300", result.Message)

	acct := f.user(t, cust).Customer
	assert.Equal(t, "300", acct.UsedCredit.String())
	assert.Equal(t, int64(8), acct.RewardPoints)
	assert.Equal(t, 6, acct.PrepaidCount)
	assert.Empty(t, f.cart(t, cust))
}

func TestSettlement_KhataChargesAreUncapped(t *testing.T) {
	f := newFixture(t, nil)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	tv := f.addProduct(t, shop, "Television", "900", "")
	f.setAccount(t, cust, func(a *models.CustomerAccount) { a.PrepaidCount = 5 })

	for i := 0; i < 3; i++ {
		f.fill(t, cust, tv.ID, 1)
		_, err := f.settle.Settle(f.ctx, cust, khata())
		require.NoError(t, err)
	}
	assert.Equal(t, "2700", f.user(t, cust).Customer.UsedCredit.String())
}

func TestSettlement_EmptyCart(t *testing.T) {
	f := newFixture(t, nil)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	before := f.user(t, cust)

	for _, in := range []services.SettleInput{prepaid(), khata()} {
		_, err := f.settle.Settle(f.ctx, cust, in)
		assert.ErrorIs(t, err, models.ErrEmptyCart)
	}
	assert.Equal(t, before, f.user(t, cust))
	assert.Empty(t, f.allOrders(t))
}

func TestSettlement_Validation(t *testing.T) {
	f := newFixture(t, nil)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)

	_, err := f.settle.Settle(f.ctx, cust, services.SettleInput{Type: "cash"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "Choose prepaid or khata.", models.Reason(err))

	_, err = f.settle.Settle(f.ctx, cust, services.SettleInput{Type: models.SettlementPrepaid, PaymentMethod: "  "})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "Choose a payment method.", models.Reason(err))
}

func TestSettlement_CustomerOnly(t *testing.T) {
	f := newFixture(t, nil)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)

	_, err := f.settle.Settle(f.ctx, shop, prepaid())
	assert.ErrorIs(t, err, models.ErrWrongRole)

	_, err = f.settle.Settle(f.ctx, models.Session{}, prepaid())
	assert.ErrorIs(t, err, models.ErrAuthentication)
}

func TestSettlement_FirstPrepaidOrder(t *testing.T) {
	f := newFixture(t, nil)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	tea := f.addProduct(t, shop, "Tea", "45", "Drinks")
	f.fill(t, cust, tea.ID, 1)

	// no points to redeem, so the flag changes nothing
	result, err := f.settle.Settle(f.ctx, cust, services.SettleInput{Type: models.SettlementPrepaid, UseRewards: true, PaymentMethod: "card"})
	require.NoError(t, err)
	assert.True(t, result.Order.Discount.IsZero())
	assert.Equal(t, "PREPAID order placed! Amount to pay: ₹ 45", result.Message)

	acct := f.user(t, cust).Customer
	assert.Equal(t, int64(2), acct.RewardPoints)
	assert.Equal(t, 1, acct.PrepaidCount)
	assert.Nil(t, acct.CreditLimit)
}

func TestSettlement_DiscountCappedAtSubtotal(t *testing.T) {
	f := newFixture(t, nil)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	chips := f.addProduct(t, shop, "Chips", "10.5", "Snacks")
	f.setAccount(t, cust, func(a *models.CustomerAccount) { a.RewardPoints = 50 })
	f.fill(t, cust, chips.ID, 1)

	result, err := f.settle.Settle(f.ctx, cust, services.SettleInput{Type: models.SettlementPrepaid, UseRewards: true, PaymentMethod: "upi"})
	require.NoError(t, err)
	assert.Equal(t, "10.5", result.Order.Discount.String())
	assert.True(t, result.Order.ToPay.IsZero())
	assert.Equal(t, int64(11), result.PointsRedeemed)
	assert.Equal(t, int64(0), result.PointsEarned)
	assert.Equal(t, int64(39), f.user(t, cust).Customer.RewardPoints)
}

func TestSettlement_ToPayInvariant(t *testing.T) {
	f := newFixture(t, nil)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	milk := f.addProduct(t, shop, "Milk", "32.5", "Milk & Dairy")
	bread := f.addProduct(t, shop, "Bread", "40", "")

	for i := 0; i < 7; i++ {
		f.fill(t, cust, milk.ID, i%3+1)
		f.fill(t, cust, bread.ID, 1)
		in := services.SettleInput{Type: models.SettlementPrepaid, UseRewards: i%2 == 0, PaymentMethod: "upi"}
		if i == 6 {
			in = khata()
		}
		_, err := f.settle.Settle(f.ctx, cust, in)
		require.NoError(t, err)
	}

	orders := f.allOrders(t)
	require.Len(t, orders, 7)
	for _, o := range orders {
		assert.True(t, o.ToPay.Equal(o.Subtotal.Sub(o.Discount)), "order %s", o.ID)
		assert.False(t, o.ToPay.IsNegative(), "order %s", o.ID)
	}
}

func TestSettlement_PublishesEvent(t *testing.T) {
	pub := new(MockPublisher)
	f := newFixture(t, pub)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	oil := f.addProduct(t, shop, "Oil", "120", "")
	f.fill(t, cust, oil.ID, 1)

	var body []byte
	pub.On("Publish", services.OrderExchange, services.OrderSettledRoutingKey, mock.AnythingOfType("[]uint8")).
		Run(func(args mock.Arguments) { body = args.Get(2).([]byte) }).
		Return(nil).Once()

	result, err := f.settle.Settle(f.ctx, cust, prepaid())
	require.NoError(t, err)
	pub.AssertExpectations(t)

	var ev services.OrderSettledEvent
	require.NoError(t, json.Unmarshal(body, &ev))
	assert.Equal(t, result.Order.ID, ev.OrderID)
	assert.Equal(t, cust.UserID, ev.UserID)
	assert.Equal(t, "prepaid", ev.Type)
	assert.Equal(t, []string{oil.ID}, ev.ProductIDs)
	assert.Equal(t, int64(6), ev.PointsEarned)
}

func TestSettlement_PublishFailureKeepsOrder(t *testing.T) {
	pub := new(MockPublisher)
	f := newFixture(t, pub)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	oil := f.addProduct(t, shop, "Oil", "120", "")
	f.fill(t, cust, oil.ID, 1)

	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := f.settle.Settle(f.ctx, cust, prepaid())
	require.NoError(t, err)
	pub.AssertExpectations(t)
	assert.Len(t, f.allOrders(t), 1)
}

func TestSettlement_RejectionDoesNotPublish(t *testing.T) {
	pub := new(MockPublisher)
	f := newFixture(t, pub)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)

	_, err := f.settle.Settle(f.ctx, cust, prepaid())
	assert.ErrorIs(t, err, models.ErrEmptyCart)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
