package services_test

import (
	"testing"

	"kirana/internal/models"
	"kirana/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_CurrentUserAssignsCreditLimit(t *testing.T) {
	f := newFixture(t, nil)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	f.setAccount(t, cust, func(a *models.CustomerAccount) { a.PrepaidCount = 5 })

	user, err := f.accounts.CurrentUser(f.ctx, cust)
	require.NoError(t, err)
	require.NotNil(t, user.Customer.CreditLimit)
	assert.Equal(t, "1000", user.Customer.CreditLimit.String())

	stored := f.user(t, cust)
	require.NotNil(t, stored.Customer.CreditLimit)
	assert.Equal(t, "1000", stored.Customer.CreditLimit.String())
}

func TestAccountService_CurrentUser(t *testing.T) {
	f := newFixture(t, nil)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)

	user, err := f.accounts.CurrentUser(f.ctx, cust)
	require.NoError(t, err)
	assert.Nil(t, user.Customer.CreditLimit)

	user, err = f.accounts.CurrentUser(f.ctx, shop)
	require.NoError(t, err)
	assert.Equal(t, models.StoreOpen, user.Shopkeeper.StoreStatus)

	_, err = f.accounts.CurrentUser(f.ctx, models.Session{UserID: "nobody", Role: models.RoleCustomer})
	assert.ErrorIs(t, err, models.ErrAuthentication)

	// a session whose role no longer matches the stored user
	_, err = f.accounts.CurrentUser(f.ctx, models.Session{UserID: cust.UserID, Role: models.RoleShopkeeper})
	assert.ErrorIs(t, err, models.ErrWrongRole)
}

func TestAccountService_SetStoreStatus(t *testing.T) {
	f := newFixture(t, nil)
	shop := f.signup(t, "Ravi", "ravi@example.com", models.RoleShopkeeper)
	cust := f.signup(t, "Asha", "asha@example.com", models.RoleCustomer)

	user, err := f.accounts.SetStoreStatus(f.ctx, shop, services.StoreStatusInput{Status: models.StoreBusy})
	require.NoError(t, err)
	assert.Equal(t, models.StoreBusy, user.Shopkeeper.StoreStatus)
	assert.Equal(t, models.StoreBusy, f.user(t, shop).Shopkeeper.StoreStatus)

	_, err = f.accounts.SetStoreStatus(f.ctx, shop, services.StoreStatusInput{Status: "sleeping"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "Choose open, busy, or closed.", models.Reason(err))

	_, err = f.accounts.SetStoreStatus(f.ctx, cust, services.StoreStatusInput{Status: models.StoreClosed})
	assert.ErrorIs(t, err, models.ErrWrongRole)
}
