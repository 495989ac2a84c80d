package models

import (
	"github.com/shopspring/decimal"
)

// Role selects which account variant a User carries. It never changes after signup.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleShopkeeper Role = "shopkeeper"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleShopkeeper
}

// StoreStatus is the advisory open/busy/closed flag a shopkeeper shows on their products.
type StoreStatus string

const (
	StoreOpen   StoreStatus = "open"
	StoreBusy   StoreStatus = "busy"
	StoreClosed StoreStatus = "closed"
)

// Valid reports whether s is one of the known store statuses.
func (s StoreStatus) Valid() bool {
	switch s {
	case StoreOpen, StoreBusy, StoreClosed:
		return true
	}
	return false
}

// User represents an account in the store. Exactly one of Customer and Shopkeeper is
// populated, selected by Role.
type User struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Password   string             `json:"password"`
	Role       Role               `json:"role"`
	Customer   *CustomerAccount   `json:"customer,omitempty"`
	Shopkeeper *ShopkeeperAccount `json:"shopkeeper,omitempty"`
}

// CustomerAccount holds the loyalty and khata state of a customer.
type CustomerAccount struct {
	RewardPoints int64            `json:"reward_points"`
	PrepaidCount int              `json:"prepaid_count"`
	CreditLimit  *decimal.Decimal `json:"credit_limit,omitempty"` // display only
	UsedCredit   decimal.Decimal  `json:"used_credit"`
}

// HasCreditLimit reports whether a display credit limit has been assigned.
func (a *CustomerAccount) HasCreditLimit() bool {
	return a.CreditLimit != nil && !a.CreditLimit.IsZero()
}

// ShopkeeperAccount holds the shopkeeper-only store state.
type ShopkeeperAccount struct {
	StoreStatus StoreStatus `json:"store_status"`
}

// NewUser builds a user with the account variant matching role.
func NewUser(id, name, email, password string, role Role) User {
	u := User{ID: id, Name: name, Email: email, Password: password, Role: role}
	switch role {
	case RoleCustomer:
		u.Customer = &CustomerAccount{UsedCredit: decimal.Zero}
	case RoleShopkeeper:
		u.Shopkeeper = &ShopkeeperAccount{StoreStatus: StoreOpen}
	}
	return u
}

// AsCustomer returns the customer account, or ErrWrongRole for shopkeepers.
func (u *User) AsCustomer() (*CustomerAccount, error) {
	if u.Role != RoleCustomer || u.Customer == nil {
		return nil, ErrWrongRole
	}
	return u.Customer, nil
}

// AsShopkeeper returns the shopkeeper account, or ErrWrongRole for customers.
func (u *User) AsShopkeeper() (*ShopkeeperAccount, error) {
	if u.Role != RoleShopkeeper || u.Shopkeeper == nil {
		return nil, ErrWrongRole
	}
	return u.Shopkeeper, nil
}

// Clone returns a deep copy so callers never share account pointers with stored records.
func (u User) Clone() User {
	if u.Customer != nil {
		c := *u.Customer
		if c.CreditLimit != nil {
			limit := *c.CreditLimit
			c.CreditLimit = &limit
		}
		u.Customer = &c
	}
	if u.Shopkeeper != nil {
		s := *u.Shopkeeper
		u.Shopkeeper = &s
	}
	return u
}
