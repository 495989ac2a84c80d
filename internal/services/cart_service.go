package services

import (
	"context"
	"fmt"
	"strings"

	"kirana/internal/models"
	"kirana/internal/repositories"
	"kirana/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CartService handles the acting customer's cart.
type CartService struct {
	store *store.RecordStore
	log   zerolog.Logger
}

func NewCartService(st *store.RecordStore, log zerolog.Logger) *CartService {
	return &CartService{store: st, log: log}
}

// CartSummary is the cart as shown at checkout.
type CartSummary struct {
	Lines        []models.CartLine `json:"lines"`
	ItemCount    int               `json:"item_count"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	Discount     decimal.Decimal   `json:"discount"`
	Total        decimal.Decimal   `json:"total"`
	CanPrepay    bool              `json:"can_prepay"`
	CanUseKhata  bool              `json:"can_use_khata"`
	KhataNote    string            `json:"khata_note"`
	RewardPoints int64             `json:"reward_points"`
	PrepaidCount int               `json:"prepaid_count"`
}

// AddToCart adds one unit of productID to the acting customer's cart. The owning store's
// status does not restrict this.
func (s *CartService) AddToCart(ctx context.Context, sess models.Session, productID string) (models.Cart, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, &models.ValidationError{Message: "Choose a product.", Fields: map[string]string{"ProductID": "required"}}
	}
	var cart models.Cart
	err := s.store.Update(ctx, func(tx store.Accessor) error {
		customer, err := sessionCustomer(ctx, tx, sess)
		if err != nil {
			return err
		}
		product, err := repositories.NewProductRepository(tx).GetByID(ctx, productID)
		if err != nil {
			return err
		}
		carts := repositories.NewCartRepository(tx)
		cart, err = carts.Get(ctx, customer.ID)
		if err != nil {
			return err
		}
		cart.AddItem(*product)
		return carts.Save(ctx, customer.ID, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AdjustCartQuantity applies delta to a line, removing it when the quantity drops to zero.
// Unknown products leave the cart unchanged.
func (s *CartService) AdjustCartQuantity(ctx context.Context, sess models.Session, productID string, delta int) (models.Cart, error) {
	var cart models.Cart
	err := s.store.Update(ctx, func(tx store.Accessor) error {
		customer, err := sessionCustomer(ctx, tx, sess)
		if err != nil {
			return err
		}
		carts := repositories.NewCartRepository(tx)
		cart, err = carts.Get(ctx, customer.ID)
		if err != nil {
			return err
		}
		cart.AdjustQuantity(productID, delta)
		return carts.Save(ctx, customer.ID, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// Summary computes the checkout view. The discount preview uses the customer's points
// when useRewards is set.
func (s *CartService) Summary(ctx context.Context, sess models.Session, useRewards bool) (*CartSummary, error) {
	customer, err := sessionCustomer(ctx, s.store, sess)
	if err != nil {
		return nil, err
	}
	cart, err := repositories.NewCartRepository(s.store).Get(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	return summarize(cart, customer.Customer, useRewards), nil
}

func summarize(cart models.Cart, acct *models.CustomerAccount, useRewards bool) *CartSummary {
	summary := &CartSummary{
		Lines:        cart.Snapshot(),
		ItemCount:    cart.ItemCount(),
		Subtotal:     cart.Subtotal(),
		Discount:     decimal.Zero,
		RewardPoints: acct.RewardPoints,
		PrepaidCount: acct.PrepaidCount,
	}
	if cart.IsEmpty() {
		summary.Total = decimal.Zero
		summary.KhataNote = "Add items to place prepaid or khata orders."
		return summary
	}
	if useRewards {
		summary.Discount = RedeemableDiscount(summary.Subtotal, acct.RewardPoints)
	}
	summary.Total = summary.Subtotal.Sub(summary.Discount)
	summary.CanPrepay = true
	if KhataEligible(acct) {
		summary.CanUseKhata = true
		summary.KhataNote = "Khata available. It will use your running khata balance."
	} else {
		summary.KhataNote = fmt.Sprintf("Khata unlocks after %d prepaid orders. You have %d.", KhataThreshold, acct.PrepaidCount)
	}
	return summary
}

// sessionCustomer loads the acting user and requires a customer account.
func sessionCustomer(ctx context.Context, acc store.Accessor, sess models.Session) (*models.User, error) {
	user, err := sessionUser(ctx, repositories.NewUserRepository(acc), sess)
	if err != nil {
		return nil, err
	}
	if _, err := user.AsCustomer(); err != nil {
		return nil, err
	}
	return user, nil
}
