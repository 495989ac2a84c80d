package services

import (
	"context"
	"sort"

	"kirana/internal/models"
	"kirana/internal/repositories"
	"kirana/internal/store"

	"github.com/rs/zerolog"
)

// OrderService serves read-only order views. Orders are created only by settlement.
type OrderService struct {
	store *store.RecordStore
	log   zerolog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(st *store.RecordStore, log zerolog.Logger) *OrderService {
	return &OrderService{store: st, log: log}
}

// History returns the acting customer's orders, newest first.
func (s *OrderService) History(ctx context.Context, sess models.Session) ([]models.Order, error) {
	customer, err := sessionCustomer(ctx, s.store, sess)
	if err != nil {
		return nil, err
	}
	orders, err := repositories.NewOrderRepository(s.store).ListByUser(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	return newestFirst(orders), nil
}

// Received returns every order containing at least one of the acting shopkeeper's
// products, newest first. Each order is returned whole, including lines from other stores.
func (s *OrderService) Received(ctx context.Context, sess models.Session) ([]models.Order, error) {
	owner, err := sessionUser(ctx, repositories.NewUserRepository(s.store), sess)
	if err != nil {
		return nil, err
	}
	if _, err := owner.AsShopkeeper(); err != nil {
		return nil, err
	}

	products, err := repositories.NewProductRepository(s.store).ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []models.Order{}, nil
	}
	mine := make(map[string]struct{}, len(products))
	for _, p := range products {
		mine[p.ID] = struct{}{}
	}

	orders, err := repositories.NewOrderRepository(s.store).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	received := make([]models.Order, 0)
	for _, o := range orders {
		if o.ContainsAnyProduct(mine) {
			received = append(received, o)
		}
	}
	return newestFirst(received), nil
}

// newestFirst reverses insertion order; the stable sort keeps that order for equal timestamps.
func newestFirst(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		out[len(orders)-1-i] = o
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
