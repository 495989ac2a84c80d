package repositories

import (
	"context"
	"fmt"

	"kirana/internal/models"
	"kirana/internal/store"

	"github.com/google/uuid"
)

// OrderRepository is the append-only orders collection. There is no update or delete.
type OrderRepository struct {
	acc store.Accessor
}

func NewOrderRepository(acc store.Accessor) *OrderRepository {
	return &OrderRepository{acc: acc}
}

// GetAll returns every order, oldest first.
func (r *OrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	orders, err := store.LoadCollection[models.Order](ctx, r.acc, store.OrdersKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

// ListByUser returns the orders placed by userID, oldest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Order, 0)
	for _, o := range orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

// Create appends an order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	orders, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	orders = append(orders, *order)
	if err := store.SaveCollection(ctx, r.acc, store.OrdersKey(), orders); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}
