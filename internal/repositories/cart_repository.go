package repositories

import (
	"context"
	"fmt"

	"kirana/internal/models"
	"kirana/internal/store"
)

// CartRepository stores one cart per user.
type CartRepository struct {
	acc store.Accessor
}

func NewCartRepository(acc store.Accessor) *CartRepository {
	return &CartRepository{acc: acc}
}

// Get returns the cart owned by userID; a user without a stored cart has an empty one.
func (r *CartRepository) Get(ctx context.Context, userID string) (models.Cart, error) {
	lines, err := store.LoadCollection[models.CartLine](ctx, r.acc, store.CartKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for user %s: %w", userID, err)
	}
	return models.Cart(lines), nil
}

func (r *CartRepository) Save(ctx context.Context, userID string, cart models.Cart) error {
	if err := store.SaveCollection(ctx, r.acc, store.CartKey(userID), []models.CartLine(cart)); err != nil {
		return fmt.Errorf("failed to save cart for user %s: %w", userID, err)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	return r.Save(ctx, userID, models.Cart{})
}
