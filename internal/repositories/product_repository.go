package repositories

import (
	"context"
	"fmt"

	"kirana/internal/models"
	"kirana/internal/store"

	"github.com/google/uuid"
)

// ProductRepository provides lookups and writes over the products collection.
// Products are append-only.
type ProductRepository struct {
	acc store.Accessor
}

func NewProductRepository(acc store.Accessor) *ProductRepository {
	return &ProductRepository{acc: acc}
}

// GetAll returns every product in creation order.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products, err := store.LoadCollection[models.Product](ctx, r.acc, store.ProductsKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
}

// ListByOwner returns the products added by the given shopkeeper.
func (r *ProductRepository) ListByOwner(ctx context.Context, shopkeeperID string) ([]models.Product, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Product, 0)
	for _, p := range products {
		if p.AddedByID == shopkeeperID {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	products, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	products = append(products, *product)
	if err := store.SaveCollection(ctx, r.acc, store.ProductsKey(), products); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}
