package services

import (
	"context"
	"strings"

	"kirana/internal/models"
	"kirana/internal/repositories"
	"kirana/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CategoryAll disables category filtering in ProductFilter.
const CategoryAll = "All"

// ProductService handles business logic related to products.
type ProductService struct {
	store *store.RecordStore
	log   zerolog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(st *store.RecordStore, log zerolog.Logger) *ProductService {
	return &ProductService{store: st, log: log}
}

// ProductInput is the request body for listing a new product.
type ProductInput struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
	Category string          `json:"category" validate:"category"`
}

// ProductFilter narrows ListProducts. Empty fields match everything.
type ProductFilter struct {
	Category string
	Search   string
}

// ProductListing is a product annotated for display.
type ProductListing struct {
	Product     models.Product     `json:"product"`
	Image       string             `json:"image"`
	Category    string             `json:"category"`
	StoreStatus models.StoreStatus `json:"store_status"`
}

// AddProduct lists a new product owned by the acting shopkeeper.
func (s *ProductService) AddProduct(ctx context.Context, sess models.Session, in ProductInput) (*models.Product, error) {
	const invalid = "Enter name, price, and choose a category."
	in.Name = strings.TrimSpace(in.Name)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Category = strings.TrimSpace(in.Category)
	if err := validateInput(in, invalid); err != nil {
		return nil, err
	}
	if !in.Price.IsPositive() {
		return nil, &models.ValidationError{Message: invalid, Fields: map[string]string{"Price": "must be greater than 0"}}
	}
	if in.Category == "" {
		in.Category = models.CategoryUncategorized
	}

	var product models.Product
	err := s.store.Update(ctx, func(tx store.Accessor) error {
		owner, err := sessionUser(ctx, repositories.NewUserRepository(tx), sess)
		if err != nil {
			return err
		}
		if _, err := owner.AsShopkeeper(); err != nil {
			return err
		}
		product = models.Product{
			Name:        in.Name,
			Price:       in.Price,
			ImageURL:    in.ImageURL,
			Category:    in.Category,
			AddedByID:   owner.ID,
			AddedByName: owner.Name,
		}
		return repositories.NewProductRepository(tx).Create(ctx, &product)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("product_id", product.ID).Str("shopkeeper_id", product.AddedByID).Msg("product added")
	return &product, nil
}

// ListProducts returns every product matching filter, annotated with its store status.
// Store status is advisory and never hides a product.
func (s *ProductService) ListProducts(ctx context.Context, filter ProductFilter) ([]ProductListing, error) {
	products, err := repositories.NewProductRepository(s.store).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := s.storeStatuses(ctx)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(filter.Category)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	listings := make([]ProductListing, 0, len(products))
	for _, p := range products {
		if category != "" && category != CategoryAll && p.CategoryOrDefault() != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		listings = append(listings, listing(p, statuses))
	}
	return listings, nil
}

// ListShopProducts returns the acting shopkeeper's own products.
func (s *ProductService) ListShopProducts(ctx context.Context, sess models.Session) ([]ProductListing, error) {
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
	statuses := map[string]models.StoreStatus{owner.ID: owner.Shopkeeper.StoreStatus}
	listings := make([]ProductListing, 0, len(products))
	for _, p := range products {
		listings = append(listings, listing(p, statuses))
	}
	return listings, nil
}

// EffectiveStatus returns the store status of the product's shopkeeper.
func (s *ProductService) EffectiveStatus(ctx context.Context, p models.Product) (models.StoreStatus, error) {
	statuses, err := s.storeStatuses(ctx)
	if err != nil {
		return "", err
	}
	return EffectiveStatus(p, statuses), nil
}

// EffectiveStatus looks up the owner's status, defaulting to open when the shopkeeper
// record is missing.
func EffectiveStatus(p models.Product, statuses map[string]models.StoreStatus) models.StoreStatus {
	if status, ok := statuses[p.AddedByID]; ok && status != "" {
		return status
	}
	return models.StoreOpen
}

func (s *ProductService) storeStatuses(ctx context.Context) (map[string]models.StoreStatus, error) {
	users, err := repositories.NewUserRepository(s.store).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]models.StoreStatus)
	for _, u := range users {
		if u.Shopkeeper != nil {
			statuses[u.ID] = u.Shopkeeper.StoreStatus
		}
	}
	return statuses, nil
}

func listing(p models.Product, statuses map[string]models.StoreStatus) ProductListing {
	return ProductListing{
		Product:     p,
		Image:       p.Image(),
		Category:    p.CategoryOrDefault(),
		StoreStatus: EffectiveStatus(p, statuses),
	}
}
