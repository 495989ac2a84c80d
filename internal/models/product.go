package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryUncategorized is used for products created without a category.
const CategoryUncategorized = "Uncategorized"

// DefaultImageURL is shown for products without an image.
const DefaultImageURL = "https://images.pexels.com/photos/4199091/pexels-photo-4199091.jpeg?auto=compress&cs=tinysrgb&w=600"

// Categories is the fixed set a shopkeeper can file a product under.
var Categories = []string{"Fruits", "Vegetables", "Snacks", "Milk & Dairy", "Drinks"}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Product represents an item listed by a shopkeeper. Products are never edited after creation.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	AddedByID   string          `json:"added_by_id"`
	AddedByName string          `json:"added_by_name"` // captured at creation
}

// Image returns the product image, falling back to DefaultImageURL when blank.
func (p Product) Image() string {
	if strings.TrimSpace(p.ImageURL) == "" {
		return DefaultImageURL
	}
	return p.ImageURL
}

// CategoryOrDefault returns the category, or CategoryUncategorized when blank.
func (p Product) CategoryOrDefault() string {
	if p.Category == "" {
		return CategoryUncategorized
	}
	return p.Category
}
