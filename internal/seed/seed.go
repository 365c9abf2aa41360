// Package seed loads the starter industrial catalog into an empty store.
package seed

import (
	"context"
	"fmt"

	"industrial-catalog/internal/domain"
	"industrial-catalog/internal/repository"

	"go.uber.org/zap"
)

var categories = []domain.CategoryInput{
	{
		Name:        "Power Tools",
		Image:       "https://images.unsplash.com/photo-1549210338-a03623c2bde3",
		Description: "Professional-grade power tools for industrial use",
	},
	{
		Name:        "Safety Equipment",
		Image:       "https://images.unsplash.com/photo-1550199453-ebdcdb13216b",
		Description: "Personal protective equipment and safety gear",
	},
	{
		Name:        "Measurement Tools",
		Image:       "https://images.unsplash.com/photo-1521291410923-42c74153b0f9",
		Description: "Precision measurement and testing equipment",
	},
	{
		Name:        "Fasteners",
		Image:       "https://images.unsplash.com/photo-1563681352142-9a8dcf92a2f1",
		Description: "Industrial fasteners and hardware",
	},
}

// products reference categories by index into the categories slice
var products = []struct {
	category int
	product  domain.NewProduct
}{
	{
		category: 0,
		product: domain.NewProduct{
			Name:           "Industrial Drill Press",
			Description:    "Heavy-duty drill press with variable speed control",
			Image:          "https://images.unsplash.com/photo-1505468726633-0069fc52f4b9",
			Price:          129999,
			SKU:            "DP-1001",
			Specifications: []string{"1.5 HP Motor", "12-Speed", "4-Inch Quill Stroke"},
		},
	},
	{
		category: 1,
		product: domain.NewProduct{
			Name:           "Safety Goggles",
			Description:    "Impact-resistant safety goggles with anti-fog coating",
			Image:          "https://images.unsplash.com/photo-1673201159882-725f2b63dc39",
			Price:          2999,
			SKU:            "SG-2001",
			Specifications: []string{"ANSI Z87.1 Certified", "UV Protection", "Adjustable Strap"},
		},
	},
	{
		category: 2,
		product: domain.NewProduct{
			Name:           "Digital Caliper",
			Description:    "Professional digital caliper with LCD display",
			Image:          "https://images.unsplash.com/photo-1693155257465-f29b58ecadaa",
			Price:          4999,
			SKU:            "DC-3001",
			Specifications: []string{"0-6 Inch Range", `0.001" Resolution`, "IP54 Rated"},
		},
	},
}

// Catalog loads the starter categories and products. It does nothing when
// the store already holds categories, so restarts against a database are safe.
func Catalog(ctx context.Context, store repository.CatalogStore, logger *zap.Logger) error {
	existing, err := store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing categories: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Catalog already populated, skipping seed", zap.Int("categories", len(existing)))
		return nil
	}

	ids := make([]int64, len(categories))
	for i, in := range categories {
		c, err := store.AddCategory(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", in.Name, err)
		}
		ids[i] = c.ID
	}

	for _, p := range products {
		in := p.product
		in.CategoryID = ids[p.category]
		if _, err := store.AddProduct(ctx, in); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", in.Name, err)
		}
	}

	logger.Info("Seeded catalog",
		zap.Int("categories", len(categories)),
		zap.Int("products", len(products)),
	)
	return nil
}
