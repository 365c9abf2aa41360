package domain

// Category represents a product category
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Image       string `json:"image" db:"image"`
	Description string `json:"description" db:"description"`
}

// CategoryInput carries every writable category field. Updates replace all of them.
type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Image       string `json:"image" validate:"required,url"`
	Description string `json:"description" validate:"required"`
}

// Product represents a product in the catalog.
//
// Variants holds the stored, encoded form of the product variants (a text
// array with zero or one element). Use the variants package to read it.
type Product struct {
	ID             int64    `json:"id" db:"id"`
	Name           string   `json:"name" db:"name"`
	Description    string   `json:"description" db:"description"`
	Image          string   `json:"image" db:"image"`
	Price          int64    `json:"price" db:"price"` // minor currency units
	CategoryID     int64    `json:"categoryId" db:"category_id"`
	SKU            string   `json:"sku" db:"sku"`
	InStock        bool     `json:"inStock" db:"in_stock"`
	Specifications []string `json:"specifications" db:"specifications"`
	Variants       []string `json:"variants" db:"variants"`
}

// NewProduct carries the fields of a product to insert or replace.
// A nil InStock means "in stock".
type NewProduct struct {
	Name           string
	Description    string
	Image          string
	Price          int64
	CategoryID     int64
	SKU            string
	InStock        *bool
	Specifications []string
	Variants       []string
}

// ProductVariant is one variant of a product. Variants are not stored as rows;
// they live encoded inside Product.Variants.
type ProductVariant struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Image string `json:"image" validate:"required,url"`
}

// ProductInput is the admin-facing shape of a product create or replace,
// with variants in decoded form.
type ProductInput struct {
	Name           string           `json:"name" validate:"required"`
	Description    string           `json:"description" validate:"required"`
	Image          string           `json:"image" validate:"required,url"`
	Price          int64            `json:"price" validate:"gte=0"`
	CategoryID     int64            `json:"categoryId" validate:"required,gt=0"`
	SKU            string           `json:"sku" validate:"required"`
	InStock        *bool            `json:"inStock"`
	Specifications []string         `json:"specifications"`
	Variants       []ProductVariant `json:"variants" validate:"dive"`
}

// ProductsPage is one page of a filtered product listing.
// Total is the size of the filtered collection, not of the page.
type ProductsPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
