package repository

import (
	"context"
	"errors"
	"fmt"

	"industrial-catalog/internal/domain"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryInUse      = errors.New("category is referenced by products")
	ErrUnknownCategory    = errors.New("product references an unknown category")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// CatalogStore owns category and product records.
//
// Lookups of a single product or category report absence through the bool
// result rather than an error. Listings are ordered by id ascending, which is
// insertion order since ids only grow.
type CatalogStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, bool, error)
	AddCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, bool, error)
	// DeleteCategory fails with ErrCategoryInUse while any product references id.
	DeleteCategory(ctx context.Context, id int64) (bool, error)

	ListProducts(ctx context.Context, categoryID *int64) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, bool, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	AddProduct(ctx context.Context, in domain.NewProduct) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in domain.NewProduct) (*domain.Product, bool, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)
	GetProductsPage(ctx context.Context, page, limit int, categoryID *int64) (domain.ProductsPage, error)
}

// BackendError reports a failure of the storage backend itself. It matches
// ErrBackendUnavailable and still unwraps to the driver error.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() []error {
	return []error{ErrBackendUnavailable, e.Err}
}

func backendError(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}

// newProductRecord applies the insert defaults: empty specifications and
// variants, and in stock unless stated otherwise.
func newProductRecord(id int64, in domain.NewProduct) domain.Product {
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}

	return domain.Product{
		ID:             id,
		Name:           in.Name,
		Description:    in.Description,
		Image:          in.Image,
		Price:          in.Price,
		CategoryID:     in.CategoryID,
		SKU:            in.SKU,
		InStock:        inStock,
		Specifications: cloneStrings(in.Specifications),
		Variants:       cloneStrings(in.Variants),
	}
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneProduct(p domain.Product) domain.Product {
	p.Specifications = cloneStrings(p.Specifications)
	p.Variants = cloneStrings(p.Variants)
	return p
}
