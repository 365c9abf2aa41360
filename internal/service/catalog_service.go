package service

import (
	"context"
	"errors"
	"fmt"

	"industrial-catalog/internal/catalog"
	"industrial-catalog/internal/domain"
	"industrial-catalog/internal/repository"
	"industrial-catalog/internal/variants"
)

var ErrDuplicateVariantID = errors.New("variant ids must be unique within a product")

// ProductView is a product as exposed to clients, with its variants decoded
type ProductView struct {
	domain.Product
	Variants []domain.ProductVariant `json:"variants"`
}

// ProductListing is one page of browse results
type ProductListing struct {
	Products []ProductView `json:"products"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	// Browse lists products. A search term returns every match in one
	// listing and ignores page and limit.
	Browse(ctx context.Context, q catalog.Query) (*ProductListing, error)
	GetProduct(ctx context.Context, id int64) (*ProductView, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*ProductView, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*ProductView, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type catalogService struct {
	store repository.CatalogStore
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(store repository.CatalogStore) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, ok, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	category, err := s.store.AddCategory(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	category, ok, err := s.store.UpdateCategory(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	removed, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if !removed {
		return repository.ErrCategoryNotFound
	}
	return nil
}

// Browse serves the search path from SearchProducts and every other listing
// from GetProductsPage. A search result is one page holding every match, so
// the listing reports page 1 with a limit equal to the match count rather
// than echoing the requested window.
func (s *catalogService) Browse(ctx context.Context, q catalog.Query) (*ProductListing, error) {
	var page domain.ProductsPage
	pageNum, limit := q.Page, q.Limit

	if q.HasSearch() {
		matches, err := s.store.SearchProducts(ctx, q.Search)
		if err != nil {
			return nil, fmt.Errorf("failed to search products: %w", err)
		}
		page = catalog.Browse(matches, q)
		pageNum, limit = 1, page.Total
	} else {
		var err error
		page, err = s.store.GetProductsPage(ctx, q.Page, q.Limit, q.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
	}

	views, err := toViews(page.Products)
	if err != nil {
		return nil, err
	}

	return &ProductListing{
		Products: views,
		Total:    page.Total,
		Page:     pageNum,
		Limit:    limit,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*ProductView, error) {
	product, ok, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return toView(*product)
}

func (s *catalogService) CreateProduct(ctx context.Context, in domain.ProductInput) (*ProductView, error) {
	record, err := s.prepareProduct(ctx, in)
	if err != nil {
		return nil, err
	}

	product, err := s.store.AddProduct(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toView(*product)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*ProductView, error) {
	record, err := s.prepareProduct(ctx, in)
	if err != nil {
		return nil, err
	}

	product, ok, err := s.store.UpdateProduct(ctx, id, record)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return toView(*product)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	removed, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !removed {
		return repository.ErrProductNotFound
	}
	return nil
}

// prepareProduct checks the category reference and encodes the variants.
// The memory backend does not enforce the reference itself.
func (s *catalogService) prepareProduct(ctx context.Context, in domain.ProductInput) (domain.NewProduct, error) {
	seen := make(map[string]struct{}, len(in.Variants))
	for _, v := range in.Variants {
		if _, dup := seen[v.ID]; dup {
			return domain.NewProduct{}, fmt.Errorf("%w: %q", ErrDuplicateVariantID, v.ID)
		}
		seen[v.ID] = struct{}{}
	}

	_, ok, err := s.store.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return domain.NewProduct{}, fmt.Errorf("failed to check category: %w", err)
	}
	if !ok {
		return domain.NewProduct{}, repository.ErrUnknownCategory
	}

	column, err := variants.EncodeColumn(in.Variants)
	if err != nil {
		return domain.NewProduct{}, err
	}

	return domain.NewProduct{
		Name:           in.Name,
		Description:    in.Description,
		Image:          in.Image,
		Price:          in.Price,
		CategoryID:     in.CategoryID,
		SKU:            in.SKU,
		InStock:        in.InStock,
		Specifications: in.Specifications,
		Variants:       column,
	}, nil
}

func toView(p domain.Product) (*ProductView, error) {
	decoded, err := variants.DecodeColumn(p.Variants)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", p.ID, err)
	}
	if p.Specifications == nil {
		p.Specifications = []string{}
	}
	return &ProductView{Product: p, Variants: decoded}, nil
}

func toViews(products []domain.Product) ([]ProductView, error) {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		view, err := toView(p)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
