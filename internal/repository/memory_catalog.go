package repository

import (
	"context"
	"maps"
	"slices"
	"sync"

	"industrial-catalog/internal/catalog"
	"industrial-catalog/internal/domain"
)

// memoryCatalogStore keeps the catalog in process memory. Every mutation holds
// the write lock for its whole read-check-write sequence.
type memoryCatalogStore struct {
	mu             sync.RWMutex
	categories     map[int64]domain.Category
	products       map[int64]domain.Product
	lastCategoryID int64
	lastProductID  int64
}

// NewMemoryCatalogStore creates an empty in-memory CatalogStore
func NewMemoryCatalogStore() CatalogStore {
	return &memoryCatalogStore{
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
	}
}

func (s *memoryCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, id := range slices.Sorted(maps.Keys(s.categories)) {
		categories = append(categories, s.categories[id])
	}
	return categories, nil
}

func (s *memoryCatalogStore) GetCategory(ctx context.Context, id int64) (*domain.Category, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, false, nil
	}
	return &category, true, nil
}

func (s *memoryCatalogStore) AddCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCategoryID++
	category := domain.Category{
		ID:          s.lastCategoryID,
		Name:        in.Name,
		Image:       in.Image,
		Description: in.Description,
	}
	s.categories[category.ID] = category

	return &category, nil
}

func (s *memoryCatalogStore) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return nil, false, nil
	}

	category := domain.Category{
		ID:          id,
		Name:        in.Name,
		Image:       in.Image,
		Description: in.Description,
	}
	s.categories[id] = category

	return &category, true, nil
}

func (s *memoryCatalogStore) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return false, nil
	}

	for _, p := range s.products {
		if p.CategoryID == id {
			return false, ErrCategoryInUse
		}
	}

	delete(s.categories, id)
	return true, nil
}

func (s *memoryCatalogStore) ListProducts(ctx context.Context, categoryID *int64) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return catalog.FilterByCategory(s.sortedProducts(), categoryID), nil
}

func (s *memoryCatalogStore) GetProduct(ctx context.Context, id int64) (*domain.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, false, nil
	}
	product = cloneProduct(product)
	return &product, true, nil
}

func (s *memoryCatalogStore) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return catalog.Search(s.sortedProducts(), query), nil
}

func (s *memoryCatalogStore) AddProduct(ctx context.Context, in domain.NewProduct) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastProductID++
	product := newProductRecord(s.lastProductID, in)
	s.products[product.ID] = product

	product = cloneProduct(product)
	return &product, nil
}

func (s *memoryCatalogStore) UpdateProduct(ctx context.Context, id int64, in domain.NewProduct) (*domain.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return nil, false, nil
	}

	product := newProductRecord(id, in)
	s.products[id] = product

	product = cloneProduct(product)
	return &product, true, nil
}

func (s *memoryCatalogStore) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

func (s *memoryCatalogStore) GetProductsPage(ctx context.Context, page, limit int, categoryID *int64) (domain.ProductsPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return catalog.Paginate(catalog.FilterByCategory(s.sortedProducts(), categoryID), page, limit), nil
}

// sortedProducts returns copies of all products by id ascending. Callers must hold mu.
func (s *memoryCatalogStore) sortedProducts() []domain.Product {
	products := make([]domain.Product, 0, len(s.products))
	for _, id := range slices.Sorted(maps.Keys(s.products)) {
		products = append(products, cloneProduct(s.products[id]))
	}
	return products
}
