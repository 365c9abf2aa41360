// Package catalog holds the pure filtering and pagination rules shared by
// every catalog backend and by the browse endpoint.
package catalog

import (
	"strings"

	"industrial-catalog/internal/domain"
)

// Query describes one browse request
type Query struct {
	Page       int
	Limit      int
	CategoryID *int64
	Search     string
}

// HasSearch reports whether the query carries a search term.
func (q Query) HasSearch() bool {
	return q.Search != ""
}

// FilterByCategory keeps the products of the given category in their original
// order. A nil categoryID keeps everything.
func FilterByCategory(products []domain.Product, categoryID *int64) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if categoryID == nil || p.CategoryID == *categoryID {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Matches reports whether the product name or description contains query,
// ignoring case. The empty query matches every product.
func Matches(p domain.Product, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// Search keeps the products matching query in their original order.
func Search(products []domain.Product, query string) []domain.Product {
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, query) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Window returns the [start, end) bounds of page within total items. ok is
// false for a page past the end or a non-positive page or limit. The page
// count is compared before any multiplication, so huge pages cannot overflow.
func Window(total, page, limit int) (start, end int, ok bool) {
	if page < 1 || limit < 1 || total < 1 {
		return 0, 0, false
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	if page > pages {
		return 0, 0, false
	}

	start = (page - 1) * limit
	end = total
	if limit < total-start {
		end = start + limit
	}
	return start, end, true
}

// Paginate returns the [(page-1)*limit, page*limit) window of products.
// Values are not clamped: a page past the end, or a non-positive page or
// limit, yields no products. Total is always len(products).
func Paginate(products []domain.Product, page, limit int) domain.ProductsPage {
	result := domain.ProductsPage{
		Products: []domain.Product{},
		Total:    len(products),
	}

	start, end, ok := Window(len(products), page, limit)
	if !ok {
		return result
	}

	result.Products = append(result.Products, products[start:end]...)
	return result
}

// Browse applies the category filter, then either the search or the page
// window. When a search term is present the page window is not applied: the
// full match set comes back as a single page with Total equal to the number
// of matches. Clients rely on that behavior, so it is kept as is.
func Browse(products []domain.Product, q Query) domain.ProductsPage {
	filtered := FilterByCategory(products, q.CategoryID)

	if q.HasSearch() {
		matched := Search(filtered, q.Search)
		return domain.ProductsPage{Products: matched, Total: len(matched)}
	}

	return Paginate(filtered, q.Page, q.Limit)
}
