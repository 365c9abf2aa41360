package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"industrial-catalog/internal/catalog"
	"industrial-catalog/internal/domain"

	"github.com/lib/pq"
)

const productColumns = `id, name, description, image, price, category_id, sku, in_stock, specifications, variants`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Image,
		&product.Price,
		&product.CategoryID,
		&product.SKU,
		&product.InStock,
		pq.Array(&product.Specifications),
		pq.Array(&product.Variants),
	)
	if err != nil {
		return domain.Product{}, err
	}

	// NULL arrays read back as empty, matching what AddProduct stores
	if product.Specifications == nil {
		product.Specifications = []string{}
	}
	if product.Variants == nil {
		product.Variants = []string{}
	}

	return product, nil
}

func (r *postgresCatalogStore) queryProducts(ctx context.Context, op, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, backendError(op, err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, backendError("scan product", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, backendError("iterate products", err)
	}

	return products, nil
}

// categoryFilter builds the optional WHERE clause shared by listing and paging
func categoryFilter(categoryID *int64) (string, []any) {
	if categoryID == nil {
		return "", nil
	}
	return "WHERE category_id = $1", []any{*categoryID}
}

// ListProducts retrieves products by id, optionally restricted to one category
func (r *postgresCatalogStore) ListProducts(ctx context.Context, categoryID *int64) ([]domain.Product, error) {
	whereClause, args := categoryFilter(categoryID)
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY id ASC
	`, productColumns, whereClause)

	return r.queryProducts(ctx, "list products", query, args...)
}

// GetProduct retrieves a product by ID using parameterized queries
func (r *postgresCatalogStore) GetProduct(ctx context.Context, id int64) (*domain.Product, bool, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = $1
	`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, backendError("find product by ID", err)
	}

	return &product, true, nil
}

// likePattern turns a search term into an ILIKE substring pattern, escaping
// the LIKE wildcards so they match literally.
func likePattern(query string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(query) + "%"
}

// SearchProducts finds products whose name or description contains query, ignoring case
func (r *postgresCatalogStore) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	searchQuery := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY id ASC
	`, productColumns)

	return r.queryProducts(ctx, "search products", searchQuery, likePattern(query))
}

// AddProduct inserts a new product and returns the stored record
func (r *postgresCatalogStore) AddProduct(ctx context.Context, in domain.NewProduct) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, description, image, price, category_id, sku, in_stock, specifications, variants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	product := newProductRecord(0, in)
	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Image,
		product.Price,
		product.CategoryID,
		product.SKU,
		product.InStock,
		pq.Array(product.Specifications),
		pq.Array(product.Variants),
	).Scan(&product.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUnknownCategory
		}
		return nil, backendError("create product", err)
	}

	return &product, nil
}

// UpdateProduct replaces every field of an existing product
func (r *postgresCatalogStore) UpdateProduct(ctx context.Context, id int64, in domain.NewProduct) (*domain.Product, bool, error) {
	query := `
		UPDATE products
		SET name = $2, description = $3, image = $4, price = $5, category_id = $6,
		    sku = $7, in_stock = $8, specifications = $9, variants = $10
		WHERE id = $1
	`

	product := newProductRecord(id, in)
	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Image,
		product.Price,
		product.CategoryID,
		product.SKU,
		product.InStock,
		pq.Array(product.Specifications),
		pq.Array(product.Variants),
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, false, ErrUnknownCategory
		}
		return nil, false, backendError("update product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, backendError("get rows affected", err)
	}

	if rowsAffected == 0 {
		return nil, false, nil
	}

	return &product, true, nil
}

// DeleteProduct removes a product using parameterized queries
func (r *postgresCatalogStore) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, backendError("delete product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, backendError("get rows affected", err)
	}

	return rowsAffected > 0, nil
}

// GetProductsPage counts the filtered products and fetches one LIMIT/OFFSET window
func (r *postgresCatalogStore) GetProductsPage(ctx context.Context, page, limit int, categoryID *int64) (domain.ProductsPage, error) {
	whereClause, args := categoryFilter(categoryID)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return domain.ProductsPage{}, backendError("count products", err)
	}

	result := domain.ProductsPage{Products: []domain.Product{}, Total: total}

	offset, _, ok := catalog.Window(total, page, limit)
	if !ok {
		return result, nil
	}

	argIndex := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)

	args = append(args, limit, offset)

	products, err := r.queryProducts(ctx, "list products page", query, args...)
	if err != nil {
		return domain.ProductsPage{}, err
	}

	result.Products = products
	return result, nil
}
