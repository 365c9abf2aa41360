package repository

import (
	"context"
	"database/sql"
	"errors"

	"industrial-catalog/internal/domain"
)

// postgresCatalogStore implements CatalogStore on PostgreSQL. The product
// operations live in product_repository.go.
type postgresCatalogStore struct {
	db *sql.DB
}

// NewPostgresCatalogStore creates a CatalogStore backed by PostgreSQL
func NewPostgresCatalogStore(db *sql.DB) CatalogStore {
	return &postgresCatalogStore{db: db}
}

// ListCategories retrieves all categories by id
func (r *postgresCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, name, image, description
		FROM categories
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, backendError("list categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Image,
			&category.Description,
		)
		if err != nil {
			return nil, backendError("scan category", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, backendError("iterate categories", err)
	}

	return categories, nil
}

// GetCategory retrieves a category by ID using parameterized queries
func (r *postgresCatalogStore) GetCategory(ctx context.Context, id int64) (*domain.Category, bool, error) {
	query := `
		SELECT id, name, image, description
		FROM categories
		WHERE id = $1
	`

	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Image,
		&category.Description,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, backendError("find category by ID", err)
	}

	return category, true, nil
}

// AddCategory inserts a new category and returns it with its assigned id
func (r *postgresCatalogStore) AddCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	query := `
		INSERT INTO categories (name, image, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	category := &domain.Category{
		Name:        in.Name,
		Image:       in.Image,
		Description: in.Description,
	}

	err := r.db.QueryRowContext(ctx, query, in.Name, in.Image, in.Description).Scan(&category.ID)
	if err != nil {
		return nil, backendError("create category", err)
	}

	return category, nil
}

// UpdateCategory replaces every field of an existing category
func (r *postgresCatalogStore) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, bool, error) {
	query := `
		UPDATE categories
		SET name = $2, image = $3, description = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, in.Name, in.Image, in.Description)
	if err != nil {
		return nil, false, backendError("update category", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, backendError("get rows affected", err)
	}

	if rowsAffected == 0 {
		return nil, false, nil
	}

	return &domain.Category{
		ID:          id,
		Name:        in.Name,
		Image:       in.Image,
		Description: in.Description,
	}, true, nil
}

// DeleteCategory removes a category that no product references. The
// reference check and the delete are one statement; the products foreign key
// catches a product inserted concurrently.
func (r *postgresCatalogStore) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM categories
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM products WHERE category_id = $1)
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrCategoryInUse
		}
		return false, backendError("delete category", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, backendError("get rows affected", err)
	}

	if rowsAffected == 1 {
		return true, nil
	}

	// Nothing deleted: either the category is missing or it is still referenced
	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, backendError("check category", err)
	}

	if exists {
		return false, ErrCategoryInUse
	}
	return false, nil
}
