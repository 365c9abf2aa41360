package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"industrial-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catalogFactory returns an empty store. Backends that share state between
// calls (a database) must reset it before returning.
type catalogFactory func(t *testing.T) CatalogStore

func boolPtr(b bool) *bool { return &b }

func int64Ptr(v int64) *int64 { return &v }

func seedCategories(t *testing.T, store CatalogStore, n int) []domain.Category {
	t.Helper()
	ctx := context.Background()

	categories := make([]domain.Category, 0, n)
	for i := 1; i <= n; i++ {
		c, err := store.AddCategory(ctx, domain.CategoryInput{
			Name:        fmt.Sprintf("Category %d", i),
			Image:       fmt.Sprintf("https://img.example.com/c%d.png", i),
			Description: fmt.Sprintf("Category number %d", i),
		})
		require.NoError(t, err)
		categories = append(categories, *c)
	}
	return categories
}

func sampleProduct(name string, categoryID int64) domain.NewProduct {
	return domain.NewProduct{
		Name:        name,
		Description: "Professional grade " + name,
		Image:       "https://img.example.com/p.png",
		Price:       4999,
		CategoryID:  categoryID,
		SKU:         "SKU-" + name,
	}
}

// runCatalogContract exercises the behavior every CatalogStore backend must share
func runCatalogContract(t *testing.T, newStore catalogFactory) {
	ctx := context.Background()

	t.Run("paging and search over seeded catalog", func(t *testing.T) {
		store := newStore(t)
		cats := seedCategories(t, store, 3)

		p1, err := store.AddProduct(ctx, domain.NewProduct{
			Name:        "Industrial Drill Press",
			Description: "Heavy-duty drill press with variable speed control",
			Image:       "https://img.example.com/drill.png",
			Price:       129999,
			CategoryID:  cats[0].ID,
			SKU:         "DP-1001",
		})
		require.NoError(t, err)
		p2, err := store.AddProduct(ctx, sampleProduct("Safety Goggles", cats[1].ID))
		require.NoError(t, err)
		p3, err := store.AddProduct(ctx, sampleProduct("Digital Caliper", cats[2].ID))
		require.NoError(t, err)

		first, err := store.GetProductsPage(ctx, 1, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, first.Total)
		require.Len(t, first.Products, 2)
		assert.Equal(t, p1.ID, first.Products[0].ID)
		assert.Equal(t, p2.ID, first.Products[1].ID)

		second, err := store.GetProductsPage(ctx, 2, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, second.Total)
		require.Len(t, second.Products, 1)
		assert.Equal(t, p3.ID, second.Products[0].ID)

		beyond, err := store.GetProductsPage(ctx, 5, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, beyond.Total)
		assert.Empty(t, beyond.Products)

		huge, err := store.GetProductsPage(ctx, math.MaxInt64/4+2, 4, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, huge.Total)
		assert.Empty(t, huge.Products)

		filtered, err := store.GetProductsPage(ctx, 1, 10, &cats[1].ID)
		require.NoError(t, err)
		assert.Equal(t, 1, filtered.Total)
		require.Len(t, filtered.Products, 1)
		assert.Equal(t, p2.ID, filtered.Products[0].ID)

		found, err := store.SearchProducts(ctx, "DRILL")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, p1.ID, found[0].ID)

		all, err := store.SearchProducts(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		literal, err := store.SearchProducts(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, literal)
	})

	t.Run("delete category in use", func(t *testing.T) {
		store := newStore(t)
		cats := seedCategories(t, store, 2)

		p, err := store.AddProduct(ctx, sampleProduct("Bolt", cats[0].ID))
		require.NoError(t, err)

		deleted, err := store.DeleteCategory(ctx, cats[0].ID)
		assert.ErrorIs(t, err, ErrCategoryInUse)
		assert.False(t, deleted)

		removed, err := store.DeleteProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		deleted, err = store.DeleteCategory(ctx, cats[0].ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		remaining, err := store.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, cats[1].ID, remaining[0].ID)

		deleted, err = store.DeleteCategory(ctx, cats[0].ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("add product applies defaults", func(t *testing.T) {
		store := newStore(t)
		cats := seedCategories(t, store, 1)

		p, err := store.AddProduct(ctx, sampleProduct("Anchor", cats[0].ID))
		require.NoError(t, err)
		assert.True(t, p.InStock)
		assert.NotNil(t, p.Specifications)
		assert.Empty(t, p.Specifications)
		assert.NotNil(t, p.Variants)
		assert.Empty(t, p.Variants)

		in := sampleProduct("Clamp", cats[0].ID)
		in.InStock = boolPtr(false)
		in.Specifications = []string{"1.5 HP Motor", `0.001" Resolution`, "a,b {c}"}
		in.Variants = []string{`[{"id":"v1","name":"Red","image":"https://img.example.com/red.png"}]`}
		q, err := store.AddProduct(ctx, in)
		require.NoError(t, err)

		got, ok, err := store.GetProduct(ctx, q.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, *q, *got)
		assert.False(t, got.InStock)
		assert.Equal(t, in.Specifications, got.Specifications)
		assert.Equal(t, in.Variants, got.Variants)

		_, ok, err = store.GetProduct(ctx, q.ID+1000)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("update replaces all fields", func(t *testing.T) {
		store := newStore(t)
		cats := seedCategories(t, store, 2)

		updated, ok, err := store.UpdateCategory(ctx, cats[0].ID, domain.CategoryInput{
			Name:        "Fasteners",
			Image:       "https://img.example.com/fasteners.png",
			Description: "Industrial fasteners and hardware",
		})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, cats[0].ID, updated.ID)

		got, ok, err := store.GetCategory(ctx, cats[0].ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, *updated, *got)

		_, ok, err = store.UpdateCategory(ctx, cats[1].ID+1000, domain.CategoryInput{Name: "x"})
		require.NoError(t, err)
		assert.False(t, ok)

		p, err := store.AddProduct(ctx, sampleProduct("Washer", cats[0].ID))
		require.NoError(t, err)

		replacement := sampleProduct("Lock Washer", cats[1].ID)
		replacement.Price = 199
		up, ok, err := store.UpdateProduct(ctx, p.ID, replacement)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, p.ID, up.ID)
		assert.Equal(t, "Lock Washer", up.Name)
		assert.Equal(t, cats[1].ID, up.CategoryID)

		list, err := store.ListProducts(ctx, &cats[0].ID)
		require.NoError(t, err)
		assert.Empty(t, list)

		_, ok, err = store.UpdateProduct(ctx, p.ID+1000, replacement)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete missing product reports false", func(t *testing.T) {
		store := newStore(t)
		removed, err := store.DeleteProduct(ctx, 424242)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

// runCatalogProperties checks the listing invariants over generated catalogs
func runCatalogProperties(t *testing.T, newStore catalogFactory) {
	ctx := context.Background()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	parameters.MaxSize = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("category filter is the ordered matching subset", prop.ForAll(
		func(picks []int) bool {
			store := newStore(t)
			cats := seedCategories(t, store, 3)
			for i, pick := range picks {
				if _, err := store.AddProduct(ctx, sampleProduct(fmt.Sprintf("P%d", i), cats[pick].ID)); err != nil {
					return false
				}
			}

			all, err := store.ListProducts(ctx, nil)
			if err != nil || len(all) != len(picks) {
				return false
			}

			for _, c := range cats {
				filtered, err := store.ListProducts(ctx, &c.ID)
				if err != nil {
					return false
				}
				j := 0
				for _, p := range all {
					if p.CategoryID != c.ID {
						continue
					}
					if j >= len(filtered) || filtered[j].ID != p.ID {
						return false
					}
					j++
				}
				if j != len(filtered) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.Property("page size follows min(limit, max(0, T-(page-1)*limit))", prop.ForAll(
		func(n int, page int, limit int) bool {
			store := newStore(t)
			cats := seedCategories(t, store, 1)
			for i := 0; i < n; i++ {
				if _, err := store.AddProduct(ctx, sampleProduct(fmt.Sprintf("P%d", i), cats[0].ID)); err != nil {
					return false
				}
			}

			result, err := store.GetProductsPage(ctx, page, limit, &cats[0].ID)
			if err != nil {
				return false
			}

			want := max(0, min(limit, n-(page-1)*limit))
			return result.Total == n && len(result.Products) == want
		},
		gen.IntRange(0, 15),
		gen.IntRange(1, 6),
		gen.IntRange(1, 5),
	))

	properties.Property("added products never reuse an id", prop.ForAll(
		func(ops []bool) bool {
			store := newStore(t)
			cats := seedCategories(t, store, 1)
			seen := map[int64]bool{}
			var last int64

			for i, add := range ops {
				if add || last == 0 {
					p, err := store.AddProduct(ctx, sampleProduct(fmt.Sprintf("P%d", i), cats[0].ID))
					if err != nil || seen[p.ID] {
						return false
					}
					seen[p.ID] = true
					last = p.ID
					continue
				}
				if _, err := store.DeleteProduct(ctx, last); err != nil {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.Property("categories with products cannot be deleted", prop.ForAll(
		func(refs int) bool {
			store := newStore(t)
			cats := seedCategories(t, store, 1)
			for i := 0; i < refs; i++ {
				if _, err := store.AddProduct(ctx, sampleProduct(fmt.Sprintf("P%d", i), cats[0].ID)); err != nil {
					return false
				}
			}

			deleted, err := store.DeleteCategory(ctx, cats[0].ID)
			if refs > 0 {
				return !deleted && errors.Is(err, ErrCategoryInUse)
			}
			return deleted && err == nil
		},
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// runUserContract exercises the behavior every UserRepository backend must share
func runUserContract(t *testing.T, repo UserRepository) {
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, domain.NewUser{Username: "alice", Password: "hash.salt"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)

	admin, err := repo.CreateUser(ctx, domain.NewUser{Username: "root", Password: "hash.salt", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NotEqual(t, user.ID, admin.ID)

	_, err = repo.CreateUser(ctx, domain.NewUser{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	got, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, *user, *got)

	_, err = repo.GetUser(ctx, admin.ID+1000)
	assert.ErrorIs(t, err, ErrUserNotFound)

	byName, ok, err := repo.GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, admin.ID, byName.ID)

	_, ok, err = repo.GetUserByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}
