package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmbaye/pricetracker/internal/domain/models"
)

// fakeCatalogRepo mirrors the Mongo adapter's merge-upsert behavior in memory.
type fakeCatalogRepo struct {
	products map[string]models.Product
	stores   map[string]models.Store

	entryProducts map[string]int64 // productID -> dependent entry count
	entryStores   map[string]int64
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		products:      make(map[string]models.Product),
		stores:        make(map[string]models.Store),
		entryProducts: make(map[string]int64),
		entryStores:   make(map[string]int64),
	}
}

func (f *fakeCatalogRepo) UpsertProduct(_ context.Context, p models.Product) error {
	if existing, ok := f.products[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeCatalogRepo) ListProducts(_ context.Context, userID, category string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.UserID == userID && (category == "" || p.Category == category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetProduct(_ context.Context, id, userID string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok || p.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCatalogRepo) UpdateProduct(_ context.Context, id, userID string, in models.UpdateProductInput) error {
	p, ok := f.products[id]
	if !ok || p.UserID != userID {
		return models.ErrNotFound
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.DefaultUnit != "" {
		p.DefaultUnit = in.DefaultUnit
	}
	f.products[id] = p
	return nil
}

func (f *fakeCatalogRepo) DeleteProduct(_ context.Context, id, userID string) error {
	p, ok := f.products[id]
	if !ok || p.UserID != userID {
		return models.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalogRepo) CountProducts(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, p := range f.products {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCatalogRepo) UpsertStore(_ context.Context, s models.Store) error {
	if existing, ok := f.stores[s.ID]; ok {
		s.CreatedAt = existing.CreatedAt
	}
	f.stores[s.ID] = s
	return nil
}

func (f *fakeCatalogRepo) ListStores(_ context.Context, userID, location string) ([]models.Store, error) {
	var out []models.Store
	for _, s := range f.stores {
		if s.UserID == userID && (location == "" || s.Location == location) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetStore(_ context.Context, id, userID string) (*models.Store, error) {
	s, ok := f.stores[id]
	if !ok || s.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (f *fakeCatalogRepo) UpdateStore(_ context.Context, id, userID string, in models.UpdateStoreInput) error {
	s, ok := f.stores[id]
	if !ok || s.UserID != userID {
		return models.ErrNotFound
	}
	if in.Location != "" {
		s.Location = in.Location
	}
	f.stores[id] = s
	return nil
}

func (f *fakeCatalogRepo) DeleteStore(_ context.Context, id, userID string) error {
	s, ok := f.stores[id]
	if !ok || s.UserID != userID {
		return models.ErrNotFound
	}
	delete(f.stores, id)
	return nil
}

func (f *fakeCatalogRepo) CountStores(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, s := range f.stores {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCatalogRepo) DeleteEntriesByProduct(_ context.Context, _, productID string) (int64, error) {
	n := f.entryProducts[productID]
	delete(f.entryProducts, productID)
	return n, nil
}

func (f *fakeCatalogRepo) DeleteEntriesByStore(_ context.Context, _, storeID string) (int64, error) {
	n := f.entryStores[storeID]
	delete(f.entryStores, storeID)
	return n, nil
}

func newTestManager(repo *fakeCatalogRepo) *Service {
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestEntityKeyNormalizesName(t *testing.T) {
	assert.Equal(t, "user-1_apple", EntityKey("user-1", "Apple"))
	assert.Equal(t, "user-1_apple", EntityKey("user-1", "  APPLE  "))
	assert.Equal(t, "user-2_apple", EntityKey("user-2", "apple"))
}

func TestAddProductValidation(t *testing.T) {
	svc := newTestManager(newFakeCatalogRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		in   models.CreateProductInput
	}{
		{"blank name", models.CreateProductInput{Name: "  ", Category: "Fruits", DefaultUnit: "per lb"}},
		{"blank category", models.CreateProductInput{Name: "Apple", DefaultUnit: "per lb"}},
		{"blank unit", models.CreateProductInput{Name: "Apple", Category: "Fruits"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddProduct(ctx, "user-1", tt.in)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

// Adding twice with the same normalized name must yield one entity carrying
// the second call's attributes.
func TestAddProductIdempotentUpsert(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newTestManager(repo)
	ctx := context.Background()

	first, err := svc.AddProduct(ctx, "user-1", models.CreateProductInput{
		Name: "Apple", Category: "Fruits", DefaultUnit: "per lb",
	})
	require.NoError(t, err)

	second, err := svc.AddProduct(ctx, "user-1", models.CreateProductInput{
		Name: "  apple ", Category: "Produce", DefaultUnit: "per kg",
	})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, repo.products, 1)

	product := repo.products[first]
	assert.Equal(t, "Produce", product.Category)
	assert.Equal(t, "per kg", product.DefaultUnit)
}

func TestAddStoreIdempotentUpsert(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newTestManager(repo)
	ctx := context.Background()

	first, err := svc.AddStore(ctx, "user-1", models.CreateStoreInput{
		Name: "SuperMart", Location: "Old Address",
	})
	require.NoError(t, err)

	second, err := svc.AddStore(ctx, "user-1", models.CreateStoreInput{
		Name: "supermart", Location: "New Address",
	})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, repo.stores, 1)
	assert.Equal(t, "New Address", repo.stores[first].Location)
}

func TestRemoveProductCascades(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newTestManager(repo)
	ctx := context.Background()

	id, err := svc.AddProduct(ctx, "user-1", models.CreateProductInput{
		Name: "Apple", Category: "Fruits", DefaultUnit: "per lb",
	})
	require.NoError(t, err)
	repo.entryProducts[id] = 3

	require.NoError(t, svc.RemoveProduct(ctx, id, "user-1"))

	assert.Empty(t, repo.products)
	assert.Empty(t, repo.entryProducts, "cascade must leave no orphaned observations")
}

func TestRemoveProductMissing(t *testing.T) {
	svc := newTestManager(newFakeCatalogRepo())

	err := svc.RemoveProduct(context.Background(), "user-1_apple", "user-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemoveProductOtherUser(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newTestManager(repo)
	ctx := context.Background()

	id, err := svc.AddProduct(ctx, "user-1", models.CreateProductInput{
		Name: "Apple", Category: "Fruits", DefaultUnit: "per lb",
	})
	require.NoError(t, err)

	err = svc.RemoveProduct(ctx, id, "user-2")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Len(t, repo.products, 1)
}

func TestRemoveStoreCascades(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newTestManager(repo)
	ctx := context.Background()

	id, err := svc.AddStore(ctx, "user-1", models.CreateStoreInput{
		Name: "SuperMart", Location: "123 Main St",
	})
	require.NoError(t, err)
	repo.entryStores[id] = 2

	require.NoError(t, svc.RemoveStore(ctx, id, "user-1"))

	assert.Empty(t, repo.stores)
	assert.Empty(t, repo.entryStores)
}

func TestBootstrapIfEmpty(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newTestManager(repo)
	ctx := context.Background()

	require.NoError(t, svc.BootstrapIfEmpty(ctx, "user-1"))

	products, err := svc.ListProducts(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, DefaultProductName, products[0].Name)
	assert.Equal(t, DefaultProductCategory, products[0].Category)

	stores, err := svc.ListStores(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, DefaultStoreName, stores[0].Name)

	// Re-running must not duplicate anything.
	require.NoError(t, svc.BootstrapIfEmpty(ctx, "user-1"))
	products, err = svc.ListProducts(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Len(t, products, 1)
	stores, err = svc.ListStores(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Len(t, stores, 1)
}

func TestBootstrapSkipsNonEmptyCatalog(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newTestManager(repo)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "user-1", models.CreateProductInput{
		Name: "Milk", Category: "Dairy", DefaultUnit: "per gallon",
	})
	require.NoError(t, err)

	require.NoError(t, svc.BootstrapIfEmpty(ctx, "user-1"))

	products, err := svc.ListProducts(ctx, "user-1", "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Milk", products[0].Name)

	// Stores were empty, so the default store still gets seeded.
	stores, err := svc.ListStores(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Len(t, stores, 1)
}
