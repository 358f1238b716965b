package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treadline/backend/internal/domain/catalog"
	"github.com/treadline/backend/internal/domain/shared"
)

type mockProductRepository struct {
	products  map[uuid.UUID]*catalog.Product
	returnErr error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (m *mockProductRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockProductRepository) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	for _, p := range m.products {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockProductRepository) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	result := make([]catalog.Product, 0, len(m.products))
	for _, p := range m.products {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockProductRepository) Save(_ context.Context, product *catalog.Product) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	if m.returnErr != nil {
		return 0, m.returnErr
	}
	return int64(len(m.products)), nil
}

func (m *mockProductRepository) ExistsByCode(_ context.Context, code string) (bool, error) {
	if m.returnErr != nil {
		return false, m.returnErr
	}
	for _, p := range m.products {
		if strings.EqualFold(p.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func TestProductService_Create(t *testing.T) {
	repo := newMockProductRepository()
	service := NewProductService(repo)

	price := decimal.NewFromFloat(129.99)
	resp, err := service.Create(context.Background(), CreateProductRequest{
		Code:      "TIRE-AS-205",
		Name:      "All-Season 205/55R16",
		Kind:      catalog.ProductKindTire,
		TireSize:  "205/55R16",
		ListPrice: &price,
	})

	require.NoError(t, err)
	assert.Equal(t, "TIRE-AS-205", resp.Code)
	assert.Equal(t, catalog.ProductKindTire, resp.Kind)
	assert.Equal(t, "205/55R16", resp.TireSize)
	assert.True(t, resp.ListPrice.Equal(price))
	assert.True(t, resp.Active)
	assert.Len(t, repo.products, 1)
}

func TestProductService_Create_DuplicateCode(t *testing.T) {
	repo := newMockProductRepository()
	service := NewProductService(repo)

	req := CreateProductRequest{
		Code: "TIRE-AS-205",
		Name: "All-Season 205/55R16",
		Kind: catalog.ProductKindTire,
	}

	_, err := service.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = service.Create(context.Background(), req)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestProductService_Update(t *testing.T) {
	repo := newMockProductRepository()
	service := NewProductService(repo)

	created, err := service.Create(context.Background(), CreateProductRequest{
		Code: "RM-RUBBER",
		Name: "Natural Rubber",
		Kind: catalog.ProductKindMaterial,
	})
	require.NoError(t, err)

	newName := "Natural Rubber Compound"
	newPrice := decimal.NewFromInt(42)
	updated, err := service.Update(context.Background(), created.ID, UpdateProductRequest{
		Name:      &newName,
		ListPrice: &newPrice,
	})

	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.True(t, updated.ListPrice.Equal(newPrice))
}

func TestProductService_Update_NotFound(t *testing.T) {
	service := NewProductService(newMockProductRepository())

	name := "x"
	_, err := service.Update(context.Background(), uuid.New(), UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_ActivateDeactivate(t *testing.T) {
	repo := newMockProductRepository()
	service := NewProductService(repo)

	created, err := service.Create(context.Background(), CreateProductRequest{
		Code: "TIRE-WI-225",
		Name: "Winter 225/45R17",
		Kind: catalog.ProductKindTire,
	})
	require.NoError(t, err)

	resp, err := service.Deactivate(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	resp, err = service.Activate(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, resp.Active)
}

func TestProductService_Delete(t *testing.T) {
	repo := newMockProductRepository()
	service := NewProductService(repo)

	created, err := service.Create(context.Background(), CreateProductRequest{
		Code: "TIRE-AS-205",
		Name: "All-Season 205/55R16",
		Kind: catalog.ProductKindTire,
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.products)

	err = service.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_List(t *testing.T) {
	repo := newMockProductRepository()
	service := NewProductService(repo)

	for _, code := range []string{"TIRE-AS-205", "TIRE-WI-225", "RM-RUBBER"} {
		kind := catalog.ProductKindTire
		if strings.HasPrefix(code, "RM-") {
			kind = catalog.ProductKindMaterial
		}
		_, err := service.Create(context.Background(), CreateProductRequest{Code: code, Name: code, Kind: kind})
		require.NoError(t, err)
	}

	products, total, err := service.List(context.Background(), ProductListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, products, 3)
}
