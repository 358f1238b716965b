package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treadline/backend/internal/domain/shared"
	"github.com/treadline/backend/internal/domain/shared/valueobject"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct("tire-205-55-r16", "All-Season 205/55R16", ProductKindTire, valueobject.NewMoneyUSDFromFloat(89.99))
	require.NoError(t, err)

	assert.Equal(t, "TIRE-205-55-R16", p.Code)
	assert.Equal(t, ProductKindTire, p.Kind)
	assert.True(t, p.Active)
	assert.Equal(t, "89.99", p.ListPrice.StringFixed(2))
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		prodName  string
		kind      ProductKind
		price     float64
		expectErr string
	}{
		{"empty code", "", "Tire", ProductKindTire, 10, "INVALID_CODE"},
		{"long code", strings.Repeat("X", 51), "Tire", ProductKindTire, 10, "INVALID_CODE"},
		{"empty name", "T-1", "", ProductKindTire, 10, "INVALID_NAME"},
		{"long name", "T-1", strings.Repeat("x", 201), ProductKindTire, 10, "INVALID_NAME"},
		{"bad kind", "T-1", "Tire", ProductKind("GADGET"), 10, "INVALID_KIND"},
		{"negative price", "T-1", "Tire", ProductKindTire, -1, "INVALID_PRICE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.code, tt.prodName, tt.kind, valueobject.NewMoneyUSDFromFloat(tt.price))
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.expectErr, domainErr.Code)
		})
	}
}

func TestProduct_SetListPrice(t *testing.T) {
	p, err := NewProduct("T-1", "Winter 195/65R15", ProductKindTire, valueobject.ZeroUSD())
	require.NoError(t, err)

	require.NoError(t, p.SetListPrice(valueobject.NewMoneyUSDFromFloat(120)))
	assert.Equal(t, "120.00", p.ListPrice.StringFixed(2))

	assert.Error(t, p.SetListPrice(valueobject.NewMoneyUSDFromFloat(-1)))
}

func TestProduct_SetTireSize(t *testing.T) {
	tire, err := NewProduct("T-1", "Summer tire", ProductKindTire, valueobject.ZeroUSD())
	require.NoError(t, err)
	require.NoError(t, tire.SetTireSize("225/45R17"))
	assert.Equal(t, "225/45R17", tire.TireSize)

	material, err := NewProduct("M-1", "Rubber compound", ProductKindMaterial, valueobject.ZeroUSD())
	require.NoError(t, err)
	assert.Error(t, material.SetTireSize("225/45R17"))
}

func TestProduct_ActivateDeactivate(t *testing.T) {
	p, err := NewProduct("T-1", "Tire", ProductKindTire, valueobject.ZeroUSD())
	require.NoError(t, err)

	p.Deactivate()
	assert.False(t, p.Active)

	p.Activate()
	assert.True(t, p.Active)
}
