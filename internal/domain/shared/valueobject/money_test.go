package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(100), USD)
	require.NoError(t, err)
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
}

func TestNewMoney_EmptyCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(100), "")
	assert.Error(t, err)
}

func TestNewMoneyUSDFromString(t *testing.T) {
	m, err := NewMoneyUSDFromString("129.99")
	require.NoError(t, err)
	assert.Equal(t, "129.99", m.StringFixed(2))

	_, err = NewMoneyUSDFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyUSDFromFloat(10.50)
	b := NewMoneyUSDFromFloat(4.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "15.00", sum.StringFixed(2))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := NewMoneyUSD(decimal.NewFromInt(10))
	b, err := NewMoney(decimal.NewFromInt(10), EUR)
	require.NoError(t, err)

	_, err = a.Add(b)
	assert.Error(t, err)
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b := NewMoneyUSDFromFloat(3.25)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "6.75", diff.StringFixed(2))
}

func TestMoney_MultiplyByInt(t *testing.T) {
	// unit price * quantity is the core use of Money in order lines
	unitPrice := NewMoneyUSDFromFloat(10)
	subtotal := unitPrice.MultiplyByInt(30)
	assert.Equal(t, "300.00", subtotal.StringFixed(2))
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyUSDFromFloat(5)
	big := NewMoneyUSDFromFloat(50)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, small.Equals(NewMoneyUSDFromFloat(5)))
	assert.False(t, small.Equals(big))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroUSD().IsZero())
	assert.True(t, NewMoneyUSDFromFloat(1).IsPositive())
	assert.True(t, NewMoneyUSD(decimal.NewFromInt(-1)).IsNegative())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyUSDFromFloat(42.42)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("99.95"))
	assert.Equal(t, "99.95", m.StringFixed(2))
	assert.Equal(t, DefaultCurrency, m.Currency())

	var fromBytes Money
	require.NoError(t, fromBytes.Scan([]byte("12.00")))
	assert.Equal(t, "12.00", fromBytes.StringFixed(2))

	var fromNil Money
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())

	var bad Money
	assert.Error(t, bad.Scan(struct{}{}))
}

func TestMoney_Value(t *testing.T) {
	m := NewMoneyUSDFromFloat(7.5)
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "7.5", v)
}
