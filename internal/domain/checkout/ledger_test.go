package checkout

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(code string, price string, stock int) entity.Product {
	return entity.Product{
		ItemCode:      code,
		Name:          "Item " + code,
		UnitPrice:     dec(price),
		StockQuantity: stock,
	}
}

func TestCartLedger_AddPrependsNewLines(t *testing.T) {
	c := NewCartLedger()

	first, err := c.Add(product("A", "10", 5))
	require.NoError(t, err)
	second, err := c.Add(product("B", "20", 5))
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, second.OrderID, items[0].OrderID)
	assert.Equal(t, first.OrderID, items[1].OrderID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.NotEqual(t, uuid.Nil, first.OrderID)
}

func TestCartLedger_AddMergesSameItem(t *testing.T) {
	c := NewCartLedger()

	first, err := c.Add(product("A", "10", 5))
	require.NoError(t, err)
	again, err := c.Add(product("A", "10", 5))
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, again.OrderID)
	assert.Equal(t, 2, again.Quantity)
	assert.Equal(t, 1, c.Len())
}

func TestCartLedger_AddMergesByBarcodeWhenNoItemCode(t *testing.T) {
	c := NewCartLedger()
	p := entity.Product{Name: "Loose", Barcode: "8901", UnitPrice: dec("5"), StockQuantity: 3}

	_, err := c.Add(p)
	require.NoError(t, err)
	line, err := c.Add(p)
	require.NoError(t, err)

	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 1, c.Len())
}

func TestCartLedger_AddRejectsOutOfStock(t *testing.T) {
	c := NewCartLedger()

	_, err := c.Add(product("A", "10", 0))
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = c.Add(product("B", "10", -3))
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.True(t, c.IsEmpty())
}

func TestCartLedger_AddRejectsMissingIdentity(t *testing.T) {
	c := NewCartLedger()

	_, err := c.Add(entity.Product{Name: "nameless", StockQuantity: 1})
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestCartLedger_AddMergeRespectsStockCeiling(t *testing.T) {
	c := NewCartLedger()
	p := product("A", "10", 1)

	_, err := c.Add(p)
	require.NoError(t, err)
	_, err = c.Add(p)

	var limitErr *StockLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 1, limitErr.Available)
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestCartLedger_IncrementUpToStockThenRejects(t *testing.T) {
	c := NewCartLedger()
	line, err := c.Add(product("A", "10", 3))
	require.NoError(t, err)

	_, err = c.Increment(line.OrderID)
	require.NoError(t, err)
	updated, err := c.Increment(line.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	_, err = c.Increment(line.OrderID)
	var limitErr *StockLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Contains(t, limitErr.Error(), "only 3 units")

	got, ok := c.Get(line.OrderID)
	require.True(t, ok)
	assert.Equal(t, 3, got.Quantity)
}

func TestCartLedger_DecrementRemovesAtOne(t *testing.T) {
	c := NewCartLedger()
	line, err := c.Add(product("A", "10", 3))
	require.NoError(t, err)
	_, err = c.Increment(line.OrderID)
	require.NoError(t, err)

	updated, removed, err := c.Decrement(line.OrderID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, updated.Quantity)

	_, removed, err = c.Decrement(line.OrderID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.True(t, c.IsEmpty())
}

func TestCartLedger_UnknownLine(t *testing.T) {
	c := NewCartLedger()
	id := uuid.New()

	_, err := c.Increment(id)
	assert.ErrorIs(t, err, ErrLineNotFound)
	_, _, err = c.Decrement(id)
	assert.ErrorIs(t, err, ErrLineNotFound)
	assert.ErrorIs(t, c.Remove(id), ErrLineNotFound)
	_, err = c.SetPrice(id, dec("1"))
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestCartLedger_RemoveIsUnconditional(t *testing.T) {
	c := NewCartLedger()
	a, _ := c.Add(product("A", "10", 5))
	_, _ = c.Increment(a.OrderID)
	b, _ := c.Add(product("B", "10", 5))

	require.NoError(t, c.Remove(a.OrderID))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.OrderID, items[0].OrderID)
}

func TestCartLedger_SetPriceCoercesNegative(t *testing.T) {
	c := NewCartLedger()
	line, _ := c.Add(product("A", "10", 5))

	updated, err := c.SetPrice(line.OrderID, dec("-4"))
	require.NoError(t, err)
	assert.True(t, updated.UnitPrice.IsZero())

	updated, err = c.SetPrice(line.OrderID, dec("12.5"))
	require.NoError(t, err)
	assert.True(t, updated.UnitPrice.Equal(dec("12.5")))
}

func TestCartLedger_SubtotalIsSumOfLines(t *testing.T) {
	c := NewCartLedger()
	a, _ := c.Add(product("A", "100", 5))
	_, _ = c.Increment(a.OrderID)
	_, _ = c.Add(product("B", "0.35", 5))

	assert.True(t, c.Subtotal().Equal(dec("200.35")), c.Subtotal().String())

	c.Clear()
	assert.True(t, c.Subtotal().IsZero())
}

func TestCartLedger_ItemsIsACopy(t *testing.T) {
	c := NewCartLedger()
	line, _ := c.Add(product("A", "10", 5))

	items := c.Items()
	items[0].Quantity = 99

	got, _ := c.Get(line.OrderID)
	assert.Equal(t, 1, got.Quantity)
}
