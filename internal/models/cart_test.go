package models_test

import (
	"testing"

	"kirana/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name string, price int64) models.Product {
	return models.Product{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

func TestCart_AddAdjustRoundTrip(t *testing.T) {
	p := product("p1", "Mango", 40)

	var cart models.Cart
	cart.AddItem(p)
	cart.AddItem(p)
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)

	cart.AdjustQuantity(p.ID, -1)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)

	cart.AdjustQuantity(p.ID, -1)
	assert.True(t, cart.IsEmpty())
}

func TestCart_AdjustQuantityUnknownProductIsNoop(t *testing.T) {
	var cart models.Cart
	cart.AddItem(product("p1", "Mango", 40))

	cart.AdjustQuantity("missing", -5)

	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestCart_AdjustQuantityBelowZeroRemovesLine(t *testing.T) {
	var cart models.Cart
	cart.AddItem(product("p1", "Mango", 40))
	cart.AddItem(product("p2", "Milk", 30))

	cart.AdjustQuantity("p1", -3)

	require.Len(t, cart, 1)
	assert.Equal(t, "p2", cart[0].ProductID)
}

func TestCart_SnapshotKeepsPriceAtAddTime(t *testing.T) {
	p := product("p1", "Mango", 40)
	var cart models.Cart
	cart.AddItem(p)

	p.Price = decimal.NewFromInt(99)
	cart.AddItem(p)

	require.Len(t, cart, 1)
	assert.True(t, cart[0].Price.Equal(decimal.NewFromInt(40)))
}

func TestCart_SubtotalAndItemCount(t *testing.T) {
	var cart models.Cart
	cart.AddItem(product("p1", "Mango", 40))
	cart.AddItem(product("p1", "Mango", 40))
	cart.AddItem(models.Product{ID: "p2", Name: "Chips", Price: decimal.RequireFromString("12.5")})

	assert.Equal(t, 3, cart.ItemCount())
	assert.Equal(t, "92.5", cart.Subtotal().String())

	var empty models.Cart
	assert.True(t, empty.Subtotal().IsZero())
	assert.Equal(t, 0, empty.ItemCount())
}

func TestCart_SnapshotDoesNotAlias(t *testing.T) {
	var cart models.Cart
	cart.AddItem(product("p1", "Mango", 40))

	lines := cart.Snapshot()
	cart.AdjustQuantity("p1", 4)

	assert.Equal(t, 1, lines[0].Quantity)
}
