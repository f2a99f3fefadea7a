package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory
	// database.
	sqldb.SetMaxOpenConns(1)

	s := New(bun.NewDB(sqldb, sqlitedialect.New()))
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestCreateAndListItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	item := &InventoryItem{Name: "Pallet Jack", Quantity: 12, Location: "Warehouse A"}
	require.NoError(t, s.CreateItem(ctx, item))
	assert.NotZero(t, item.ItemID, "store should assign the identity")

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pallet Jack", items[0].Name)
	assert.Equal(t, 12, items[0].Quantity)
	assert.Nil(t, items[0].OrderID, "standalone item has no owner")
}

func TestGetItem_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetItem(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	item := &InventoryItem{Name: "Forklift", Quantity: 2, Location: "Dock 3"}
	require.NoError(t, s.CreateItem(ctx, item))

	require.NoError(t, s.DeleteItem(ctx, item.ItemID))

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, s.DeleteItem(ctx, item.ItemID), ErrNotFound)
}

func TestCreateOrder_OwnsItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	order := &Order{
		CustomerName: "Alice",
		DatePlaced:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Items: []*InventoryItem{
			{Name: "Crate", Quantity: 4, Location: "Bay 1"},
			{Name: "Drum", Quantity: 7, Location: "Bay 2"},
		},
	}
	require.NoError(t, s.CreateOrder(ctx, order))
	assert.NotZero(t, order.OrderID)

	loaded, err := s.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	for _, item := range loaded.Items {
		require.NotNil(t, item.OrderID)
		assert.Equal(t, order.OrderID, *item.OrderID, "items carry the owner's id")
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetOrder(context.Background(), 123)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrders_EagerItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := &Order{
		CustomerName: "Bob",
		DatePlaced:   time.Now().UTC(),
		Items:        []*InventoryItem{{Name: "Box", Quantity: 1, Location: "Shelf 9"}},
	}
	require.NoError(t, s.CreateOrder(ctx, first))

	second := &Order{CustomerName: "Carol", DatePlaced: time.Now().UTC()}
	require.NoError(t, s.CreateOrder(ctx, second))

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].Items, 1)
	assert.Empty(t, orders[1].Items, "order without items loads an empty sequence")
}

func TestDeleteOrder_RemovesOwnedItems(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	standalone := &InventoryItem{Name: "Spare Tire", Quantity: 5, Location: "Rack 2"}
	require.NoError(t, s.CreateItem(ctx, standalone))

	order := &Order{
		CustomerName: "Dave",
		DatePlaced:   time.Now().UTC(),
		Items:        []*InventoryItem{{Name: "Engine", Quantity: 1, Location: "Bay 4"}},
	}
	require.NoError(t, s.CreateOrder(ctx, order))

	require.NoError(t, s.DeleteOrder(ctx, order.OrderID))

	_, err := s.GetOrder(ctx, order.OrderID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Owned items go with the order; standalone inventory survives.
	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Spare Tire", items[0].Name)
}

func TestDeleteOrder_NotFound(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.DeleteOrder(context.Background(), 55), ErrNotFound)
}
