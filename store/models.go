package store

import (
	"time"

	"github.com/uptrace/bun"
)

// InventoryItem is a stocked item. An item either stands alone or is owned
// by exactly one order at a time; OrderID is a weak back-reference to the
// owner and is nil for unassigned items. The back-reference never leaves
// this package through the API views.
type InventoryItem struct {
	bun.BaseModel `bun:"table:inventory_items"`

	ItemID   int64  `bun:"item_id,pk,autoincrement"`
	Name     string `bun:"name,notnull"`
	Quantity int    `bun:"quantity,notnull"`
	Location string `bun:"location,notnull"`

	OrderID *int64 `bun:"order_id"`
	Order   *Order `bun:"rel:belongs-to,join:order_id=order_id"`
}

// Order is the aggregate root for a customer order. Items holds the
// inventory rows the order exclusively owns for the duration of the
// relationship; they are loaded eagerly wherever an order view is shaped.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	OrderID      int64     `bun:"order_id,pk,autoincrement"`
	CustomerName string    `bun:"customer_name,notnull"`
	DatePlaced   time.Time `bun:"date_placed,notnull"`

	Items []*InventoryItem `bun:"rel:has-many,join:order_id=order_id"`
}
