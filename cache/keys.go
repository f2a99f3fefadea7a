package cache

import "strconv"

// Well-known cache keys. The key set is deliberately small: the inventory
// collection has a single list entry, the order aggregate has a list entry
// plus one entry per order id. Key names are part of the consistency
// contract between readers and writers, so they live here rather than in
// the aggregate packages.
const (
	// InventoryListKey holds the materialized inventory collection view.
	InventoryListKey = "inventory_list"

	// OrderListKey holds the materialized list of orders with their items.
	OrderListKey = "orders_cache"

	orderKeyPrefix = "order_"
)

// OrderKey returns the per-order cache key for the given order id.
func OrderKey(id int64) string {
	return orderKeyPrefix + strconv.FormatInt(id, 10)
}
