// Package store is the durable system of record for inventory items and
// orders. It owns the bun models, the schema bootstrap and every query the
// aggregate readers and writers issue. The cache layer above it never
// bypasses this package.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ErrNotFound marks lookups and deletes that reference an absent identity.
// Callers match it with errors.Is; any other error from this package is a
// storage failure.
var ErrNotFound = errors.New("not found")

// Store wraps the relational database. All operations are synchronous:
// when a write method returns nil the mutation is durable, which is what
// gates cache invalidation in the layers above.
type Store struct {
	db *bun.DB
}

// Open connects to the SQLite database at dsn and returns a Store.
func Open(dsn string) (*Store, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; a single connection sidesteps
	// SQLITE_BUSY under concurrent request handling.
	sqldb.SetMaxOpenConns(1)
	return New(bun.NewDB(sqldb, sqlitedialect.New())), nil
}

// New wraps an existing bun handle. Tests use this with an in-memory
// database.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for lifecycle management.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	models := []any{
		(*Order)(nil),
		(*InventoryItem)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// ListItems returns every inventory row ordered by identity.
func (s *Store) ListItems(ctx context.Context) ([]InventoryItem, error) {
	var items []InventoryItem
	if err := s.db.NewSelect().Model(&items).Order("item_id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select inventory: %w", err)
	}
	return items, nil
}

// GetItem returns the item with the given id, or ErrNotFound.
func (s *Store) GetItem(ctx context.Context, id int64) (*InventoryItem, error) {
	item := new(InventoryItem)
	err := s.db.NewSelect().Model(item).Where("item_id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select item %d: %w", id, err)
	}
	return item, nil
}

// CreateItem inserts a standalone item and fills in its store-assigned id.
func (s *Store) CreateItem(ctx context.Context, item *InventoryItem) error {
	if _, err := s.db.NewInsert().Model(item).Exec(ctx); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// DeleteItem removes the item with the given id, or reports ErrNotFound.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*InventoryItem)(nil)).
		Where("item_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	return errIfNoRows(res, id)
}

// ListOrders returns every order with its items eagerly loaded.
func (s *Store) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	err := s.db.NewSelect().
		Model(&orders).
		Relation("Items").
		Order("order_id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns the order with the given id and its items, or
// ErrNotFound.
func (s *Store) GetOrder(ctx context.Context, id int64) (*Order, error) {
	order := new(Order)
	err := s.db.NewSelect().
		Model(order).
		Relation("Items").
		Where("order_id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select order %d: %w", id, err)
	}
	return order, nil
}

// CreateOrder persists the order and its owned items in one transaction.
// The order's id is assigned by the store and stamped onto every item's
// back-reference before the items are inserted.
func (s *Store) CreateOrder(ctx context.Context, order *Order) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if len(order.Items) == 0 {
			return nil
		}
		for _, item := range order.Items {
			id := order.OrderID
			item.OrderID = &id
		}
		if _, err := tx.NewInsert().Model(&order.Items).Exec(ctx); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// DeleteOrder removes the order and, by ownership, its items in one
// transaction. Reports ErrNotFound when the order does not exist; with
// two concurrent deletes for the same id exactly one succeeds.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*InventoryItem)(nil)).
			Where("order_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}

		res, err := tx.NewDelete().
			Model((*Order)(nil)).
			Where("order_id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete order %d: %w", id, err)
		}
		return errIfNoRows(res, id)
	})
}

func errIfNoRows(res sql.Result, id int64) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %d: %w", id, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
