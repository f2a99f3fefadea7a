// Package orders implements the read and write paths for the order
// aggregate: an order together with the inventory items it exclusively
// owns. Order views are joins, so the aggregate maintains more cache keys
// than inventory does and its writes reach further: creating or deleting
// an order changes item rows too, which makes the inventory collection
// view stale as well.
package orders

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/logitrack/logitrack/cache"
	"github.com/logitrack/logitrack/inventory"
	"github.com/logitrack/logitrack/store"
)

// The collection view is browsed far more often than single orders, so it
// gets a sliding window on top of the absolute ceiling: steady traffic
// keeps it warm and off the store. Single-order views are read in short
// bursts; a flat TTL bounds their staleness without per-order access
// tracking.
const (
	listTTL     = 30 * time.Second
	listSliding = 15 * time.Second
	orderTTL    = 30 * time.Second
)

// Store is the slice of the persistent store the order paths need.
type Store interface {
	ListOrders(ctx context.Context) ([]store.Order, error)
	GetOrder(ctx context.Context, id int64) (*store.Order, error)
	CreateOrder(ctx context.Context, order *store.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

// OrderView is the wire shape of an order with its owned items embedded.
type OrderView struct {
	OrderID      int64                `json:"orderId"`
	CustomerName string               `json:"customerName"`
	DatePlaced   time.Time            `json:"datePlaced"`
	Items        []inventory.ItemView `json:"items"`
}

// CreateInput carries the client-supplied fields for a new order. The
// item payloads reuse the inventory create shape; DatePlaced is
// optional and defaults to the time of creation.
type CreateInput struct {
	CustomerName string                  `json:"customerName"`
	DatePlaced   *time.Time              `json:"datePlaced,omitempty"`
	Items        []inventory.CreateInput `json:"items"`
}

// Validate reports the first invalid field, including per-item
// errors keyed by item index.
func (in CreateInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.CustomerName, validation.Required),
	); err != nil {
		return err
	}
	return validation.Validate(in.Items)
}

// Service is the aggregate reader/writer for orders.
type Service struct {
	store Store
	cache cache.Cache
	log   *zap.Logger
	now   func() time.Time
}

// NewService wires the order paths to their store and cache.
func NewService(st Store, c cache.Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, cache: c, log: log, now: time.Now}
}

// List returns every order with items embedded, serving the cached
// collection when it is fresh.
func (s *Service) List(ctx context.Context) ([]OrderView, error) {
	if views, ok := cache.Lookup[[]OrderView](s.cache, cache.OrderListKey); ok {
		return views, nil
	}

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, viewOf(order))
	}

	s.cache.Set(cache.OrderListKey, views, cache.WithAbsoluteAndSliding(listTTL, listSliding))
	s.log.Debug("populated cache", zap.String("key", cache.OrderListKey), zap.Int("orders", len(views)))

	return views, nil
}

// Get returns a single order view. A missing id reports store.ErrNotFound
// and caches nothing: absence is never cached, so a later create becomes
// visible immediately.
func (s *Service) Get(ctx context.Context, id int64) (OrderView, error) {
	key := cache.OrderKey(id)
	if view, ok := cache.Lookup[OrderView](s.cache, key); ok {
		return view, nil
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return OrderView{}, err
	}

	view := viewOf(*order)
	s.cache.Set(key, view, cache.WithAbsoluteTTL(orderTTL))
	return view, nil
}

// Create persists the order with its owned items atomically, then
// invalidates every view the insert staled: the order collection, the
// new order's own key (idempotent symmetry; it cannot be cached yet) and
// the inventory collection, because the owned item rows are new inventory
// rows.
func (s *Service) Create(ctx context.Context, in CreateInput) (OrderView, error) {
	if err := in.Validate(); err != nil {
		return OrderView{}, err
	}

	placed := s.now()
	if in.DatePlaced != nil {
		placed = *in.DatePlaced
	}

	order := &store.Order{
		CustomerName: in.CustomerName,
		DatePlaced:   placed,
		Items:        make([]*store.InventoryItem, 0, len(in.Items)),
	}
	for _, spec := range in.Items {
		order.Items = append(order.Items, &store.InventoryItem{
			Name:     spec.Name,
			Quantity: *spec.Quantity,
			Location: spec.Location,
		})
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return OrderView{}, err
	}

	s.invalidate(order.OrderID)
	return viewOf(*order), nil
}

// Delete removes the order and its owned items, then invalidates the
// order's key, the order collection and the inventory collection (the
// owned rows are gone from inventory too). A missing id reports
// store.ErrNotFound with no cache mutation.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

// invalidate removes every cache entry a mutation of the given order can
// have staled. The removals are independent per-key operations; a
// concurrent reader may briefly observe one key gone and another still
// present, which the consistency contract accepts.
func (s *Service) invalidate(id int64) {
	s.cache.Remove(cache.OrderKey(id))
	s.cache.Remove(cache.OrderListKey)
	s.cache.Remove(cache.InventoryListKey)
	s.log.Debug("invalidated cache",
		zap.String("key", cache.OrderKey(id)),
		zap.Int64("orderId", id),
	)
}

func viewOf(order store.Order) OrderView {
	items := make([]inventory.ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, inventory.ViewOf(*item))
	}
	return OrderView{
		OrderID:      order.OrderID,
		CustomerName: order.CustomerName,
		DatePlaced:   order.DatePlaced,
		Items:        items,
	}
}
