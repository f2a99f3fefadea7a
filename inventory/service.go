// Package inventory implements the read and write paths for the inventory
// collection. Reads go through the process-local cache; writes hit the
// store first and invalidate the collection view only after the mutation
// is confirmed durable.
package inventory

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/logitrack/logitrack/cache"
	"github.com/logitrack/logitrack/store"
)

// listTTL bounds how stale the cached inventory collection may get. The
// collection has a single flat-TTL entry; there are no per-item entries.
const listTTL = 30 * time.Second

// Store is the slice of the persistent store the inventory paths need.
type Store interface {
	ListItems(ctx context.Context) ([]store.InventoryItem, error)
	CreateItem(ctx context.Context, item *store.InventoryItem) error
	DeleteItem(ctx context.Context, id int64) error
}

// ItemView is the wire shape of an inventory item. The owner
// back-reference is deliberately absent: ownership is an internal concern
// of the order aggregate.
type ItemView struct {
	ItemID   int64  `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Location string `json:"location"`
}

// CreateInput carries the client-supplied fields for a new item. Quantity
// is a pointer so a missing field is distinguishable from an explicit
// zero.
type CreateInput struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity"`
	Location string `json:"location"`
}

// Validate reports the first invalid field, if any.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Quantity, validation.NotNil, validation.Min(0)),
		validation.Field(&in.Location, validation.Required),
	)
}

// Service is the aggregate reader/writer for inventory. The cache is
// injected, never global; the service holds it for the process lifetime.
type Service struct {
	store Store
	cache cache.Cache
	log   *zap.Logger
}

// NewService wires the inventory paths to their store and cache.
func NewService(st Store, c cache.Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, cache: c, log: log}
}

// List returns the inventory collection, serving the cached view when one
// is fresh and repopulating it from the store otherwise.
func (s *Service) List(ctx context.Context) ([]ItemView, error) {
	if views, ok := cache.Lookup[[]ItemView](s.cache, cache.InventoryListKey); ok {
		return views, nil
	}

	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ViewOf(item))
	}

	s.cache.Set(cache.InventoryListKey, views, cache.WithAbsoluteTTL(listTTL))
	s.log.Debug("populated cache", zap.String("key", cache.InventoryListKey), zap.Int("items", len(views)))

	return views, nil
}

// Create validates the input, inserts the item and invalidates the
// collection view so the next read is not served a pre-creation snapshot.
func (s *Service) Create(ctx context.Context, in CreateInput) (ItemView, error) {
	if err := in.Validate(); err != nil {
		return ItemView{}, err
	}

	item := &store.InventoryItem{
		Name:     in.Name,
		Quantity: *in.Quantity,
		Location: in.Location,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		// The mutation did not take effect, so the cached view is
		// still accurate; leave it alone.
		return ItemView{}, err
	}

	s.invalidateList()
	return ViewOf(*item), nil
}

// Delete removes the item with the given id. A missing id surfaces as
// store.ErrNotFound with no cache mutation.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidateList()
	return nil
}

func (s *Service) invalidateList() {
	s.cache.Remove(cache.InventoryListKey)
	s.log.Debug("invalidated cache", zap.String("key", cache.InventoryListKey))
}

// ViewOf shapes a store row into its wire view. The orders package uses it
// to embed item views inside order views.
func ViewOf(item store.InventoryItem) ItemView {
	return ItemView{
		ItemID:   item.ItemID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Location: item.Location,
	}
}
