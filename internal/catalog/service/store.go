package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/catalog/domain"
	"github.com/gabonshop/gabonshop-backend/internal/catalog/repository"
)

// ProductRepository is the gateway side of the catalog.
type ProductRepository interface {
	ListRecent(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, data map[string]interface{}) (string, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// SnapshotCache persists the last loaded catalog between instances.
type SnapshotCache interface {
	Save(ctx context.Context, products []domain.Product) error
	Load(ctx context.Context) ([]domain.Product, bool, error)
}

// Publisher announces catalog mutations to other instances.
type Publisher interface {
	Publish(ctx context.Context, kind, productID string) error
}

// Store holds the whole catalog in memory and derives views from it.
//
// Every mutation goes to the gateway first and is followed by a full reload;
// there is no local patching and no conflict detection, so a concurrent
// writer's change is picked up (or overwritten) on the next reload.
type Store struct {
	repo      ProductRepository
	snapshots SnapshotCache
	publisher Publisher
	log       *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	products []domain.Product
	loadedAt time.Time
}

type Option func(*Store)

func WithSnapshotCache(c SnapshotCache) Option { return func(s *Store) { s.snapshots = c } }

func WithPublisher(p Publisher) Option { return func(s *Store) { s.publisher = p } }

// WithClock replaces time.Now for timestamping writes.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func NewStore(repo ProductRepository, log *zap.Logger, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		log:      log,
		now:      time.Now,
		products: []domain.Product{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init warms the cache from the snapshot, if any, then loads from the gateway.
// A failed gateway load is returned, but a warmed cache stays usable.
func (s *Store) Init(ctx context.Context) error {
	if s.snapshots != nil {
		products, ok, err := s.snapshots.Load(ctx)
		if err != nil {
			s.log.Warn("catalog snapshot unavailable", zap.Error(err))
		} else if ok {
			s.replace(products)
			s.log.Info("catalog warmed from snapshot", zap.Int("products", len(products)))
		}
	}
	return s.LoadAll(ctx)
}

// LoadAll replaces the cached catalog with the gateway's current contents.
func (s *Store) LoadAll(ctx context.Context) error {
	products, err := s.repo.ListRecent(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	s.replace(products)

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, products); err != nil {
			s.log.Warn("failed to save catalog snapshot", zap.Error(err))
		}
	}
	return nil
}

func (s *Store) replace(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.loadedAt = s.now()
}

// Create stamps owner and timestamps onto data, writes it and reloads. The
// new id is returned even when only the reload failed, together with a
// *domain.ReloadError.
func (s *Store) Create(ctx context.Context, form domain.ProductForm, owner domain.Owner) (string, error) {
	now := s.now().UnixMilli()

	data := form.Fields()
	data["ownerId"] = owner.ID
	data["ownerName"] = owner.SnapshotName()
	data["ownerPhone"] = owner.SnapshotPhone()
	data["createdAt"] = now
	data["updatedAt"] = now

	id, err := s.repo.Create(ctx, data)
	if err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}
	s.log.Info("product created", zap.String("product_id", id), zap.String("owner_id", owner.ID))

	return id, s.afterWrite(ctx, repository.EventCreated, id)
}

// Update writes patch with a fresh updatedAt and reloads. Owner fields in
// the patch are dropped: ownerId never changes after creation.
func (s *Store) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	data := make(map[string]interface{}, len(patch)+1)
	for k, v := range patch {
		switch k {
		case "ownerId", "ownerName", "ownerPhone", "createdAt", "id":
			continue
		}
		data[k] = v
	}
	data["updatedAt"] = s.now().UnixMilli()

	if err := s.repo.Update(ctx, id, data); err != nil {
		return fmt.Errorf("update product %s: %w", id, err)
	}
	s.log.Info("product updated", zap.String("product_id", id))

	return s.afterWrite(ctx, repository.EventUpdated, id)
}

// Delete removes the product from the gateway and reloads. A failed reload
// comes back as *domain.ReloadError; the product is gone regardless.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("product_id", id))

	return s.afterWrite(ctx, repository.EventDeleted, id)
}

func (s *Store) afterWrite(ctx context.Context, kind, id string) error {
	if err := s.LoadAll(ctx); err != nil {
		return &domain.ReloadError{Err: err}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, kind, id); err != nil {
			s.log.Warn("failed to publish catalog event", zap.String("kind", kind), zap.Error(err))
		}
	}
	return nil
}

// Products returns a copy of the cached catalog, newest first.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len is the number of cached products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// LoadedAt is when the cache was last replaced.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Get looks a product up in the cache.
func (s *Store) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// ByOwner filters the cache; it never calls the gateway.
func (s *Store) ByOwner(ownerID string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ByOwner(s.products, ownerID)
}

// FilterAndSort derives a view from the cache; it never calls the gateway.
func (s *Store) FilterAndSort(q domain.Query) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.FilterAndSort(s.products, q)
}

// Recent returns at most n of the newest products.
func (s *Store) Recent(n int) []domain.Product {
	view := s.FilterAndSort(domain.Query{Sort: domain.SortRecent})
	if n >= 0 && len(view) > n {
		view = view[:n]
	}
	return view
}

// HandleEvent reloads the catalog when another instance reports a change.
func (s *Store) HandleEvent(ctx context.Context, ev repository.Event) {
	if err := s.LoadAll(ctx); err != nil {
		s.log.Error("catalog reload after peer event failed",
			zap.String("kind", ev.Kind),
			zap.String("product_id", ev.ProductID),
			zap.Error(err),
		)
	}
}
