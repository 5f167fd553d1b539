package holdings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

// Item is the set of concrete holding types a Store can hold.
type Item interface {
	domain.Stock | domain.ETF | domain.Property
	domain.Holding
}

// Store persists one holding collection.
// Get returns nil for a missing id. Update of a missing id fails with domain.ErrNotFound,
// Delete of a missing id with domain.ErrInvalidOperation.
type Store[T Item] interface {
	List(ctx context.Context, portfolioID string) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// stamp sets identity and timestamps on a concrete holding.
func stamp[T Item](item T, id string, created, updated time.Time) T {
	switch v := any(item).(type) {
	case domain.Stock:
		v.ID, v.CreatedAt, v.UpdatedAt = id, created, updated
		return any(v).(T)
	case domain.ETF:
		v.ID, v.CreatedAt, v.UpdatedAt = id, created, updated
		return any(v).(T)
	case domain.Property:
		v.ID, v.CreatedAt, v.UpdatedAt = id, created, updated
		return any(v).(T)
	}
	return item
}

func portfolioOf[T Item](item T) string {
	switch v := any(item).(type) {
	case domain.Stock:
		return v.PortfolioID
	case domain.ETF:
		return v.PortfolioID
	case domain.Property:
		return v.PortfolioID
	}
	return ""
}

func createdAt[T Item](item T) time.Time {
	switch v := any(item).(type) {
	case domain.Stock:
		return v.CreatedAt
	case domain.ETF:
		return v.CreatedAt
	case domain.Property:
		return v.CreatedAt
	}
	return time.Time{}
}

// prepareCreate validates a new holding and assigns an id when none is set.
func prepareCreate[T Item](item T, now time.Time) (T, error) {
	if err := domain.ValidateHolding(item); err != nil {
		return item, err
	}
	id := item.HoldingID()
	if id == "" {
		id = uuid.NewString()
	}
	return stamp(item, id, now, now), nil
}

// MemoryStore keeps holdings in memory in insertion order. It backs the mock data mode.
type MemoryStore[T Item] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T
	now   func() time.Time
}

// NewMemoryStore creates a store holding the given items.
func NewMemoryStore[T Item](items ...T) *MemoryStore[T] {
	s := &MemoryStore[T]{items: make(map[string]T), now: time.Now}
	for _, item := range items {
		s.order = append(s.order, item.HoldingID())
		s.items[item.HoldingID()] = item
	}
	return s
}

// List returns the holdings of a portfolio. An empty portfolioID returns every holding.
func (s *MemoryStore[T]) List(_ context.Context, portfolioID string) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.FilterMap(s.order, func(id string, _ int) (T, bool) {
		item := s.items[id]
		return item, portfolioID == "" || portfolioOf(item) == portfolioID
	}), nil
}

func (s *MemoryStore[T]) Get(_ context.Context, id string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *MemoryStore[T]) Create(_ context.Context, item T) (T, error) {
	item, err := prepareCreate(item, s.now())
	if err != nil {
		return item, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.HoldingID()]; exists {
		return item, fmt.Errorf("holding %s already exists: %w", item.HoldingID(), domain.ErrInvalidOperation)
	}
	s.order = append(s.order, item.HoldingID())
	s.items[item.HoldingID()] = item
	return item, nil
}

func (s *MemoryStore[T]) Update(_ context.Context, item T) (T, error) {
	if err := domain.ValidateHolding(item); err != nil {
		return item, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[item.HoldingID()]
	if !ok {
		return item, fmt.Errorf("holding %s: %w", item.HoldingID(), domain.ErrNotFound)
	}
	item = stamp(item, item.HoldingID(), createdAt(existing), s.now())
	s.items[item.HoldingID()] = item
	return item, nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("holding %s does not exist: %w", id, domain.ErrInvalidOperation)
	}
	delete(s.items, id)
	s.order = lo.Without(s.order, id)
	return nil
}
