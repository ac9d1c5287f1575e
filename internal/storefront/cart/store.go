package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/storage"
)

// StorageKey is the durable storage key holding the cart.
const StorageKey = "cart-storage"

// ErrPersist wraps failures writing the cart to durable storage. The in-memory
// change has already been applied when it is returned.
var ErrPersist = errors.New("cart: persist failed")

// Store owns the shopping cart. Items are unique by product id and always have
// quantity >= 1. Every mutation is written through to durable storage before
// the method returns.
type Store struct {
	mu      sync.RWMutex
	items   []domain.CartItem
	durable storage.Store
	logger  *zap.Logger
}

// Options configures a Store.
type Options struct {
	Storage storage.Store
	Logger  *zap.Logger
}

type persisted struct {
	Items []domain.CartItem `json:"items"`
}

// NewStore constructs a Store and rehydrates it from durable storage.
func NewStore(opts Options) *Store {
	s := &Store{
		durable: opts.Storage,
		logger:  opts.Logger,
	}
	if s.durable == nil {
		s.durable = storage.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	raw, ok, err := s.durable.Get(StorageKey)
	if err != nil {
		s.logger.Warn("cart rehydrate failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	var payload persisted
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.logger.Warn("cart payload unreadable; starting empty", zap.Error(err))
		return
	}

	seen := make(map[string]struct{}, len(payload.Items))
	items := make([]domain.CartItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.Quantity < 1 || item.Product.ID == "" {
			continue
		}
		if _, dup := seen[item.Product.ID]; dup {
			continue
		}
		seen[item.Product.ID] = struct{}{}
		items = append(items, item)
	}
	s.items = items
	s.logger.Debug("cart rehydrated", zap.Int("items", len(items)))
}

// AddItem adds one unit of product, inserting it when not yet in the cart.
func (s *Store) AddItem(product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(product.ID); idx >= 0 {
		s.items[idx].Quantity++
	} else {
		s.items = append(s.items, domain.CartItem{Product: product, Quantity: 1})
	}
	return s.persistLocked()
}

// UpdateQuantity sets the quantity of productID. A quantity <= 0 removes the
// item. Unknown product ids are ignored.
func (s *Store) UpdateQuantity(productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return nil
	}
	if quantity <= 0 {
		s.removeAtLocked(idx)
	} else {
		s.items[idx].Quantity = quantity
	}
	return s.persistLocked()
}

// RemoveItem deletes the item for productID if present.
func (s *Store) RemoveItem(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return nil
	}
	s.removeAtLocked(idx)
	return s.persistLocked()
}

// Clear empties the cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persistLocked()
}

// Items returns a copy of the cart contents in display order.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Lines returns the order lines for the current contents, ready for submission.
func (s *Store) Lines() []domain.OrderLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.OrderLine, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, domain.OrderLine{ProductID: item.Product.ID, Quantity: item.Quantity})
	}
	return out
}

// Total sums effective price times quantity. An empty cart totals zero.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Total(s.items)
}

// ItemCount sums quantities.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ItemCount(s.items)
}

// Empty reports whether the cart has no items.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

// Total computes the total of an arbitrary item list, e.g. a checkout snapshot.
func Total(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount sums the quantities of an arbitrary item list.
func ItemCount(items []domain.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAtLocked(idx int) {
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
}

func (s *Store) persistLocked() error {
	items := s.items
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(persisted{Items: items})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.durable.Set(StorageKey, raw); err != nil {
		s.logger.Warn("cart persist failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
