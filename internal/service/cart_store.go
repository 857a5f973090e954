package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/go_cart/cart-store/internal/catalog"
	"github.com/fjod/go_cart/cart-store/internal/domain"
	"github.com/fjod/go_cart/cart-store/internal/notify"
	"github.com/fjod/go_cart/cart-store/internal/storage"
	"github.com/fjod/go_cart/cart-store/pkg/logger"
)

// Messages shown to the user, one per failed operation.
const (
	MsgStockExceeded = "Requested amount is out of stock"
	MsgAddFailed     = "Failed to add product"
	MsgRemoveFailed  = "Failed to remove product"
	MsgUpdateFailed  = "Failed to update product amount"
)

type UpdateProductAmount struct {
	ProductID int64
	Amount    int
}

// CartStore owns the session cart. Mutations run one at a time, each
// validating against the catalog before committing and persisting.
type CartStore struct {
	catalog  catalog.Service
	storage  storage.CartStorage
	notifier notify.Notifier
	log      *logger.Logger

	mu sync.Mutex // serializes mutations, held across catalog lookups

	stateMu sync.RWMutex
	cart    domain.Cart

	subMu       sync.Mutex
	subscribers []subscriber
	nextSubID   uint64
}

type subscriber struct {
	id uint64
	fn func(domain.Cart)
}

// NewCartStore loads the persisted cart. A missing or malformed cart starts
// the session empty; a storage backend that cannot be read fails construction.
func NewCartStore(
	ctx context.Context,
	catalogService catalog.Service,
	cartStorage storage.CartStorage,
	notifier notify.Notifier,
	log *logger.Logger,
) (*CartStore, error) {
	s := &CartStore{
		catalog:  catalogService,
		storage:  cartStorage,
		notifier: notifier,
		log:      log.Named("cart_store"),
		cart:     domain.Cart{},
	}

	cart, err := cartStorage.Load(ctx)
	switch {
	case err == nil:
		s.cart = cart
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, storage.ErrMalformed):
		s.log.Warn().Err(err).Msg("persisted cart is malformed, starting empty")
	default:
		return nil, fmt.Errorf("load persisted cart: %w", err)
	}

	s.log.Debug().Int("products", s.cart.Len()).Msg("cart store initialized")
	return s, nil
}

// Cart returns a copy of the committed cart.
func (s *CartStore) Cart() domain.Cart {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.cart.Clone()
}

// Subscribe registers fn to receive every newly committed cart, in commit
// order. fn must not call the store's mutating methods synchronously.
func (s *CartStore) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// AddProduct puts one more unit of productID in the cart.
func (s *CartStore) AddProduct(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.addProduct(ctx, productID); err != nil {
		s.fail(ctx, "add_product", productID, err)
	}
}

func (s *CartStore) addProduct(ctx context.Context, productID int64) error {
	current := s.Cart()
	entry, idx := current.Find(productID)
	target := 1
	if idx >= 0 {
		target = entry.Amount + 1
	}

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: get stock: %v", domain.ErrAddProductFailed, err)
	}
	if target > stock.Amount {
		return fmt.Errorf("%w: want %d, have %d", domain.ErrStockExceeded, target, stock.Amount)
	}

	if idx >= 0 {
		current[idx].Amount = target
	} else {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("%w: get product: %v", domain.ErrAddProductFailed, err)
		}
		current = append(current, domain.CartEntry{Product: product, Amount: 1})
	}

	s.commit(ctx, current)
	return nil
}

// RemoveProduct drops productID from the cart entirely.
func (s *CartStore) RemoveProduct(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeProduct(ctx, productID); err != nil {
		s.fail(ctx, "remove_product", productID, err)
	}
}

func (s *CartStore) removeProduct(ctx context.Context, productID int64) error {
	current := s.Cart()
	if !current.Contains(productID) {
		return domain.ErrProductNotInCart
	}

	updated := make(domain.Cart, 0, len(current)-1)
	for _, entry := range current {
		if entry.ID != productID {
			updated = append(updated, entry)
		}
	}

	s.commit(ctx, updated)
	return nil
}

// UpdateProductAmount sets the amount of a product already in the cart.
// Amounts below 1 are ignored.
func (s *CartStore) UpdateProductAmount(ctx context.Context, req UpdateProductAmount) {
	if req.Amount <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.updateProductAmount(ctx, req); err != nil {
		s.fail(ctx, "update_product_amount", req.ProductID, err)
	}
}

func (s *CartStore) updateProductAmount(ctx context.Context, req UpdateProductAmount) error {
	stock, err := s.catalog.GetStock(ctx, req.ProductID)
	if err != nil {
		return fmt.Errorf("%w: get stock: %v", domain.ErrUpdateFailed, err)
	}
	if req.Amount > stock.Amount {
		return fmt.Errorf("%w: want %d, have %d", domain.ErrStockExceeded, req.Amount, stock.Amount)
	}

	current := s.Cart()
	entry, idx := current.Find(req.ProductID)
	if idx < 0 {
		return domain.ErrProductNotInCart
	}
	if entry.Amount == req.Amount {
		return nil
	}

	current[idx].Amount = req.Amount
	s.commit(ctx, current)
	return nil
}

// commit publishes cart as the new state, persists it and notifies
// subscribers. Callers hold s.mu and pass a cart nobody else references.
func (s *CartStore) commit(ctx context.Context, cart domain.Cart) {
	s.stateMu.Lock()
	s.cart = cart
	s.stateMu.Unlock()

	if err := s.storage.Save(ctx, cart); err != nil {
		s.log.WithContext(ctx).Error().Err(err).Msg("persist cart failed")
	}

	s.subMu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(cart.Clone())
	}
}

func (s *CartStore) fail(ctx context.Context, op string, productID int64, err error) {
	message := userMessage(op, err)
	s.log.WithContext(ctx).Warn().
		Err(err).
		Str("op", op).
		Int64("product_id", productID).
		Msg(message)
	s.notifier.ReportError(message)
}

func userMessage(op string, err error) string {
	if errors.Is(err, domain.ErrStockExceeded) {
		return MsgStockExceeded
	}
	switch op {
	case "add_product":
		return MsgAddFailed
	case "remove_product":
		return MsgRemoveFailed
	default:
		return MsgUpdateFailed
	}
}
