package storage

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/cart-store/internal/domain"
)

// DefaultKey is the namespace key the cart is stored under.
const DefaultKey = "@RocketShoes:cart"

// CartStorage persists one serialized cart under a fixed key.
type CartStorage interface {
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
}

var (
	ErrNotFound  = errors.New("no persisted cart")
	ErrMalformed = errors.New("malformed persisted cart")
)
