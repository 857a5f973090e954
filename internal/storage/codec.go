package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fjod/go_cart/cart-store/internal/domain"
)

// Encode serializes a cart as a JSON array of entries.
func Encode(cart domain.Cart) ([]byte, error) {
	if cart == nil {
		cart = domain.Cart{}
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// Decode parses data produced by Encode. Anything that would break the cart
// invariants is rejected with ErrMalformed.
func Decode(data []byte) (domain.Cart, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if cart == nil {
		return domain.Cart{}, nil
	}

	seen := make(map[int64]struct{}, len(cart))
	for _, entry := range cart {
		if entry.ID <= 0 {
			return nil, fmt.Errorf("%w: invalid product id %d", ErrMalformed, entry.ID)
		}
		if entry.Amount < 1 {
			return nil, fmt.Errorf("%w: product %d has amount %d", ErrMalformed, entry.ID, entry.Amount)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %d", ErrMalformed, entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return cart, nil
}
