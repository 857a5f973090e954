package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/cart-store/internal/domain"
)

// Service is the read-only product and stock lookup the cart depends on.
type Service interface {
	GetStock(ctx context.Context, productID int64) (domain.StockInfo, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

var (
	ErrNotFound    = errors.New("product not found in catalog")
	ErrUnavailable = errors.New("catalog unavailable")
)
