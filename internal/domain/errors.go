package domain

import "errors"

var (
	ErrStockExceeded    = errors.New("requested amount exceeds available stock")
	ErrProductNotInCart = errors.New("product not in cart")
	ErrAddProductFailed = errors.New("add product failed")
	ErrUpdateFailed     = errors.New("update product amount failed")
)
