package service

import "errors"

var (
	ErrStockLimitExceeded       = errors.New("stock limit exceeded")
	ErrInvalidShopItem          = errors.New("invalid shop item")
	ErrMalformedPersistedRecord = errors.New("malformed persisted record")
	ErrShopSessionClosed        = errors.New("shop session closed")
	ErrShopSessionNotFound      = errors.New("shop session not found")
	ErrSessionTokenInvalid      = errors.New("session token invalid")
	ErrShippingAddressInvalid   = errors.New("shipping address invalid")
	ErrCartEmpty                = errors.New("cart is empty")
)
