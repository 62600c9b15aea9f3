package types

import "errors"

// Store defines the key/value persistence the storefront state survives
// reloads through. Values are opaque strings; callers own their encoding.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; an absent key is not an error.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(key string) error

	// Close releases backend resources. Idempotent: multiple calls succeed.
	// After Close, every other operation returns ErrStoreClosed.
	Close() error
}

// Persisted keys. cartCount and wishlistCount hold decimal strings,
// cartItems a JSON array of CartLineItem, wishlistItems a JSON array of
// product IDs.
const (
	KeyCartCount     = "cartCount"
	KeyCartItems     = "cartItems"
	KeyWishlistCount = "wishlistCount"
	KeyWishlistItems = "wishlistItems"
)

// Store errors.
var (
	ErrStoreClosed   = errors.New("store is closed")
	ErrInvalidKey    = errors.New("key must not be empty")
	ErrStoreRequired = errors.New("store is required")
)
