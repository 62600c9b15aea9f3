// Package types defines the Store interface, the cart and catalog entity
// types, the persisted key names, and the standard errors shared by the
// storefront engine.
package types
