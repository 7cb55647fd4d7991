// Package store provides the durable key-value mirror that shadows
// cart and order-log state across restarts. Values round-trip through
// JSON; a missing or corrupt entry is reported as absent rather than
// failing the caller.
package store

// Keys used by the cart service.
const (
	KeyCart   = "cart"
	KeyOrders = "orders"
)

// KV is a durable string-keyed store for JSON-serializable values.
type KV interface {
	// Save serializes value and writes it under key, replacing any
	// previous entry.
	Save(key string, value any) error
	// Load reads the entry under key into out. It returns false when
	// the key is absent or its payload cannot be decoded; out is left
	// untouched in that case.
	Load(key string, out any) (bool, error)
	// Delete removes the entry under key. Deleting an absent key is
	// not an error.
	Delete(key string) error
}
