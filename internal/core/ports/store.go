package ports

import "context"

// Durable store keys. Nothing else is persisted on the device.
const (
	CredentialKey = "accessToken"
	CartKey       = "cartItems"
)

// KVStore is the durable client-local key-value store. Get returns
// domain.ErrKeyNotFound for absent keys. There is no locking: concurrent writers
// race and the last write wins.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
