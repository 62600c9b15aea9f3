package store

import (
	"fmt"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Open validates config and returns the backend it names. Persistent
// backends create DataDir when it does not exist.
func Open(config types.Config) (types.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Backend {
	case types.BackendMemory:
		return NewMemory(), nil
	case types.BackendSQLite:
		return OpenSQLite(config.DataDir)
	case types.BackendJSONL:
		return OpenJSONL(config.DataDir)
	case types.BackendRedis:
		return OpenRedis(config.RedisAddr, config.RedisDB, config.KeyPrefix)
	default:
		return nil, fmt.Errorf("open %q: %w", config.Backend, types.ErrBackendUnknown)
	}
}
