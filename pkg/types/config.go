package types

import "errors"

// Config holds backend selection and parameters for store.Open.
type Config struct {
	Backend   string `json:"backend" yaml:"backend"`
	DataDir   string `json:"data_dir" yaml:"data_dir"`
	RedisAddr string `json:"redis_addr" yaml:"redis_addr"`
	RedisDB   int    `json:"redis_db" yaml:"redis_db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendJSONL  = "jsonl"
	BackendRedis  = "redis"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrRedisAddrEmpty = errors.New("redis backend requires an address")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
	BackendJSONL:  true,
	BackendRedis:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendRedis && c.RedisAddr == "" {
		return ErrRedisAddrEmpty
	}
	return nil
}
