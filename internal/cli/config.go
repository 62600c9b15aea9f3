package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
)

// Config keys.
const (
	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyRedisAddr = "redis_addr"
	cfgKeyRedisDB   = "redis_db"
	cfgKeyKeyPrefix = "key_prefix"
	cfgKeyLogLevel  = "log_level"
	cfgKeyCatalog   = "catalog"
)

const (
	defaultBackend   = types.BackendSQLite
	defaultKeyPrefix = "storefront:"
	defaultLogLevel  = "warn"
)

// configFile is the shape of config.yaml.
type configFile struct {
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
	RedisDB   int    `yaml:"redis_db,omitempty"`
	KeyPrefix string `yaml:"key_prefix,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	Catalog   string `yaml:"catalog,omitempty"`
}

// defaultConfigHeader precedes the generated config.yaml.
const defaultConfigHeader = `# Storefront configuration.
# backend: memory, sqlite, jsonl, or redis. redis needs redis_addr.
# data_dir is overridden by --data-dir and used for sqlite and jsonl.
`

// settings is the resolved configuration for one invocation.
type settings struct {
	types.Config
	ConfigDir string
	LogLevel  string
	Catalog   string
}

// loadSettings reads config.yaml from configDir, writing the default file on
// first run. A config.yaml that disappears between the two steps is not an
// error.
func loadSettings(configDir string) (settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return settings{}, fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyKeyPrefix, defaultKeyPrefix)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	s := settings{
		Config: types.Config{
			Backend:   v.GetString(cfgKeyBackend),
			DataDir:   v.GetString(cfgKeyDataDir),
			RedisAddr: v.GetString(cfgKeyRedisAddr),
			RedisDB:   v.GetInt(cfgKeyRedisDB),
			KeyPrefix: v.GetString(cfgKeyKeyPrefix),
		},
		ConfigDir: configDir,
		LogLevel:  v.GetString(cfgKeyLogLevel),
		Catalog:   v.GetString(cfgKeyCatalog),
	}
	if s.Catalog != "" && !filepath.IsAbs(s.Catalog) {
		s.Catalog = filepath.Join(configDir, s.Catalog)
	}
	return s, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left untouched.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		Backend:   defaultBackend,
		KeyPrefix: defaultKeyPrefix,
		LogLevel:  defaultLogLevel,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultConfigHeader), data...), 0o644)
}
