// Package config handles loading ticklist.toml configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/amonks/ticklist/internal/kv"
	"github.com/amonks/ticklist/internal/logger"
	"github.com/amonks/ticklist/internal/paths"
	"github.com/amonks/ticklist/internal/validation"
)

const (
	// ProjectFileName is the config file looked up in the working directory.
	ProjectFileName = "ticklist.toml"

	// EnvFileName is the optional dotenv file looked up in the working directory.
	EnvFileName = ".env"

	DefaultKey          = "todos"
	DefaultLogLevel     = "warn"
	DefaultDismissAfter = 5 * time.Second
	DefaultBacklog      = 10
)

// ErrInvalidConfig is returned when a config value cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the ticklist.toml configuration file.
type Config struct {
	Storage Storage `toml:"storage"`
	Log     Log     `toml:"log"`
	Notify  Notify  `toml:"notify"`
}

// Storage selects the key-value backend holding the task collection.
type Storage struct {
	// Backend is one of file, memory, sqlite, redis or postgres.
	Backend string `toml:"backend"`

	// Path is the data directory for the file backend.
	Path string `toml:"path"`

	// Key is the storage key holding the task collection.
	Key string `toml:"key"`

	// DSN is the sqlite database file or the postgres connection URL.
	DSN string `toml:"dsn"`

	RedisAddr     string `toml:"redis-addr"`
	RedisPassword string `toml:"redis-password"`
	RedisDB       int    `toml:"redis-db"`
}

// Log configures diagnostic logging on stderr.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Notify configures the notification center.
type Notify struct {
	DismissAfter time.Duration `toml:"dismiss-after"`
	Backlog      int           `toml:"backlog"`
}

// Load loads configuration from the global config file and from
// ticklist.toml in workDir, then applies environment overrides.
// Returns the defaults if no config files exist.
func Load(workDir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, _, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(workDir, ProjectFileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, projectMeta)
	return finish(merged, workDir)
}

// LoadFile loads configuration from a single explicit file, then applies
// environment overrides. A missing file is an error.
func LoadFile(path, workDir string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	cfg, _, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg, workDir)
}

func finish(cfg *Config, workDir string) (*Config, error) {
	dotenv, err := readDotenv(filepath.Join(workDir, EnvFileName))
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, envLookup(dotenv)); err != nil {
		return nil, err
	}
	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Storage.Backend = mergeString(projectMeta.IsDefined("storage", "backend"), projectCfg.Storage.Backend, globalCfg.Storage.Backend)
	merged.Storage.Path = mergeString(projectMeta.IsDefined("storage", "path"), projectCfg.Storage.Path, globalCfg.Storage.Path)
	merged.Storage.Key = mergeString(projectMeta.IsDefined("storage", "key"), projectCfg.Storage.Key, globalCfg.Storage.Key)
	merged.Storage.DSN = mergeString(projectMeta.IsDefined("storage", "dsn"), projectCfg.Storage.DSN, globalCfg.Storage.DSN)
	merged.Storage.RedisAddr = mergeString(projectMeta.IsDefined("storage", "redis-addr"), projectCfg.Storage.RedisAddr, globalCfg.Storage.RedisAddr)
	merged.Storage.RedisPassword = mergeString(projectMeta.IsDefined("storage", "redis-password"), projectCfg.Storage.RedisPassword, globalCfg.Storage.RedisPassword)
	merged.Storage.RedisDB = mergeValue(projectMeta.IsDefined("storage", "redis-db"), projectCfg.Storage.RedisDB, globalCfg.Storage.RedisDB)
	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)
	merged.Log.Format = mergeString(projectMeta.IsDefined("log", "format"), projectCfg.Log.Format, globalCfg.Log.Format)
	merged.Notify.DismissAfter = mergeValue(projectMeta.IsDefined("notify", "dismiss-after"), projectCfg.Notify.DismissAfter, globalCfg.Notify.DismissAfter)
	merged.Notify.Backlog = mergeValue(projectMeta.IsDefined("notify", "backlog"), projectCfg.Notify.Backlog, globalCfg.Notify.Backlog)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	return strings.TrimSpace(mergeValue(projectDefined, projectValue, globalValue))
}

func mergeValue[T any](projectDefined bool, projectValue, globalValue T) T {
	if projectDefined {
		return projectValue
	}
	return globalValue
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

// envLookup prefers the process environment over dotenv values. An empty
// process variable counts as unset.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value, true
		}
		value, ok := dotenv[name]
		return value, ok
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"TICK_STORAGE_BACKEND": &cfg.Storage.Backend,
		"TICK_STORAGE_PATH":    &cfg.Storage.Path,
		"TICK_STORAGE_KEY":     &cfg.Storage.Key,
		"TICK_STORAGE_DSN":     &cfg.Storage.DSN,
		"TICK_REDIS_ADDR":      &cfg.Storage.RedisAddr,
		"TICK_REDIS_PASSWORD":  &cfg.Storage.RedisPassword,
		"TICK_LOG_LEVEL":       &cfg.Log.Level,
		"TICK_LOG_FORMAT":      &cfg.Log.Format,
	}
	for name, target := range strs {
		if value, ok := lookup(name); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	if value, ok := lookup("TICK_REDIS_DB"); ok && strings.TrimSpace(value) != "" {
		db, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: TICK_REDIS_DB: %q is not a number", ErrInvalidConfig, value)
		}
		cfg.Storage.RedisDB = db
	}
	return nil
}

func applyDefaults(cfg *Config) error {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = string(kv.BackendFile)
	}
	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)

	dataDir, err := paths.ResolveWithDefault(cfg.Storage.Path, paths.DefaultDataDir)
	if err != nil {
		return err
	}
	if cfg.Storage.Path, err = paths.ExpandHome(dataDir); err != nil {
		return err
	}

	if cfg.Storage.Backend == string(kv.BackendSQLite) && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = filepath.Join(cfg.Storage.Path, kv.DefaultSQLiteDSN)
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = DefaultKey
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = string(logger.FormatText)
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Notify.DismissAfter == 0 {
		cfg.Notify.DismissAfter = DefaultDismissAfter
	}
	if cfg.Notify.Backlog == 0 {
		cfg.Notify.Backlog = DefaultBacklog
	}
	return nil
}

func (cfg *Config) validate() error {
	backend := kv.Backend(cfg.Storage.Backend)
	valid := false
	for _, b := range kv.ValidBackends() {
		if b == backend {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, validation.FormatInvalidValueError(kv.ErrUnknownBackend, backend, kv.ValidBackends()))
	}

	switch logger.Format(cfg.Log.Format) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: log format %q (valid: text, json)", ErrInvalidConfig, cfg.Log.Format)
	}

	if cfg.Notify.DismissAfter < 0 {
		return fmt.Errorf("%w: notify dismiss-after must not be negative", ErrInvalidConfig)
	}
	if cfg.Notify.Backlog < 0 {
		return fmt.Errorf("%w: notify backlog must not be negative", ErrInvalidConfig)
	}
	return nil
}

// StorageOptions returns the kv options selected by the config.
func (cfg *Config) StorageOptions() kv.Options {
	return kv.Options{
		Backend:       kv.Backend(cfg.Storage.Backend),
		Path:          cfg.Storage.Path,
		DSN:           cfg.Storage.DSN,
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
	}
}
