// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer building a Config with defaults.
// - Load(ctx) layers defaults, optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SnapshotBaseURL is the root under which pre-computed snapshot JSON
	// documents live, e.g. "https://data.example.org/processed_data".
	SnapshotBaseURL string `koanf:"snapshot_base_url"`

	// SnapshotTimeoutMS bounds a single snapshot fetch.
	SnapshotTimeoutMS int `koanf:"snapshot_timeout_ms"`

	// StoreBackend selects the game store: memory, file, or redis.
	StoreBackend string `koanf:"store_backend"`

	// StorePath is the JSON file used by the file store backend.
	StorePath string `koanf:"store_path"`

	// RedisAddr and RedisKey configure the redis store backend.
	RedisAddr string `koanf:"redis_addr"`
	RedisKey  string `koanf:"redis_key"`

	// MaxImportBytes caps the accepted size of a game-store import payload.
	MaxImportBytes int64 `koanf:"max_import_bytes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		SnapshotBaseURL:   "https://respiview.org/processed_data",
		SnapshotTimeoutMS: 15_000,
		StoreBackend:      "file",
		StorePath:         "respiview_games.json",
		RedisAddr:         "localhost:6379",
		RedisKey:          "respiview:games:v1",
		MaxImportBytes:    4 << 20,
	}
}
