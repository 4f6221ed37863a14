package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// CLASHLINGS_SERVER_WEBSOCKET_ADDRESS.
const EnvPrefix = "CLASHLINGS"

// Catalog sources.
const (
	CatalogBuiltin  = "builtin"
	CatalogPostgres = "postgres"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Opponent OpponentConfig `mapstructure:"opponent"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the network settings.
type ServerConfig struct {
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// WebSocketConfig configures the websocket endpoint the UI connects to.
type WebSocketConfig struct {
	Address         string        `mapstructure:"address"`
	Path            string        `mapstructure:"path"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
}

// GameConfig selects decks and the shuffle seed for new matches.
type GameConfig struct {
	PlayerDeck   string `mapstructure:"player_deck"`
	OpponentDeck string `mapstructure:"opponent_deck"`
	Seed         int64  `mapstructure:"seed"`
}

// OpponentConfig paces the computer player.
type OpponentConfig struct {
	ThinkDelay time.Duration `mapstructure:"think_delay"`
	BlockDelay time.Duration `mapstructure:"block_delay"`
}

// CatalogConfig selects where card definitions come from.
type CatalogConfig struct {
	Source string `mapstructure:"source"`
}

// DatabaseConfig configures the Postgres card store.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("server.websocket.path", "/ws")
	v.SetDefault("server.websocket.read_buffer_size", 1024)
	v.SetDefault("server.websocket.write_buffer_size", 1024)
	v.SetDefault("server.websocket.allowed_origins", []string{})
	v.SetDefault("server.websocket.ping_interval", 30*time.Second)

	v.SetDefault("game.player_deck", "sky-pack")
	v.SetDefault("game.opponent_deck", "")
	v.SetDefault("game.seed", 0)

	v.SetDefault("opponent.think_delay", 1200*time.Millisecond)
	v.SetDefault("opponent.block_delay", 600*time.Millisecond)

	v.SetDefault("catalog.source", CatalogBuiltin)

	v.SetDefault("database.url", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration file at path, applies CLASHLINGS_*
// environment overrides and validates the result. A missing file is not an
// error; defaults are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that defaults cannot fix.
func (c *Config) Validate() error {
	if c.Server.WebSocket.Address == "" {
		return fmt.Errorf("server.websocket.address is required")
	}
	if c.Server.WebSocket.ReadBufferSize <= 0 || c.Server.WebSocket.WriteBufferSize <= 0 {
		return fmt.Errorf("websocket buffer sizes must be positive")
	}
	if c.Opponent.ThinkDelay < 0 || c.Opponent.BlockDelay < 0 {
		return fmt.Errorf("opponent delays must not be negative")
	}
	switch c.Catalog.Source {
	case CatalogBuiltin:
	case CatalogPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required when catalog.source=%s", CatalogPostgres)
		}
	default:
		return fmt.Errorf("invalid catalog.source %q", c.Catalog.Source)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	return nil
}
