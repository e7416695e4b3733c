package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	Server   Server  `yaml:"server"`
	Storage  Storage `yaml:"storage"`
	Auth     Auth    `yaml:"auth"`
}

type Server struct {
	Host            string        `yaml:"host" env:"TTT_HOST"`
	Port            int           `yaml:"port" env:"TTT_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read-timeout" env:"TTT_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write-timeout" env:"TTT_WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"TTT_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

type Storage struct {
	Type     string   `yaml:"type" env:"TTT_STORAGE_TYPE" env-default:"memory"`
	Redis    Redis    `yaml:"redis"`
	SQLite   SQLite   `yaml:"sqlite"`
	Postgres Postgres `yaml:"postgres"`
}

type Redis struct {
	URL           string        `yaml:"url" env:"TTT_REDIS_URL" env-default:"redis://localhost:6379/0"`
	PoolSize      int           `yaml:"pool-size" env:"TTT_REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns  int           `yaml:"min-idle-conns" env:"TTT_REDIS_MIN_IDLE_CONNS" env-default:"2"`
	GameTTL       time.Duration `yaml:"game-ttl" env:"TTT_REDIS_GAME_TTL" env-default:"720h"`
	InvitationTTL time.Duration `yaml:"invitation-ttl" env:"TTT_REDIS_INVITATION_TTL" env-default:"168h"`
}

type SQLite struct {
	Path string `yaml:"path" env:"TTT_SQLITE_PATH" env-default:"tictactoe.db"`
}

type Postgres struct {
	DSN string `yaml:"dsn" env:"TTT_POSTGRES_DSN"`
}

type Auth struct {
	SessionDuration time.Duration `yaml:"session-duration" env:"TTT_SESSION_DURATION" env-default:"24h"`
	JWTSecret       string        `yaml:"jwt-secret" env:"TTT_JWT_SECRET"`
}

// Load reads the YAML file at path, then applies environment overrides.
// With an empty path only the environment and defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed as defaults
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageMemory, StorageRedis, StorageSQLite:
	case StoragePostgres:
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage type %q requires a postgres dsn", c.Storage.Type)
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}

	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// NewLogger builds the JSON logger used by the server
func (c *Config) NewLogger() *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// Usage describes every supported environment variable
func Usage() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return text
}
