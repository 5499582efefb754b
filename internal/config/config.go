package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ExploryKod/Anoria/internal/domain/economy"

	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	TurnIntervalMS int     `yaml:"turn_interval_ms"`
	GridSize       int     `yaml:"grid_size"`
	Store          string  `yaml:"store"`
	SQLitePath     string  `yaml:"sqlite_path"`
	DatabaseDSN    string  `yaml:"db_dsn"`
	HTTPAddr       string  `yaml:"http_addr"`
	StreamAddr     string  `yaml:"stream_addr"`
	TerrainSeed    int64   `yaml:"terrain_seed"`
	WaterLevel     float64 `yaml:"water_level"`
	LogLevel       string  `yaml:"log_level"`

	// CommandRate is the per-client command budget per second.
	CommandRate int `yaml:"command_rate"`

	DebtLimit     int `yaml:"debt_limit"`
	DeathLimit    int `yaml:"death_limit"`
	IdleAfterTurn int `yaml:"idle_after_turn"`
	StartingFunds int `yaml:"starting_funds"`
}

func Default() Config {
	rules := economy.DefaultRules()
	return Config{
		TurnIntervalMS: 4000,
		GridSize:       16,
		Store:          StoreMemory,
		SQLitePath:     "anoria.db",
		HTTPAddr:       ":8080",
		StreamAddr:     ":8081",
		WaterLevel:     0.2,
		LogLevel:       "info",
		CommandRate:    5,
		DebtLimit:      rules.DebtLimit,
		DeathLimit:     rules.DeathLimit,
		IdleAfterTurn:  rules.IdleAfterTurn,
		StartingFunds:  rules.StartingFunds,
	}
}

// Load reads defaults, then the YAML file at path if one is given, then
// ANORIA_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.TurnIntervalMS = intEnv("ANORIA_TURN_INTERVAL_MS", c.TurnIntervalMS)
	c.GridSize = intEnv("ANORIA_GRID_SIZE", c.GridSize)
	c.Store = stringEnv("ANORIA_STORE", c.Store)
	c.SQLitePath = stringEnv("ANORIA_SQLITE_PATH", c.SQLitePath)
	c.DatabaseDSN = stringEnv("ANORIA_DB_DSN", c.DatabaseDSN)
	c.HTTPAddr = stringEnv("ANORIA_HTTP_ADDR", c.HTTPAddr)
	c.StreamAddr = stringEnv("ANORIA_STREAM_ADDR", c.StreamAddr)
	c.TerrainSeed = int64(intEnv("ANORIA_TERRAIN_SEED", int(c.TerrainSeed)))
	c.WaterLevel = floatEnv("ANORIA_WATER_LEVEL", c.WaterLevel)
	c.LogLevel = stringEnv("ANORIA_LOG_LEVEL", c.LogLevel)
	c.CommandRate = intEnv("ANORIA_COMMAND_RATE", c.CommandRate)
	c.DebtLimit = intEnv("ANORIA_DEBT_LIMIT", c.DebtLimit)
	c.DeathLimit = intEnv("ANORIA_DEATH_LIMIT", c.DeathLimit)
	c.IdleAfterTurn = intEnv("ANORIA_IDLE_AFTER_TURN", c.IdleAfterTurn)
	c.StartingFunds = intEnv("ANORIA_STARTING_FUNDS", c.StartingFunds)
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseDSN) == "" {
			return fmt.Errorf("%w: postgres store needs a dsn", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if c.GridSize < 3 {
		return fmt.Errorf("%w: grid size %d", ErrInvalidConfig, c.GridSize)
	}
	if c.TurnIntervalMS <= 0 {
		return fmt.Errorf("%w: turn interval %dms", ErrInvalidConfig, c.TurnIntervalMS)
	}
	return nil
}

func (c Config) Rules() economy.Rules {
	return economy.Rules{
		DebtLimit:     c.DebtLimit,
		DeathLimit:    c.DeathLimit,
		IdleAfterTurn: c.IdleAfterTurn,
		StartingFunds: c.StartingFunds,
	}
}

func (c Config) TurnInterval() time.Duration {
	return time.Duration(c.TurnIntervalMS) * time.Millisecond
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
