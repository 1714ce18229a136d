package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is read when --config is not given. A missing file is not an error.
	DefaultConfigPath = "config.yml"

	defaultPort            = 9090
	defaultEnv             = EnvDevelopment
	defaultLogLevel        = "debug"
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultConnMaxIdleTime = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Port     int            `yaml:"port"`
	Env      string         `yaml:"env"`
	LogLevel string         `yaml:"log_level"`
	Database DatabaseConfig `yaml:"database"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`

	// QueryTimeout bounds each statement on top of the request context. Zero disables it.
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

func Default() Config {
	return Config{
		Port:     defaultPort,
		Env:      defaultEnv,
		LogLevel: defaultLogLevel,
		Database: DatabaseConfig{
			MaxOpenConns:    defaultMaxOpenConns,
			MaxIdleConns:    defaultMaxIdleConns,
			ConnMaxIdleTime: defaultConnMaxIdleTime,
		},
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// Load builds the configuration from defaults, the YAML file at path, a .env
// file in the working directory and finally the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}
	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, xerrors.Newf("config: reading .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Database.URL == "" {
		return xerrors.New("config: database URL required (use --db or DATABASE_URL)")
	}
	if c.Port < 1 || c.Port > 65535 {
		return xerrors.Newf("config: invalid port %d", c.Port)
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return xerrors.Newf("config: unknown env %q", c.Env)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return xerrors.Newf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return xerrors.Newf("config: parsing %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return xerrors.New("config: invalid PORT env variable")
		}
		cfg.Port = port
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	if err := envInt("DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns); err != nil {
		return err
	}
	if err := envInt("DB_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns); err != nil {
		return err
	}
	if err := envDuration("DB_CONN_MAX_IDLE_TIME", &cfg.Database.ConnMaxIdleTime); err != nil {
		return err
	}
	return envDuration("DB_QUERY_TIMEOUT", &cfg.Database.QueryTimeout)
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return xerrors.Newf("config: invalid %s env variable", key)
	}
	*dst = i
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return xerrors.Newf("config: invalid %s env variable", key)
	}
	*dst = d
	return nil
}
