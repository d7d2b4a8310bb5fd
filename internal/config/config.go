package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TableEnv     = "DYNAMODB_TABLE"
	DefaultTable = "todo-table-dev"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	Store      StoreConfig      `yaml:"store"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	CORS       CORSConfig       `yaml:"cors"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // dynamodb, redis, postgres, inmemory
}

type StoreConfig struct {
	Table       string `yaml:"table"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	RedisURL    string `yaml:"redis_url"`
	PostgresURL string `yaml:"postgres_url"`
}

// RateLimitConfig is keyed on the peer address, so leave it off (0) behind a
// load balancer.
type RateLimitConfig struct {
	RPM int `yaml:"rpm"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

const (
	RepoDynamo   = "dynamodb"
	RepoRedis    = "redis"
	RepoPostgres = "postgres"
	RepoInMemory = "inmemory"
)

func Default() *Config {
	return &Config{
		Server:     ServerConfig{Host: "0.0.0.0", Port: "80"},
		Repository: RepositoryConfig{Type: RepoDynamo},
		Store: StoreConfig{
			Table:  DefaultTable,
			Region: "us-east-1",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// DYNAMODB_TABLE always wins over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open %s: %w", path, err)
	default:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if table := strings.TrimSpace(os.Getenv(TableEnv)); table != "" {
		cfg.Store.Table = table
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepoDynamo, RepoRedis, RepoPostgres, RepoInMemory:
	default:
		return fmt.Errorf("unknown repository type %q", c.Repository.Type)
	}
	if c.Store.Table == "" {
		return errors.New("store table must not be empty")
	}
	if c.Repository.Type == RepoPostgres && c.Store.PostgresURL == "" {
		return errors.New("store.postgres_url is required for postgres repository")
	}
	if c.Repository.Type == RepoRedis && c.Store.RedisURL == "" {
		return errors.New("store.redis_url is required for redis repository")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
