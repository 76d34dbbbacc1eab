package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballistics/internal/physics"
)

const (
	DefaultAddr           = ":8080"
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultRequestTimeout = 15 * time.Second
	DefaultMaxConcurrent  = 64
	DefaultMaxBodyBytes   = 1 << 20
	DefaultMaxBatch       = 16
	DefaultDataDir        = ".ballistics"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Physics PhysicsConfig `yaml:"physics"`
	DataDir string        `yaml:"data_dir"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxConcurrent  int64         `yaml:"max_concurrent"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	MaxBatch       int           `yaml:"max_batch"`
	LogLevel       string        `yaml:"log_level"`
}

type PhysicsConfig struct {
	Gravity    float64 `yaml:"gravity"`
	AirDensity float64 `yaml:"air_density"`
	Dt         float64 `yaml:"dt"`
	MaxTime    float64 `yaml:"max_time"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           DefaultAddr,
			ReadTimeout:    DefaultReadTimeout,
			WriteTimeout:   DefaultWriteTimeout,
			RequestTimeout: DefaultRequestTimeout,
			MaxConcurrent:  DefaultMaxConcurrent,
			MaxBodyBytes:   DefaultMaxBodyBytes,
			MaxBatch:       DefaultMaxBatch,
			LogLevel:       "info",
		},
		Physics: PhysicsConfig{
			Gravity:    physics.DefaultGravity,
			AirDensity: physics.DefaultAirDensity,
			Dt:         physics.DefaultDt,
			MaxTime:    physics.DefaultMaxTime,
		},
		DataDir: DefaultDataDir,
	}
}

// Load reads a YAML file on top of the defaults, so a file only needs the
// keys it overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.MaxConcurrent <= 0 {
		return fmt.Errorf("server.max_concurrent must be positive, got %d", c.Server.MaxConcurrent)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Server.MaxBatch <= 0 {
		return fmt.Errorf("server.max_batch must be positive, got %d", c.Server.MaxBatch)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %s", c.Server.RequestTimeout)
	}
	if err := c.Environment().Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}
	return nil
}

func (c *Config) Environment() physics.Environment {
	return physics.Environment{
		Gravity:    c.Physics.Gravity,
		AirDensity: c.Physics.AirDensity,
		Dt:         c.Physics.Dt,
		MaxTime:    c.Physics.MaxTime,
	}
}
