package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/integrators"
	"github.com/san-kum/climsim/internal/logger"
	"github.com/san-kum/climsim/internal/sim"
)

const (
	DefaultTheme    = "ocean"
	DefaultLogLevel = "info"
	DefaultHTTPAddr = ":8080"
)

type Config struct {
	Params             climate.Params `yaml:"params"`
	InitialTemperature float64        `yaml:"initial_temperature"`
	Dt                 float64        `yaml:"dt"`
	TickInterval       time.Duration  `yaml:"tick_interval"`
	Window             int            `yaml:"window"`
	Integrator         string         `yaml:"integrator"`
	// Language is a BCP 47 tag or POSIX locale; empty detects from $LANG.
	Language string `yaml:"language"`
	Theme    string `yaml:"theme"`
	LogLevel string `yaml:"log_level"`
	HTTPAddr string `yaml:"http_addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:             climate.DefaultParams(),
		InitialTemperature: climate.DefaultTemperature,
		Dt:                 sim.DefaultDt,
		TickInterval:       sim.DefaultInterval,
		Window:             sim.DefaultWindow,
		Integrator:         "euler",
		Theme:              DefaultTheme,
		LogLevel:           DefaultLogLevel,
		HTTPAddr:           DefaultHTTPAddr,
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path is
// empty or the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.Dt))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval))
	}
	if c.Window <= 0 {
		errs = append(errs, fmt.Errorf("window must be positive, got %d", c.Window))
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		errs = append(errs, err)
	}
	if _, ok := logger.ParseLogLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Model builds a climate model from the configured parameters, initial
// temperature and integrator.
func (c *Config) Model() (*climate.Model, error) {
	integ, err := integrators.Get(c.Integrator)
	if err != nil {
		return nil, err
	}
	m := climate.New(c.Params, c.InitialTemperature)
	m.SetIntegrator(integ)
	return m, nil
}

// ApplyPreset copies a preset's parameters and initial temperature.
func (c *Config) ApplyPreset(p Preset) {
	c.Params = p.Params
	c.InitialTemperature = p.InitialTemperature
}
