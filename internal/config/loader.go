package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HamStudy/scrollwin/configs"
	"github.com/HamStudy/scrollwin/internal/components/performance"
	"github.com/HamStudy/scrollwin/internal/components/style"
)

const configFileName = "config.yaml"

// Config represents the main configuration structure
type Config struct {
	Version  string       `yaml:"version"`
	Theme    string       `yaml:"theme"`
	List     ListConfig   `yaml:"list"`
	Source   SourceConfig `yaml:"source"`
	Settings Settings     `yaml:"settings"`
}

// ListConfig defines the geometry of the windowed list
type ListConfig struct {
	RowHeight      int    `yaml:"rowHeight"`
	Overscan       int    `yaml:"overscan"`
	ViewportHeight int    `yaml:"viewportHeight"`
	Scrollbar      bool   `yaml:"scrollbar"`
	ScrollEndDelay string `yaml:"scrollEndDelay"`
}

// SourceConfig selects the items to show
type SourceConfig struct {
	Generate int    `yaml:"generate"`
	File     string `yaml:"file"`
}

// Settings defines user preferences
type Settings struct {
	Mouse     bool   `yaml:"mouse"`
	AltScreen bool   `yaml:"altScreen"`
	LogFile   string `yaml:"logFile"`
}

// WindowConfig returns the window geometry for a terminal area of
// availableHeight lines. A zero viewport height fills the area.
func (c *Config) WindowConfig(availableHeight int) performance.Config {
	height := c.List.ViewportHeight
	if height == 0 || height > availableHeight {
		height = availableHeight
	}
	return performance.Config{
		RowHeight:      c.List.RowHeight,
		ViewportHeight: height,
		Overscan:       c.List.Overscan,
	}
}

// ScrollEndDelay returns the parsed scroll end delay
func (c *Config) ScrollEndDelay() time.Duration {
	delay, err := time.ParseDuration(c.List.ScrollEndDelay)
	if err != nil {
		return 0
	}
	return delay
}

// Validate checks a configuration for values the list cannot use
func (c *Config) Validate() error {
	if c.List.RowHeight <= 0 {
		return fmt.Errorf("list.rowHeight must be positive, got %d: %w", c.List.RowHeight, performance.ErrInvalidConfiguration)
	}
	if c.List.Overscan < 0 {
		return fmt.Errorf("list.overscan must not be negative, got %d: %w", c.List.Overscan, performance.ErrInvalidConfiguration)
	}
	if c.List.ViewportHeight < 0 {
		return fmt.Errorf("list.viewportHeight must not be negative, got %d: %w", c.List.ViewportHeight, performance.ErrInvalidConfiguration)
	}
	if c.List.ScrollEndDelay != "" {
		if _, err := time.ParseDuration(c.List.ScrollEndDelay); err != nil {
			return fmt.Errorf("list.scrollEndDelay: %w", err)
		}
	}
	if c.Source.Generate < 0 {
		return fmt.Errorf("source.generate must not be negative, got %d", c.Source.Generate)
	}
	if _, err := style.ThemeByName(c.Theme); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	return nil
}

// Loader handles configuration loading and management
type Loader struct {
	configDir string
	defaults  *Config
	merged    *Config
	mu        sync.RWMutex
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/scrollwin, falling back to
// ~/.config/scrollwin
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scrollwin")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scrollwin")
}

// NewLoader creates a new configuration loader
func NewLoader(configDir string) (*Loader, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	defaults, err := decode(bytes.NewReader(configs.DefaultConfig), &Config{})
	if err != nil {
		return nil, fmt.Errorf("invalid built-in config: %w", err)
	}

	return &Loader{
		configDir: configDir,
		defaults:  defaults,
	}, nil
}

// Path returns the user configuration file path
func (l *Loader) Path() string {
	return filepath.Join(l.configDir, configFileName)
}

// Load layers the user configuration file, if present, over the defaults
func (l *Loader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.Path())
	if errors.Is(err, os.ErrNotExist) {
		l.merged = l.defaults
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open user config: %w", err)
	}
	defer file.Close()

	merged, err := l.parseConfig(file)
	if err != nil {
		return fmt.Errorf("failed to load user config %s: %w", l.Path(), err)
	}
	l.merged = merged
	return nil
}

// LoadFile loads a specific configuration file over the defaults and makes
// it current
func (l *Loader) LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config, err := l.parseConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.mu.Lock()
	l.merged = config
	l.mu.Unlock()
	return config, nil
}

// LoadString parses configuration from a string over the defaults
func (l *Loader) LoadString(content string) (*Config, error) {
	return l.parseConfig(strings.NewReader(content))
}

// parseConfig decodes r on top of a copy of the defaults
func (l *Loader) parseConfig(r io.Reader) (*Config, error) {
	base := *l.defaults
	return decode(r, &base)
}

func decode(r io.Reader, into *Config) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(into); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if into.Version == "" {
		into.Version = "1.0.0"
	}
	if into.Theme == "" {
		into.Theme = "default"
	}

	if err := into.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return into, nil
}

// Get returns the current configuration
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.merged != nil {
		return l.merged
	}
	return l.defaults
}

// Save writes the current configuration to the user file
func (l *Loader) Save() error {
	config := l.Get()

	if err := os.MkdirAll(l.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
