package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/KevoDB/iterfacade/pkg/block"
	"github.com/KevoDB/iterfacade/pkg/common/log"
	"github.com/KevoDB/iterfacade/pkg/telemetry"
)

const (
	CurrentConfigVersion = 1
	DefaultHistoryFile   = ".iterwalk_history"
)

var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrConfigNotFound = errors.New("config file not found")
	ErrUnknownFormat  = errors.New("unknown config file format")
)

// Sources the REPL can open an iterator over
const (
	SourceMonths  = "months"
	SourceWrapped = "wrapped"
	SourceSlice   = "slice"
	SourceBlock   = "block"
)

// Sources lists every valid Source value
var Sources = []string{SourceMonths, SourceWrapped, SourceSlice, SourceBlock}

type Config struct {
	Version int `json:"version" yaml:"version"`

	// Session configuration
	LogLevel    string `json:"log_level" yaml:"log_level"`
	Prompt      string `json:"prompt" yaml:"prompt"`
	HistoryFile string `json:"history_file" yaml:"history_file"`

	// Iterator source configuration
	Source       string `json:"source" yaml:"source"`
	Codec        string `json:"codec" yaml:"codec"`
	SliceValues  []int  `json:"slice_values" yaml:"slice_values"`
	BlockEntries int    `json:"block_entries" yaml:"block_entries"`

	Telemetry telemetry.Config `json:"telemetry" yaml:"telemetry"`

	mu sync.RWMutex
}

// NewDefaultConfig creates a Config with recommended default values
func NewDefaultConfig() *Config {
	history := DefaultHistoryFile
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, DefaultHistoryFile)
	}

	return &Config{
		Version: CurrentConfigVersion,

		LogLevel:    "info",
		Prompt:      "iterwalk> ",
		HistoryFile: history,

		Source:       SourceSlice,
		Codec:        block.CodecSnappy.String(),
		SliceValues:  []int{10, 20, 30, 40, 50},
		BlockEntries: 16,

		Telemetry: telemetry.DefaultConfig(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validate()
}

func (c *Config) validate() error {
	if c.Version <= 0 {
		return fmt.Errorf("%w: invalid version %d", ErrInvalidConfig, c.Version)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	valid := false
	for _, s := range Sources {
		if c.Source == s {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}

	if _, err := block.ParseCodec(c.Codec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Source == SourceSlice && len(c.SliceValues) == 0 {
		return fmt.Errorf("%w: slice source needs at least one value", ErrInvalidConfig)
	}

	if c.BlockEntries <= 0 || c.BlockEntries > block.MaxBlockEntries {
		return fmt.Errorf("%w: block entries must be between 1 and %d", ErrInvalidConfig, block.MaxBlockEntries)
	}

	if c.Telemetry.Enabled {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("%w: telemetry: %v", ErrInvalidConfig, err)
		}
	}

	return nil
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadConfig reads a JSON or YAML configuration file, chosen by extension.
// Fields missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := NewDefaultConfig()
	switch f {
	case formatJSON:
		err = json.Unmarshal(data, cfg)
	case formatYAML:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to path, in the format its extension names
func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.validate(); err != nil {
		return err
	}

	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatJSON:
		data, err = json.MarshalIndent(c, "", "  ")
	case formatYAML:
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename config: %w", err)
	}

	return nil
}

// Update applies the given function to modify the configuration
func (c *Config) Update(fn func(*Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}
