/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the texrec configuration
type Config struct {
	Document Document `yaml:"document"`
	Texture  Texture  `yaml:"texture"`
	Logging  Logging  `yaml:"logging"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Document contains document output settings
type Document struct {
	Format string `yaml:"format"`
}

// Texture contains defaults for textures built from image files
type Texture struct {
	Format         string `yaml:"format"`
	Filter         string `yaml:"filter"`
	MipCount       int    `yaml:"mip_count"`
	PNGCompression string `yaml:"png_compression"`
	BlankColor     string `yaml:"blank_color"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// Metrics contains metrics configuration
type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Document: Document{
			Format: "yaml",
		},
		Texture: Texture{
			Format:         "RGBA32",
			Filter:         "bilinear",
			MipCount:       -1,
			PNGCompression: "default",
			BlankColor:     "ffffffff",
		},
		Logging: Logging{
			Level: "info",
		},
		Metrics: Metrics{
			Enabled:   false,
			Namespace: "texrec",
		},
	}
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes the default configuration to configPath
func BootstrapConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}
	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./texrec.yaml"
	}

	// For Linux/macOS, use ~/.config/texrec/config.yaml
	configDir := filepath.Join(homeDir, ".config", "texrec")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

// Validate checks the values that are parsed lazily by the accessors
func (c *Config) Validate() error {
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	if _, err := c.Texture.Compression(); err != nil {
		return err
	}
	if _, err := c.Texture.Blank(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps the configured level name to a slog level
func (l Logging) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}

// Compression maps the configured PNG compression name to an encoder level
func (t Texture) Compression() (png.CompressionLevel, error) {
	switch strings.ToLower(t.PNGCompression) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed", "fast":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return png.DefaultCompression, fmt.Errorf("invalid png compression %q", t.PNGCompression)
	}
}

// Blank parses the blank texture color, written as RRGGBB or RRGGBBAA hex
func (t Texture) Blank() (color.NRGBA, error) {
	s := strings.TrimPrefix(t.BlankColor, "#")
	b, err := hex.DecodeString(s)
	if err != nil || (len(b) != 3 && len(b) != 4) {
		return color.NRGBA{}, fmt.Errorf("invalid blank color %q", t.BlankColor)
	}
	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}
