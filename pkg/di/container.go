// Package di provides dependency injection container
package di

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ssargent/texturedata/pkg/config"
	"github.com/ssargent/texturedata/pkg/graphics"
	"github.com/ssargent/texturedata/pkg/texrecord"
)

// Container holds all the dependencies for the application
type Container struct {
	config   *config.Config
	logger   *slog.Logger
	device   *graphics.Device
	registry *prometheus.Registry
	metrics  *texrecord.Metrics
}

// NewContainer creates a new dependency injection container from cfg.
// Logs are written as text to logOutput. A nil cfg uses the defaults.
func NewContainer(cfg *config.Config, logOutput io.Writer) (*Container, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return nil, err
	}
	compression, err := cfg.Texture.Compression()
	if err != nil {
		return nil, err
	}
	blank, err := cfg.Texture.Blank()
	if err != nil {
		return nil, err
	}

	c := &Container{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level})),
		device: graphics.NewDevice(
			graphics.WithCompression(compression),
			graphics.WithBlankColor(blank),
		),
	}

	if cfg.Metrics.Enabled {
		c.registry = prometheus.NewRegistry()
		c.metrics = texrecord.NewMetrics(c.registry, cfg.Metrics.Namespace)
	}

	return c, nil
}

// GetConfig returns the configuration the container was built from
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *slog.Logger {
	return c.logger
}

// GetDevice returns the graphics device textures are allocated on
func (c *Container) GetDevice() *graphics.Device {
	return c.device
}

// GetRegistry returns the metrics registry, or nil when metrics are disabled
func (c *Container) GetRegistry() *prometheus.Registry {
	return c.registry
}

// GetMetrics returns the record counters, or nil when metrics are disabled
func (c *Container) GetMetrics() *texrecord.Metrics {
	return c.metrics
}

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// RecordOptions returns the options that bind a record to this container's
// device, logger and metrics.
func (c *Container) RecordOptions() []texrecord.Option {
	opts := []texrecord.Option{
		texrecord.WithHost(c.device),
		texrecord.WithLogger(c.logger),
	}
	if c.metrics != nil {
		opts = append(opts, texrecord.WithMetrics(c.metrics))
	}
	return opts
}

// TextureDefaults resolves the texture settings used when building a
// texture from an image file.
func (c *Container) TextureDefaults() (graphics.Format, graphics.FilterMode, int, error) {
	format, err := graphics.ParseFormat(c.config.Texture.Format)
	if err != nil {
		return graphics.FormatUnknown, graphics.FilterBilinear, 0, fmt.Errorf("texture.format: %w", err)
	}
	filter, err := graphics.ParseFilterMode(c.config.Texture.Filter)
	if err != nil {
		return graphics.FormatUnknown, graphics.FilterBilinear, 0, fmt.Errorf("texture.filter: %w", err)
	}
	return format, filter, c.config.Texture.MipCount, nil
}
