package lilac

import (
	"log/slog"

	"github.com/gogpu/lilac/plugin"
)

// Option configures an Engine during creation.
//
// Example:
//
//	cfg, err := lilac.LoadConfig("lilac.toml")
//	if err != nil {
//	    return err
//	}
//	eng := lilac.New(lilac.WithConfig(cfg), lilac.WithLogger(logger))
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	logger  *slog.Logger
	plugins []plugin.Plugin
	config  Config
}

func defaultOptions() options {
	return options{
		plugins: plugin.Default(),
		config:  DefaultConfig(),
	}
}

// WithLogger sets the logger for one engine. Without it the engine uses
// the package logger at creation time.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPlugins replaces the node types available to scripts. The default is
// every plugin registered with the plugin package, which includes the
// built-in nodes.
//
// Example:
//
//	plugins := append(plugin.Default(), plugin.Plugin{Name: "noise", Init: noise.Init})
//	eng := lilac.New(lilac.WithPlugins(plugins...))
func WithPlugins(plugins ...plugin.Plugin) Option {
	return func(o *options) {
		o.plugins = plugins
	}
}

// WithConfig sets the default limits and font. Header metacommands still
// override the limits per script.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c
	}
}
