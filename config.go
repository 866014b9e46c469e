package lilac

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/lilac/script"
)

// ErrConfig is returned for an unreadable or invalid configuration file.
var ErrConfig = errors.New("lilac: invalid configuration")

// Config is the optional lilac.toml configuration.
type Config struct {
	// Limits are the defaults for scripts that do not set them in the header.
	Limits script.Limits `toml:"limits"`

	Text TextConfig `toml:"text"`
}

// TextConfig configures text nodes.
type TextConfig struct {
	// Font is the default font file. Empty selects the built-in Go Regular.
	Font string `toml:"font"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{Limits: script.DefaultLimits()}
}

// LoadConfig reads a TOML configuration file. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: cannot read %s: %w", ErrConfig, path, err)
	}
	c, err := ParseConfig(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseConfig decodes TOML configuration text over the defaults. Unknown
// keys and out-of-range limits are errors.
func ParseConfig(data string) (Config, error) {
	c := DefaultConfig()
	md, err := toml.Decode(data, &c)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrConfig, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the limits against their ranges.
func (c Config) Validate() error {
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}
