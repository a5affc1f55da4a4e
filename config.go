package immg

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config is the file form of an atlas build plus the per-frame batch size.
//
//	font: fonts/DejaVuSansMono.ttf
//	pixel_size: 16
//	atlas:
//	  width: 256
//	  height: 256
//	  padding: 4
//	chars:
//	  first: " "
//	  last: "~"
//	max_quads: 4096
//	fallback: "?"
type Config struct {
	Font          string      `yaml:"font"`
	PixelSize     int         `yaml:"pixel_size"`
	Atlas         AtlasLayout `yaml:"atlas"`
	Chars         CharRange   `yaml:"chars"`
	TableCapacity int         `yaml:"table_capacity,omitempty"`
	MaxQuads      int         `yaml:"max_quads"`
	Fallback      string      `yaml:"fallback"`
}

// AtlasLayout is the bitmap geometry section of a Config.
type AtlasLayout struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Padding int `yaml:"padding"`
}

// CharRange is an inclusive character range. Each bound is a single character.
type CharRange struct {
	First string `yaml:"first"`
	Last  string `yaml:"last"`
}

// DefaultConfig returns the config used when no file is given.
func DefaultConfig() Config {
	a := DefaultAtlasConfig()
	return Config{
		PixelSize: a.PixelSize,
		Atlas:     AtlasLayout{Width: a.Width, Height: a.Height, Padding: a.Padding},
		Chars:     CharRange{First: string(a.First), Last: string(a.Last)},
		MaxQuads:  DefaultMaxQuads,
		Fallback:  string(DefaultFallback),
	}
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML config data over DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config.
func (c Config) Validate() error {
	if _, err := c.AtlasConfig(); err != nil {
		return err
	}
	if c.MaxQuads <= 0 {
		return fmt.Errorf("%w: max_quads %d", ErrInvalidConfig, c.MaxQuads)
	}
	if _, err := singleChar("fallback", c.Fallback); err != nil {
		return err
	}
	return nil
}

// AtlasConfig converts the file form into builder settings.
func (c Config) AtlasConfig() (AtlasConfig, error) {
	first, err := singleChar("chars.first", c.Chars.First)
	if err != nil {
		return AtlasConfig{}, err
	}
	last, err := singleChar("chars.last", c.Chars.Last)
	if err != nil {
		return AtlasConfig{}, err
	}
	a := AtlasConfig{
		PixelSize:     c.PixelSize,
		Width:         c.Atlas.Width,
		Height:        c.Atlas.Height,
		Padding:       c.Atlas.Padding,
		First:         first,
		Last:          last,
		TableCapacity: c.TableCapacity,
	}
	return a, a.Validate()
}

// FallbackRune returns the configured fallback glyph.
func (c Config) FallbackRune() rune {
	r, err := singleChar("fallback", c.Fallback)
	if err != nil {
		return DefaultFallback
	}
	return r
}

// ContextOptions returns the Context options implied by the config.
func (c Config) ContextOptions() []Option {
	return []Option{
		WithMaxQuads(c.MaxQuads),
		WithFallbackGlyph(c.FallbackRune()),
	}
}

// singleChar decodes a one-character string.
func singleChar(field, s string) (rune, error) {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 || n != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: %s must be a single character, got %q", ErrInvalidConfig, field, s)
	}
	return r, nil
}
