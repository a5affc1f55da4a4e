// Command atlasgen rasterizes a character range of a font into a glyph atlas
// and writes it as a grayscale BMP or PNG for inspection.
//
// Usage:
//
//	atlasgen --font DejaVuSans.ttf --size 16 --out atlas.bmp
//	atlasgen --config atlas.yaml --metrics
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/go-theft-auto/immg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	configPath string
	fontPath   string
	outPath    string
	size       int
	width      int
	height     int
	padding    int
	first      string
	last       string
	coverage   bool
	metrics    bool
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := pflag.NewFlagSet("atlasgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&o.configPath, "config", "c", "", "YAML config file")
	fs.StringVarP(&o.fontPath, "font", "f", "", "TrueType/OpenType font file")
	fs.StringVarP(&o.outPath, "out", "o", "atlas.bmp", "Output image (.bmp or .png)")
	fs.IntVarP(&o.size, "size", "s", 0, "Pixel size (overrides the config)")
	fs.IntVar(&o.width, "width", 0, "Atlas width (overrides the config)")
	fs.IntVar(&o.height, "height", 0, "Atlas height (overrides the config)")
	fs.IntVarP(&o.padding, "padding", "p", -1, "Padding between glyphs (overrides the config)")
	fs.StringVar(&o.first, "first", "", "First character (overrides the config)")
	fs.StringVar(&o.last, "last", "", "Last character (overrides the config)")
	fs.BoolVar(&o.coverage, "coverage", false, "Report characters the font has no glyph for")
	fs.BoolVarP(&o.metrics, "metrics", "m", false, "Print per-glyph metrics")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")

	err := fs.Parse(args)
	return o, err
}

// config merges the config file and flag overrides.
func (o options) config() (immg.Config, error) {
	cfg := immg.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = immg.LoadConfig(o.configPath); err != nil {
			return immg.Config{}, err
		}
	}
	if o.fontPath != "" {
		cfg.Font = o.fontPath
	}
	if o.size > 0 {
		cfg.PixelSize = o.size
	}
	if o.width > 0 {
		cfg.Atlas.Width = o.width
	}
	if o.height > 0 {
		cfg.Atlas.Height = o.height
	}
	if o.padding >= 0 {
		cfg.Atlas.Padding = o.padding
	}
	if o.first != "" {
		cfg.Chars.First = o.first
	}
	if o.last != "" {
		cfg.Chars.Last = o.last
	}
	if cfg.Font == "" {
		return immg.Config{}, fmt.Errorf("no font given: use --font or set font in the config")
	}
	return cfg, cfg.Validate()
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	immg.SetVerbose(o.verbose)

	cfg, err := o.config()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	atlasCfg, err := cfg.AtlasConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if o.coverage {
		data, err := os.ReadFile(cfg.Font)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading font: %v\n", err)
			return 1
		}
		missing, err := immg.FontCoverage(data, atlasCfg.First, atlasCfg.Last)
		if err != nil {
			fmt.Fprintf(stderr, "Error checking coverage: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "coverage: %d of %d characters missing\n",
			len(missing), int(atlasCfg.Last-atlasCfg.First)+1)
		for _, c := range missing {
			fmt.Fprintf(stdout, "  U+%04X %q\n", c, c)
		}
	}

	atlas, err := immg.BuildAtlas(immg.NewOpenTypeLoader(), cfg.Font, atlasCfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error building atlas: %v\n", err)
		return 1
	}

	if err := immg.SaveAtlas(o.outPath, atlas.Bitmap); err != nil {
		fmt.Fprintf(stderr, "Error writing atlas: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "%s: %dx%d, %d glyphs, %d skipped, %d pixels clipped\n",
		o.outPath, atlas.Bitmap.Width, atlas.Bitmap.Height,
		atlas.Table.Len(), len(atlas.Skipped), atlas.ClippedPixels)

	if o.metrics {
		printMetrics(stdout, atlas.Table)
	}
	return 0
}

// printMetrics writes one line per glyph in character order.
func printMetrics(w io.Writer, t *immg.GlyphTable) {
	keys := t.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, c := range keys {
		m, _ := t.Lookup(c)
		fmt.Fprintf(w, "%q size=%gx%g bearing=(%g,%g) advance=%d uv=(%.4f,%.4f)-(%.4f,%.4f)\n",
			c, m.Size.X, m.Size.Y, m.Bearing.X, m.Bearing.Y, m.Advance,
			m.UVMin.X, m.UVMin.Y, m.UVMax.X, m.UVMax.Y)
	}
}
