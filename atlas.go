package immg

import (
	"fmt"
	"image"
)

// AtlasBitmap is a single-channel coverage image holding every glyph.
// Rows are tightly packed: the stride equals Width.
type AtlasBitmap struct {
	Pix    []byte
	Width  int
	Height int
}

// NewAtlasBitmap allocates a zeroed bitmap.
func NewAtlasBitmap(width, height int) *AtlasBitmap {
	return &AtlasBitmap{
		Pix:    make([]byte, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the coverage at (x, y), or 0 outside the bitmap.
func (bm *AtlasBitmap) At(x, y int) byte {
	if x < 0 || y < 0 || x >= bm.Width || y >= bm.Height {
		return 0
	}
	return bm.Pix[y*bm.Width+x]
}

// Image returns a grayscale view of the bitmap sharing its pixels.
func (bm *AtlasBitmap) Image() *image.Gray {
	return &image.Gray{
		Pix:    bm.Pix,
		Stride: bm.Width,
		Rect:   image.Rect(0, 0, bm.Width, bm.Height),
	}
}

// AtlasConfig controls an atlas build.
type AtlasConfig struct {
	PixelSize int  // Nominal glyph height; also the shelf row height
	Width     int  // Atlas width in pixels
	Height    int  // Atlas height in pixels
	Padding   int  // Gap around and between glyphs
	First     rune // First character code, inclusive
	Last      rune // Last character code, inclusive

	// TableCapacity is the glyph table slot count (a power of two).
	// Zero selects TableCapacityFor(Last-First+1).
	TableCapacity int
}

// DefaultAtlasConfig returns a config covering printable ASCII at 16 px.
func DefaultAtlasConfig() AtlasConfig {
	return AtlasConfig{
		PixelSize: 16,
		Width:     256,
		Height:    256,
		Padding:   4,
		First:     ' ',
		Last:      '~',
	}
}

// Validate checks the config for values the builder cannot work with.
func (c AtlasConfig) Validate() error {
	switch {
	case c.PixelSize <= 0:
		return fmt.Errorf("%w: pixel size %d", ErrInvalidConfig, c.PixelSize)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: atlas size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Padding < 0:
		return fmt.Errorf("%w: padding %d", ErrInvalidConfig, c.Padding)
	case c.Last < c.First:
		return fmt.Errorf("%w: empty character range %q..%q", ErrInvalidConfig, c.First, c.Last)
	case c.TableCapacity < 0 || c.TableCapacity&(c.TableCapacity-1) != 0:
		return fmt.Errorf("%w: table capacity %d", ErrInvalidConfig, c.TableCapacity)
	}
	return nil
}

func (c AtlasConfig) tableCapacity() int {
	if c.TableCapacity > 0 {
		return c.TableCapacity
	}
	return TableCapacityFor(int(c.Last-c.First) + 1)
}

// Atlas is the result of a build: one bitmap and the metrics of every glyph
// packed into it. Both are read-only once BuildAtlas returns without error.
type Atlas struct {
	Bitmap    *AtlasBitmap
	Table     *GlyphTable
	PixelSize int

	// Skipped lists characters the rasterizer failed on. They have no table entry.
	Skipped []rune

	// ClippedPixels counts glyph pixels that fell outside the bitmap.
	ClippedPixels int
}

// BuildAtlas opens the font at path and packs cfg's character range into a
// new atlas.
func BuildAtlas(loader FontLoader, path string, cfg AtlasConfig) (*Atlas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	face, err := loader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFontOpen, path, err)
	}
	if c, ok := face.(interface{ Close() error }); ok {
		defer c.Close()
	}
	return BuildAtlasFace(face, cfg)
}

// BuildAtlasFace packs cfg's character range from an open face.
//
// Glyphs are placed on shelves left to right starting at (Padding, Padding).
// When a glyph does not fit in the rest of the row the cursor moves down by
// PixelSize+Padding; a glyph taller than PixelSize overlaps the next shelf.
// Pixels that land outside the bitmap are dropped, not reported as errors.
//
// On ErrTableOverflow the partly filled atlas is returned with the error.
func BuildAtlasFace(face Face, cfg AtlasConfig) (*Atlas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := face.SetPixelSize(cfg.PixelSize); err != nil {
		return nil, fmt.Errorf("%w: set pixel size: %w", ErrFontOpen, err)
	}
	table, err := NewGlyphTable(cfg.tableCapacity())
	if err != nil {
		return nil, err
	}

	a := &Atlas{
		Bitmap:    NewAtlasBitmap(cfg.Width, cfg.Height),
		Table:     table,
		PixelSize: cfg.PixelSize,
	}
	p := shelfPacker{
		width:     cfg.Width,
		padding:   cfg.Padding,
		rowHeight: cfg.PixelSize,
		x:         cfg.Padding,
		y:         cfg.Padding,
	}
	size := Vec2{X: float32(cfg.Width), Y: float32(cfg.Height)}
	log := Logger()

	for c := cfg.First; c <= cfg.Last; c++ {
		g, err := face.Rasterize(c)
		if err != nil {
			log.Warn("atlas: skipping glyph", "char", string(c), "code", int(c), "err", err)
			a.Skipped = append(a.Skipped, c)
			continue
		}

		x, y := p.place(g.Width)
		a.ClippedPixels += a.Bitmap.blit(g, x, y)

		m := GlyphMetrics{
			UVMin:   Vec2{X: float32(x), Y: float32(y)}.Div(size),
			UVMax:   Vec2{X: float32(x + g.Width), Y: float32(y + g.Height)}.Div(size),
			Size:    Vec2{X: float32(g.Width), Y: float32(g.Height)},
			Bearing: Vec2{X: float32(g.BearingX), Y: float32(g.BearingY)},
			Advance: g.Advance,
		}
		if err := table.Insert(c, m); err != nil {
			return a, err
		}
	}

	table.seal()
	if a.ClippedPixels > 0 {
		log.Warn("atlas: glyphs exceed bitmap, pixels clipped",
			"clipped", a.ClippedPixels, "width", cfg.Width, "height", cfg.Height)
	}
	log.Info("atlas built",
		"glyphs", table.Len(), "skipped", len(a.Skipped),
		"width", cfg.Width, "height", cfg.Height, "pixelSize", cfg.PixelSize)
	return a, nil
}

// shelfPacker places glyphs left to right on rows of fixed height.
type shelfPacker struct {
	width     int
	padding   int
	rowHeight int
	x, y      int
}

// place returns the top-left position for a glyph of width w and advances
// the cursor past it.
func (p *shelfPacker) place(w int) (x, y int) {
	if p.x+w >= p.width {
		p.x = p.padding
		p.y += p.rowHeight + p.padding
	}
	x, y = p.x, p.y
	p.x += w + p.padding
	return x, y
}

// blit copies a glyph into the bitmap at (x, y), dropping pixels outside
// the bitmap. Returns the number of dropped pixels.
func (bm *AtlasBitmap) blit(g GlyphBitmap, x, y int) int {
	clipped := 0
	for py := 0; py < g.Height; py++ {
		dy := y + py
		for px := 0; px < g.Width; px++ {
			dx := x + px
			if dx >= bm.Width || dy >= bm.Height || dx < 0 || dy < 0 {
				clipped++
				continue
			}
			bm.Pix[dy*bm.Width+dx] = g.at(px, py)
		}
	}
	return clipped
}
