package immg

// FontLoader opens a font file and returns a Face that can rasterize single
// characters. The atlas builder depends only on this interface, so tests and
// applications can inject their own rasterizer.
//
// Example usage:
//
//	loader := immg.NewOpenTypeLoader()
//	atlas, err := immg.BuildAtlas(loader, "fonts/DejaVuSans.ttf", immg.DefaultAtlasConfig())
type FontLoader interface {
	// Open loads the font at path.
	// The returned error is wrapped in ErrFontOpen by the atlas builder.
	Open(path string) (Face, error)
}

// Face rasterizes characters of one font at one pixel size.
type Face interface {
	// SetPixelSize selects the nominal glyph height in pixels.
	SetPixelSize(px int) error

	// Rasterize renders one character into an 8-bit coverage bitmap.
	// Implementations return an error wrapping ErrGlyphRasterize when the
	// font has no glyph for c.
	Rasterize(c rune) (GlyphBitmap, error)
}

// GlyphBitmap is the rasterizer output for a single character.
type GlyphBitmap struct {
	Pix    []byte // Coverage values, row-major
	Width  int    // Bitmap width in pixels
	Height int    // Bitmap height in pixels
	Pitch  int    // Bytes between rows of Pix; values <= 0 mean Width

	// Offset from the pen position to the bitmap's top-left corner.
	// BearingY is measured upwards from the baseline.
	BearingX, BearingY int

	// Horizontal pen displacement in 1/64 pixel units.
	Advance int32
}

// pitch returns the effective row stride.
func (g GlyphBitmap) pitch() int {
	if g.Pitch <= 0 {
		return g.Width
	}
	return g.Pitch
}

// at returns the coverage at (x, y) or 0 when the source slice is short.
func (g GlyphBitmap) at(x, y int) byte {
	i := y*g.pitch() + x
	if i < 0 || i >= len(g.Pix) {
		return 0
	}
	return g.Pix[i]
}
