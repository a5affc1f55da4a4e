package immg

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// OpenTypeLoader loads TrueType/OpenType fonts with golang.org/x/image.
type OpenTypeLoader struct {
	// ReadFile reads the font file. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)

	// Hinting selects the outline hinting used when rasterizing.
	Hinting font.Hinting
}

// NewOpenTypeLoader returns a loader that reads fonts from disk with full hinting.
func NewOpenTypeLoader() *OpenTypeLoader {
	return &OpenTypeLoader{ReadFile: os.ReadFile, Hinting: font.HintingFull}
}

// Open implements FontLoader.
func (l *OpenTypeLoader) Open(path string) (Face, error) {
	read := l.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return ParseOpenTypeFace(data, l.Hinting)
}

// ParseOpenTypeFace parses font data into a Face. Call SetPixelSize before
// rasterizing.
func ParseOpenTypeFace(data []byte, hinting font.Hinting) (*OpenTypeFace, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &OpenTypeFace{font: f, hinting: hinting}, nil
}

// OpenTypeFace implements Face on top of an opentype.Font.
// Not safe for concurrent use.
type OpenTypeFace struct {
	font    *opentype.Font
	face    font.Face
	hinting font.Hinting
	size    int
	buf     sfnt.Buffer
}

// SetPixelSize implements Face. At 72 DPI one point equals one pixel.
func (f *OpenTypeFace) SetPixelSize(px int) error {
	if px <= 0 {
		return fmt.Errorf("%w: pixel size %d", ErrInvalidConfig, px)
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: f.hinting,
	})
	if err != nil {
		return fmt.Errorf("create face: %w", err)
	}
	if f.face != nil {
		f.face.Close()
	}
	f.face = face
	f.size = px
	return nil
}

// PixelSize returns the size selected by SetPixelSize.
func (f *OpenTypeFace) PixelSize() int { return f.size }

// Rasterize implements Face.
func (f *OpenTypeFace) Rasterize(c rune) (GlyphBitmap, error) {
	if f.face == nil {
		return GlyphBitmap{}, &GlyphError{Char: c, Err: fmt.Errorf("%w: pixel size not set", ErrGlyphRasterize)}
	}
	// Index 0 is .notdef; treat it as absent rather than packing a tofu box.
	idx, err := f.font.GlyphIndex(&f.buf, c)
	if err != nil || idx == 0 {
		return GlyphBitmap{}, &GlyphError{Char: c, Err: ErrGlyphRasterize}
	}

	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.Point26_6{}, c)
	if !ok {
		return GlyphBitmap{}, &GlyphError{Char: c, Err: ErrGlyphRasterize}
	}

	w, h := dr.Dx(), dr.Dy()
	g := GlyphBitmap{
		Pix:      make([]byte, w*h),
		Width:    w,
		Height:   h,
		Pitch:    w,
		BearingX: dr.Min.X,
		BearingY: -dr.Min.Y,
		Advance:  int32(advance),
	}
	// The mask is owned by the face and reused by the next call, so copy it out.
	copyCoverage(g.Pix, w, h, mask, maskp)
	return g, nil
}

// Close releases the underlying face.
func (f *OpenTypeFace) Close() error {
	if f.face == nil {
		return nil
	}
	err := f.face.Close()
	f.face = nil
	return err
}

// copyCoverage copies a w x h region of mask starting at mp into dst.
func copyCoverage(dst []byte, w, h int, mask image.Image, mp image.Point) {
	if a, ok := mask.(*image.Alpha); ok {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst[y*w+x] = a.AlphaAt(mp.X+x, mp.Y+y).A
			}
		}
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst[y*w+x] = color.AlphaModel.Convert(mask.At(mp.X+x, mp.Y+y)).(color.Alpha).A
		}
	}
}
