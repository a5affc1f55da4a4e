package immg

// Defaults for text layout.
const (
	// DefaultFallback is drawn in place of characters missing from the atlas.
	DefaultFallback rune = '?'

	// DefaultBaselineRef is the glyph whose top bearing defines the baseline.
	// Digits have a flat top at cap height in most fonts.
	DefaultBaselineRef rune = '0'
)

// LayoutOption configures Layout and Measure.
type LayoutOption func(*layoutOptions)

type layoutOptions struct {
	fallback    rune
	baselineRef rune
}

// WithFallback sets the glyph drawn for characters that are not in the table.
func WithFallback(r rune) LayoutOption {
	return func(o *layoutOptions) { o.fallback = r }
}

// WithBaselineRef sets the reference glyph used to compute the baseline.
func WithBaselineRef(r rune) LayoutOption {
	return func(o *layoutOptions) { o.baselineRef = r }
}

func newLayoutOptions(opts []LayoutOption) layoutOptions {
	o := layoutOptions{
		fallback:    DefaultFallback,
		baselineRef: DefaultBaselineRef,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// glyph returns the metrics for c, substituting the fallback glyph.
// substituted is true when the fallback was used.
func (o layoutOptions) glyph(t *GlyphTable, c rune) (m GlyphMetrics, substituted, ok bool) {
	if m, ok := t.Lookup(c); ok {
		return m, false, true
	}
	m, ok = t.Lookup(o.fallback)
	return m, true, ok
}

// baseline returns the distance from the top of the line to the baseline in
// unscaled pixels. If the reference glyph is absent, the tallest glyph of
// text is used instead.
func (o layoutOptions) baseline(t *GlyphTable, text string) float32 {
	if m, ok := t.Lookup(o.baselineRef); ok {
		return m.Bearing.Y
	}
	var top float32
	for i := 0; i < len(text); i++ {
		if m, _, ok := o.glyph(t, rune(text[i])); ok && m.Bearing.Y > top {
			top = m.Bearing.Y
		}
	}
	return top
}

// LayoutResult summarizes a Layout call.
type LayoutResult struct {
	Quads   int  // Quads pushed
	Missing int  // Characters drawn with the fallback glyph
	Pen     Vec2 // Pen position after the last character
}

// Layout pushes one textured quad per character of text, left to right,
// starting with the pen at origin (the top of the line).
//
// Each byte of text is a character code. Characters missing from the table
// are drawn with the fallback glyph. If the fallback is missing too, or the
// batch runs out of space, every quad pushed by this call is removed and the
// error is returned, so the caller can drop the draw and keep the rest of the
// frame.
//
// The pen advances by the glyph advance truncated to whole pixels before
// scaling, so long strings accumulate the truncation error.
func Layout(b *Batch, t *GlyphTable, origin Vec2, text string, scale float32, color Color, opts ...LayoutOption) (LayoutResult, error) {
	o := newLayoutOptions(opts)
	baseline := o.baseline(t, text)
	mark := b.QuadCount()

	res := LayoutResult{Pen: origin}
	for i := 0; i < len(text); i++ {
		c := rune(text[i])
		m, substituted, ok := o.glyph(t, c)
		if !ok {
			b.truncate(mark)
			return LayoutResult{Pen: origin}, &MissingGlyphError{Char: c, Fallback: o.fallback}
		}
		if substituted {
			res.Missing++
		}

		pos := Vec2{
			X: res.Pen.X + m.Bearing.X*scale,
			Y: res.Pen.Y + (baseline-m.Bearing.Y)*scale,
		}
		if err := b.PushQuad(pos, m.Size.Mul(scale), color, m.UVMin, m.UVMax); err != nil {
			b.truncate(mark)
			return LayoutResult{Pen: origin}, err
		}
		res.Quads++
		res.Pen.X += float32(m.Advance>>6) * scale
	}
	return res, nil
}
