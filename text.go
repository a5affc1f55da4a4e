package immg

// Measure returns the size of text as Layout would draw it.
// Width is the sum of the truncated advances; height reaches from the top of
// the line to the lowest glyph bottom. Characters with no glyph and no
// fallback contribute nothing.
func Measure(t *GlyphTable, text string, scale float32, opts ...LayoutOption) Vec2 {
	o := newLayoutOptions(opts)
	baseline := o.baseline(t, text)

	var size Vec2
	for i := 0; i < len(text); i++ {
		m, _, ok := o.glyph(t, rune(text[i]))
		if !ok {
			continue
		}
		size.X += float32(m.Advance>>6) * scale
		if bottom := (baseline - m.Bearing.Y + m.Size.Y) * scale; bottom > size.Y {
			size.Y = bottom
		}
	}
	return size
}

// Truncate shortens text to fit within maxWidth, adding ellipsis if needed.
func Truncate(t *GlyphTable, text string, maxWidth, scale float32, opts ...LayoutOption) string {
	return TruncateWithSuffix(t, text, maxWidth, scale, "..", opts...)
}

// TruncateWithSuffix shortens text and adds a custom suffix.
// Returns the suffix alone when not even one character fits.
func TruncateWithSuffix(t *GlyphTable, text string, maxWidth, scale float32, suffix string, opts ...LayoutOption) string {
	if Measure(t, text, scale, opts...).X <= maxWidth {
		return text
	}

	targetWidth := maxWidth - Measure(t, suffix, scale, opts...).X
	for n := len(text) - 1; n > 0; n-- {
		if Measure(t, text[:n], scale, opts...).X <= targetWidth {
			return text[:n] + suffix
		}
	}
	return suffix
}

// FitText returns text that fits within maxWidth, trying ".." then "." as the
// ellipsis. Unlike Truncate, it returns "" when even the ellipsis is too wide.
func FitText(t *GlyphTable, text string, maxWidth, scale float32, opts ...LayoutOption) string {
	if maxWidth <= 0 {
		return ""
	}
	if Measure(t, text, scale, opts...).X <= maxWidth {
		return text
	}
	for _, suffix := range []string{"..", "."} {
		result := TruncateWithSuffix(t, text, maxWidth, scale, suffix, opts...)
		if Measure(t, result, scale, opts...).X <= maxWidth {
			return result
		}
	}
	return ""
}
