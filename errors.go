package immg

import (
	"errors"
	"fmt"
)

// Sentinel errors for the immg package.
var (
	// ErrFontOpen is returned when the font cannot be opened. The atlas build is aborted.
	ErrFontOpen = errors.New("immg: cannot open font")

	// ErrGlyphRasterize is returned by a Face when one character cannot be rasterized.
	// The atlas builder skips that character and continues.
	ErrGlyphRasterize = errors.New("immg: cannot rasterize glyph")

	// ErrMissingGlyph is returned by Layout when a character and the fallback glyph
	// are both absent from the glyph table.
	ErrMissingGlyph = errors.New("immg: missing glyph")

	// ErrTableOverflow is returned when inserting into a full glyph table.
	ErrTableOverflow = errors.New("immg: glyph table overflow")

	// ErrTableSealed is returned when inserting into a table whose atlas build completed.
	ErrTableSealed = errors.New("immg: glyph table is sealed")

	// ErrBatchOverflow is returned when a push would exceed the batch capacity.
	ErrBatchOverflow = errors.New("immg: batch capacity exceeded")

	// ErrInvalidCapacity is returned for a glyph table capacity that is not a power of two.
	ErrInvalidCapacity = errors.New("immg: capacity must be a power of two")

	// ErrInvalidConfig is returned by Validate for unusable atlas or batch settings.
	ErrInvalidConfig = errors.New("immg: invalid config")
)

// GlyphError records a failure for a single character.
type GlyphError struct {
	Char rune
	Err  error
}

func (e *GlyphError) Error() string {
	return fmt.Sprintf("glyph %q: %v", e.Char, e.Err)
}

func (e *GlyphError) Unwrap() error { return e.Err }

// MissingGlyphError is returned by Layout when neither a character nor the
// fallback glyph is present in the table.
type MissingGlyphError struct {
	Char     rune
	Fallback rune
}

func (e *MissingGlyphError) Error() string {
	return fmt.Sprintf("immg: missing glyph %q (fallback %q also missing)", e.Char, e.Fallback)
}

func (e *MissingGlyphError) Is(target error) bool { return target == ErrMissingGlyph }
