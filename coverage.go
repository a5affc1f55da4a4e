package immg

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
)

// FontCoverage returns the characters in [first, last] that the font's cmap
// does not map to a glyph. The atlas builder would skip these, so a non-empty
// result means Layout will draw the fallback glyph for them.
func FontCoverage(data []byte, first, last rune) ([]rune, error) {
	if last < first {
		return nil, fmt.Errorf("%w: empty character range %q..%q", ErrInvalidConfig, first, last)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	var missing []rune
	for c := first; c <= last; c++ {
		if _, ok := face.NominalGlyph(c); !ok {
			missing = append(missing, c)
		}
	}
	return missing, nil
}
