package immg

import "fmt"

// GlyphMetrics describes where a glyph lives in the atlas and how it is placed
// relative to the pen. Values are immutable once the atlas build computed them.
type GlyphMetrics struct {
	UVMin   Vec2  // Normalized texture coordinate of the top-left corner
	UVMax   Vec2  // Normalized texture coordinate of the bottom-right corner
	Size    Vec2  // Bitmap size in pixels
	Bearing Vec2  // Offset from the pen to the bitmap's top-left corner (Y measured up from the baseline)
	Advance int32 // Horizontal pen displacement in 1/64 pixel units
}

// glyphSlot is one entry of the closed hash table.
type glyphSlot struct {
	occupied bool
	key      rune
	metrics  GlyphMetrics
}

// GlyphTable is a fixed-capacity map from character code to GlyphMetrics.
//
// It uses closed hashing with linear probing. The home slot of a key is
// key mod capacity; probes walk forward and wrap to slot 0 at the end of the
// array. There is no resize and no delete: the table is filled once by the
// atlas builder and then sealed. A sealed table is read-only and can be
// shared by any number of goroutines.
type GlyphTable struct {
	slots  []glyphSlot
	mask   uint32
	count  int
	sealed bool
}

// NewGlyphTable creates a table with the given number of slots.
// Capacity must be a power of two.
func NewGlyphTable(capacity int) (*GlyphTable, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &GlyphTable{
		slots: make([]glyphSlot, capacity),
		mask:  uint32(capacity - 1),
	}, nil
}

// TableCapacityFor returns the smallest power of two that is at least twice
// the expected entry count, which keeps probe sequences short.
func TableCapacityFor(entries int) int {
	c := 2
	for c < 2*entries {
		c <<= 1
	}
	return c
}

// home returns the home slot of a key.
func (t *GlyphTable) home(key rune) uint32 {
	return uint32(key) & t.mask
}

// Insert stores metrics for a character. A key that is already present is
// overwritten in place.
func (t *GlyphTable) Insert(key rune, m GlyphMetrics) error {
	if t.sealed {
		return ErrTableSealed
	}
	i := t.home(key)
	for range t.slots {
		s := &t.slots[i]
		if !s.occupied {
			s.occupied = true
			s.key = key
			s.metrics = m
			t.count++
			return nil
		}
		if s.key == key {
			s.metrics = m
			return nil
		}
		i = (i + 1) & t.mask
	}
	return fmt.Errorf("%w: %d slots, inserting %q", ErrTableOverflow, len(t.slots), key)
}

// Lookup returns the metrics stored for a character.
// The second result is false if the character is not in the table.
func (t *GlyphTable) Lookup(key rune) (GlyphMetrics, bool) {
	m, ok, _ := t.lookup(key)
	return m, ok
}

// lookup also reports the number of slots inspected.
func (t *GlyphTable) lookup(key rune) (GlyphMetrics, bool, int) {
	i := t.home(key)
	probes := 0
	for range t.slots {
		s := &t.slots[i]
		probes++
		if !s.occupied {
			return GlyphMetrics{}, false, probes
		}
		if s.key == key {
			return s.metrics, true, probes
		}
		i = (i + 1) & t.mask
	}
	return GlyphMetrics{}, false, probes
}

// Has returns true if the table holds metrics for the character.
func (t *GlyphTable) Has(key rune) bool {
	_, ok, _ := t.lookup(key)
	return ok
}

// Len returns the number of stored characters.
func (t *GlyphTable) Len() int { return t.count }

// Cap returns the number of slots.
func (t *GlyphTable) Cap() int { return len(t.slots) }

// Sealed reports whether the table has been made read-only.
func (t *GlyphTable) Sealed() bool { return t.sealed }

// seal makes the table read-only. Called once the atlas build completes.
func (t *GlyphTable) seal() { t.sealed = true }

// Keys returns the stored characters in slot order.
func (t *GlyphTable) Keys() []rune {
	keys := make([]rune, 0, t.count)
	for i := range t.slots {
		if t.slots[i].occupied {
			keys = append(keys, t.slots[i].key)
		}
	}
	return keys
}
