/*
Package immg renders ASCII text and solid rectangles as triangle geometry that
is rebuilt every frame and submitted to the GPU in a single draw call.

# Overview

There are two phases. At setup a glyph atlas is built once: every character
of a range is rasterized and packed into one single-channel bitmap, and the
placement of each glyph is recorded in a fixed-capacity GlyphTable. Every
frame, draw calls append quads to a Batch; text is turned into quads by
Layout, which looks each character up in the table. The batch is handed to a
Renderer and reset before the next frame.

	atlas builder (setup) -> GlyphTable -> Layout (per frame) -> Batch -> Renderer

# Quick Start

	// Setup
	atlas, err := immg.BuildAtlas(immg.NewOpenTypeLoader(), "font.ttf", immg.DefaultAtlasConfig())
	renderer, _ := opengl.NewRenderer(800, 600)
	ctx, err := immg.New(renderer, atlas)

	// Game loop
	for !window.ShouldClose() {
	    ctx.Begin()
	    ctx.Rect(immg.Vec2{X: 10, Y: 10}, immg.Vec2{X: 300, Y: 40}, immg.ColorDarkGray)
	    ctx.Text(immg.Vec2{X: 20, Y: 18}, "Hello World", 1, immg.ColorWhite)
	    if err := ctx.End(); err != nil {
	        return err
	    }
	    window.SwapBuffers()
	}

# Atlas Packing

Glyphs are placed left to right on shelves, starting at (Padding, Padding).
When a glyph does not fit in what is left of the row, the cursor moves to
the start of the next shelf, PixelSize+Padding further down. The shelf height
is the requested pixel size, not the tallest glyph, so descenders and
accents that are taller than PixelSize reach into the next shelf.

Pixels that fall outside the bitmap are dropped. An atlas that is too small
for its character range therefore loses glyph pixels instead of failing;
Atlas.ClippedPixels reports how many.

# Glyph Table

GlyphTable is a closed hash set with linear probing. Its capacity is a power
of two chosen when the atlas is built (TableCapacityFor doubles the number of
characters), probes wrap from the last slot to slot 0, and there is no resize
and no delete. The builder seals the table when it finishes; a sealed table
rejects inserts and can be read from any goroutine.

# Geometry

Every primitive is a quad of four vertices and six indices. For a quad at
origin o with extent e the corners are

	0: o            1: o+(0,e.y)
	2: o+e          3: o+(e.x,0)

and the triangles are (0,1,3) and (1,2,3). Extents are exclusive: the far
corner is o+e. Solid rectangles use the uv rectangle (0,0)-(0,0), which the
shader treats as untextured.

The batch never grows. A push that would exceed its capacity returns
ErrBatchOverflow and leaves the batch unchanged.

# Text

Layout draws each byte of a string as one glyph. The baseline is taken from
the top bearing of a reference glyph ('0' by default) so that punctuation and
capitals share a line. The pen advances by the glyph advance, a 26.6 fixed
point value truncated to whole pixels before scaling.

Characters missing from the atlas are drawn with a fallback glyph ('?' by
default). If the fallback is also missing, or the batch fills up, the whole
string is removed from the batch and an error is returned, so the caller can
skip that draw and still render the rest of the frame.

# Errors

	ErrFontOpen        font cannot be opened; the build is aborted
	ErrGlyphRasterize  one character failed; it is skipped and listed in Atlas.Skipped
	ErrTableOverflow   more characters than table slots; the build is aborted
	ErrMissingGlyph    character and fallback both missing at layout time
	ErrBatchOverflow   batch capacity exceeded; the draw is dropped

# Logging

The package logs through log/slog. Use SetVerbose to enable debug output on
the default stderr logger or SetLogger to install your own.
*/
package immg
