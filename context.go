package immg

import (
	"fmt"
	"log/slog"
)

// Renderer is the interface for a rendering backend.
type Renderer interface {
	// UploadAtlas creates the glyph texture from the atlas bitmap.
	UploadAtlas(bm *AtlasBitmap) error
	// Render draws the batch with a single indexed draw call.
	Render(b *Batch) error
	// Resize updates the viewport size.
	Resize(width, height int)
}

// DefaultMaxQuads is the batch capacity used when WithMaxQuads is not given.
const DefaultMaxQuads = 4096

// Context owns everything a frame needs: the atlas, the batch and the
// renderer that consumes it. It replaces process-wide buffers with an object
// the application creates once and threads through its draw code.
//
// Typical use:
//
//	ctx, err := immg.New(renderer, atlas)
//	for !window.ShouldClose() {
//	    ctx.Begin()
//	    ctx.Rect(immg.Vec2{X: 10, Y: 10}, immg.Vec2{X: 200, Y: 40}, immg.ColorDarkGray)
//	    ctx.Text(immg.Vec2{X: 16, Y: 20}, "Hello", 1, immg.ColorWhite)
//	    if err := ctx.End(); err != nil { ... }
//	}
//
// A Context is not safe for concurrent use. The atlas it holds is read-only
// and may be shared with other contexts.
type Context struct {
	renderer Renderer
	atlas    *Atlas
	batch    *Batch
	logger   *slog.Logger

	maxQuads   int
	layoutOpts []LayoutOption

	frame   uint64
	dropped int
	missing int
}

// Option configures a Context.
type Option func(*Context)

// WithMaxQuads sets the batch capacity in quads.
func WithMaxQuads(n int) Option {
	return func(c *Context) { c.maxQuads = n }
}

// WithFallbackGlyph sets the glyph drawn for characters missing from the atlas.
func WithFallbackGlyph(r rune) Option {
	return func(c *Context) { c.layoutOpts = append(c.layoutOpts, WithFallback(r)) }
}

// WithBaselineGlyph sets the reference glyph for the text baseline.
func WithBaselineGlyph(r rune) Option {
	return func(c *Context) { c.layoutOpts = append(c.layoutOpts, WithBaselineRef(r)) }
}

// WithLogger sets the logger for per-frame diagnostics.
// Defaults to the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// New creates a Context and uploads the atlas bitmap to the renderer.
func New(r Renderer, atlas *Atlas, opts ...Option) (*Context, error) {
	if atlas == nil || atlas.Table == nil || atlas.Bitmap == nil {
		return nil, fmt.Errorf("%w: atlas is not built", ErrInvalidConfig)
	}
	c := &Context{
		renderer: r,
		atlas:    atlas,
		maxQuads: DefaultMaxQuads,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxQuads <= 0 {
		return nil, fmt.Errorf("%w: max quads %d", ErrInvalidConfig, c.maxQuads)
	}
	if c.logger == nil {
		c.logger = Logger()
	}
	c.batch = NewBatch(c.maxQuads)

	if err := r.UploadAtlas(atlas.Bitmap); err != nil {
		return nil, fmt.Errorf("upload atlas: %w", err)
	}
	return c, nil
}

// Begin starts a new frame. The batch is emptied; its storage is reused.
func (c *Context) Begin() {
	c.frame++
	c.dropped = 0
	c.missing = 0
	c.batch.Reset()
}

// End hands the frame's batch to the renderer.
func (c *Context) End() error {
	if c.dropped > 0 || c.missing > 0 {
		c.logger.Debug("frame finished with dropped draws",
			"frame", c.frame, "dropped", c.dropped, "missing", c.missing,
			"quads", c.batch.QuadCount())
	}
	if c.batch.QuadCount() == 0 {
		return nil
	}
	return c.renderer.Render(c.batch)
}

// Text draws a string with its top-left pen position at origin.
// On error nothing from this call is kept in the batch.
func (c *Context) Text(origin Vec2, text string, scale float32, color Color) error {
	res, err := Layout(c.batch, c.atlas.Table, origin, text, scale, color, c.layoutOpts...)
	c.missing += res.Missing
	return c.drop("text", err)
}

// MeasureText returns the size of text at the given scale.
func (c *Context) MeasureText(text string, scale float32) Vec2 {
	return Measure(c.atlas.Table, text, scale, c.layoutOpts...)
}

// Rect draws a filled rectangle.
func (c *Context) Rect(origin, extent Vec2, color Color) error {
	return c.drop("rect", c.batch.PushSolidRect(origin, extent, color))
}

// RectOutline draws a rectangle outline.
func (c *Context) RectOutline(origin, extent Vec2, color Color, thickness float32) error {
	return c.drop("outline", c.batch.PushRectOutline(origin, extent, color, thickness))
}

// Line draws a line between two points.
func (c *Context) Line(from, to Vec2, color Color, thickness float32) error {
	return c.drop("line", c.batch.PushLine(from, to, color, thickness))
}

// drop counts and logs a failed draw.
func (c *Context) drop(kind string, err error) error {
	if err != nil {
		c.dropped++
		c.logger.Debug("draw dropped", "kind", kind, "frame", c.frame, "err", err)
	}
	return err
}

// Resize notifies the renderer of a display size change.
func (c *Context) Resize(width, height int) {
	c.renderer.Resize(width, height)
}

// Batch returns the frame's batch. Only valid between Begin and End.
func (c *Context) Batch() *Batch { return c.batch }

// Atlas returns the atlas used for text.
func (c *Context) Atlas() *Atlas { return c.atlas }

// Dropped returns the number of draws dropped since Begin.
func (c *Context) Dropped() int { return c.dropped }

// FrameCount returns the number of frames begun.
func (c *Context) FrameCount() uint64 { return c.frame }
