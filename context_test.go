package immg

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// mockRenderer records what the context hands to the backend.
type mockRenderer struct {
	uploaded  *AtlasBitmap
	uploadErr error
	renders   []int // quad count per Render call
	width     int
	height    int
}

func (m *mockRenderer) UploadAtlas(bm *AtlasBitmap) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.uploaded = bm
	return nil
}

func (m *mockRenderer) Render(b *Batch) error {
	m.renders = append(m.renders, b.QuadCount())
	return nil
}

func (m *mockRenderer) Resize(w, h int) {
	m.width, m.height = w, h
}

func newTestAtlas(t *testing.T) *Atlas {
	t.Helper()
	face := &fakeFace{glyphs: map[rune]GlyphBitmap{
		'0': solidGlyph(6, 10, 255, 1, 10, 8*64),
		'?': solidGlyph(6, 10, 255, 1, 10, 8*64),
		'h': solidGlyph(6, 10, 255, 1, 10, 8*64),
		'i': solidGlyph(2, 10, 255, 1, 10, 4*64),
	}}
	cfg := AtlasConfig{PixelSize: 12, Width: 64, Height: 64, Padding: 2, First: '0', Last: 'i'}
	a, err := BuildAtlasFace(face, cfg)
	if err != nil {
		t.Fatalf("BuildAtlasFace: %v", err)
	}
	return a
}

func TestNew_UploadsAtlas(t *testing.T) {
	r := &mockRenderer{}
	a := newTestAtlas(t)

	ctx, err := New(r, a)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.uploaded != a.Bitmap {
		t.Error("atlas bitmap was not uploaded")
	}
	if ctx.Batch().MaxQuads() != DefaultMaxQuads {
		t.Errorf("MaxQuads() = %d, want %d", ctx.Batch().MaxQuads(), DefaultMaxQuads)
	}
	if ctx.Atlas() != a {
		t.Error("Atlas() returned a different atlas")
	}
}

func TestNew_Errors(t *testing.T) {
	a := newTestAtlas(t)

	if _, err := New(&mockRenderer{}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil atlas: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := New(&mockRenderer{}, a, WithMaxQuads(0)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero max quads: expected ErrInvalidConfig, got %v", err)
	}

	uploadErr := errors.New("no texture units")
	if _, err := New(&mockRenderer{uploadErr: uploadErr}, a); !errors.Is(err, uploadErr) {
		t.Errorf("expected upload error, got %v", err)
	}
}

func TestContext_Frame(t *testing.T) {
	r := &mockRenderer{}
	ctx, err := New(r, newTestAtlas(t), WithMaxQuads(16))
	if err != nil {
		t.Fatal(err)
	}

	ctx.Begin()
	if err := ctx.Rect(Vec2{0, 0}, Vec2{100, 20}, ColorDarkGray); err != nil {
		t.Fatalf("Rect: %v", err)
	}
	if err := ctx.Text(Vec2{4, 4}, "hi", 1, ColorWhite); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if err := ctx.Line(Vec2{0, 30}, Vec2{100, 30}, ColorRed, 1); err != nil {
		t.Fatalf("Line: %v", err)
	}
	if err := ctx.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	if len(r.renders) != 1 || r.renders[0] != 4 {
		t.Fatalf("renders = %v, want one call with 4 quads", r.renders)
	}

	// Next frame starts from an empty batch.
	ctx.Begin()
	_ = ctx.RectOutline(Vec2{0, 0}, Vec2{10, 10}, ColorWhite, 1)
	_ = ctx.End()

	if len(r.renders) != 2 || r.renders[1] != 4 {
		t.Errorf("renders = %v, want second call with 4 quads", r.renders)
	}
	if ctx.FrameCount() != 2 {
		t.Errorf("FrameCount() = %d, want 2", ctx.FrameCount())
	}
}

func TestContext_EmptyFrameSkipsRender(t *testing.T) {
	r := &mockRenderer{}
	ctx, _ := New(r, newTestAtlas(t))

	ctx.Begin()
	if err := ctx.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(r.renders) != 0 {
		t.Errorf("Render called %d times for an empty frame", len(r.renders))
	}
}

func TestContext_DroppedDraws(t *testing.T) {
	r := &mockRenderer{}
	ctx, _ := New(r, newTestAtlas(t), WithMaxQuads(3))

	ctx.Begin()
	_ = ctx.Rect(Vec2{}, Vec2{1, 1}, ColorWhite)
	if err := ctx.Text(Vec2{}, "hihi", 1, ColorWhite); !errors.Is(err, ErrBatchOverflow) {
		t.Fatalf("expected ErrBatchOverflow, got %v", err)
	}
	if err := ctx.RectOutline(Vec2{}, Vec2{5, 5}, ColorWhite, 1); !errors.Is(err, ErrBatchOverflow) {
		t.Fatalf("expected ErrBatchOverflow, got %v", err)
	}
	if ctx.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", ctx.Dropped())
	}

	// The frame keeps what fit and still renders.
	if err := ctx.Text(Vec2{}, "hi", 1, ColorWhite); err != nil {
		t.Fatalf("Text: %v", err)
	}
	_ = ctx.End()
	if len(r.renders) != 1 || r.renders[0] != 3 {
		t.Errorf("renders = %v, want one call with 3 quads", r.renders)
	}

	ctx.Begin()
	if ctx.Dropped() != 0 {
		t.Errorf("Dropped() = %d after Begin, want 0", ctx.Dropped())
	}
}

func TestContext_FallbackAndMeasure(t *testing.T) {
	r := &mockRenderer{}
	ctx, _ := New(r, newTestAtlas(t), WithFallbackGlyph('0'))

	ctx.Begin()
	if err := ctx.Text(Vec2{}, "hZ", 1, ColorWhite); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if ctx.Batch().QuadCount() != 2 {
		t.Errorf("QuadCount() = %d, want 2", ctx.Batch().QuadCount())
	}

	if got := ctx.MeasureText("hi", 2); got.X != 24 {
		t.Errorf("MeasureText width = %v, want 24", got.X)
	}
}

func TestContext_Resize(t *testing.T) {
	r := &mockRenderer{}
	ctx, _ := New(r, newTestAtlas(t))
	ctx.Resize(800, 600)
	if r.width != 800 || r.height != 600 {
		t.Errorf("renderer size = %dx%d, want 800x600", r.width, r.height)
	}
}

func TestContext_LogsDroppedDraws(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, _ := New(&mockRenderer{}, newTestAtlas(t), WithMaxQuads(1), WithLogger(logger))
	ctx.Begin()
	_ = ctx.Rect(Vec2{}, Vec2{1, 1}, ColorWhite)
	_ = ctx.Rect(Vec2{}, Vec2{1, 1}, ColorWhite)
	_ = ctx.End()

	out := buf.String()
	if !strings.Contains(out, "draw dropped") || !strings.Contains(out, "kind=rect") {
		t.Errorf("missing drop log in:\n%s", out)
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	face := &fakeFace{glyphs: map[rune]GlyphBitmap{'a': solidGlyph(2, 2, 1, 0, 2, 128)}}
	cfg := AtlasConfig{PixelSize: 4, Width: 16, Height: 16, First: 'a', Last: 'b'}
	if _, err := BuildAtlasFace(face, cfg); err != nil {
		t.Fatalf("BuildAtlasFace: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "skipping glyph") || !strings.Contains(out, "atlas built") {
		t.Errorf("unexpected log output:\n%s", out)
	}
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
}
