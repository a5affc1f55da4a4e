package immg_test

import (
	"errors"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/go-theft-auto/immg"
)

func goRegularLoader() *immg.OpenTypeLoader {
	return &immg.OpenTypeLoader{
		ReadFile: func(string) ([]byte, error) { return goregular.TTF, nil },
		Hinting:  font.HintingFull,
	}
}

func buildGoRegular(t *testing.T) *immg.Atlas {
	t.Helper()
	cfg := immg.AtlasConfig{PixelSize: 16, Width: 256, Height: 256, Padding: 4, First: 'A', Last: 'Z'}
	a, err := immg.BuildAtlas(goRegularLoader(), "goregular.ttf", cfg)
	if err != nil {
		t.Fatalf("BuildAtlas: %v", err)
	}
	return a
}

func TestBuildAtlas_GoRegular(t *testing.T) {
	a := buildGoRegular(t)

	if a.Table.Len() != 26 {
		t.Errorf("table has %d glyphs, want 26", a.Table.Len())
	}
	if len(a.Skipped) != 0 {
		t.Errorf("skipped %q", a.Skipped)
	}
	if a.ClippedPixels != 0 {
		t.Errorf("ClippedPixels = %d, want 0", a.ClippedPixels)
	}

	for c := 'A'; c <= 'Z'; c++ {
		m, ok := a.Table.Lookup(c)
		if !ok {
			t.Fatalf("%q missing", c)
		}
		if m.Size.X <= 0 || m.Size.Y <= 0 || m.Bearing.Y <= 0 || m.Advance <= 0 {
			t.Errorf("%q has implausible metrics %+v", c, m)
		}
		if m.UVMin.X < 0 || m.UVMax.X > 1 || m.UVMin.Y < 0 || m.UVMax.Y > 1 {
			t.Errorf("%q uv out of range: %v..%v", c, m.UVMin, m.UVMax)
		}
	}

	// Some coverage was actually written.
	var ink int
	for _, p := range a.Bitmap.Pix {
		if p != 0 {
			ink++
		}
	}
	if ink == 0 {
		t.Error("atlas bitmap is empty")
	}
}

func TestLayout_GoRegular(t *testing.T) {
	a := buildGoRegular(t)
	b := immg.NewBatch(16)

	res, err := immg.Layout(b, a.Table, immg.Vec2{}, "AB", 1, immg.ColorWhite)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if res.Quads != 2 || b.VertexCount() != 8 || b.IndexCount() != 12 {
		t.Fatalf("got %d quads, %d vertices, %d indices; want 2, 8, 12",
			res.Quads, b.VertexCount(), b.IndexCount())
	}

	mA, _ := a.Table.Lookup('A')
	mB, _ := a.Table.Lookup('B')
	v := b.Vertices()

	if v[0].TexCoord != [2]float32{mA.UVMin.X, mA.UVMin.Y} || v[2].TexCoord != [2]float32{mA.UVMax.X, mA.UVMax.Y} {
		t.Errorf("'A' uv = %v..%v, want %v..%v", v[0].TexCoord, v[2].TexCoord, mA.UVMin, mA.UVMax)
	}
	if v[4].TexCoord != [2]float32{mB.UVMin.X, mB.UVMin.Y} || v[6].TexCoord != [2]float32{mB.UVMax.X, mB.UVMax.Y} {
		t.Errorf("'B' uv = %v..%v, want %v..%v", v[4].TexCoord, v[6].TexCoord, mB.UVMin, mB.UVMax)
	}

	if want := mA.Bearing.X; v[0].Pos[0] != want {
		t.Errorf("'A' x = %v, want %v", v[0].Pos[0], want)
	}
	if want := float32(mA.Advance>>6) + mB.Bearing.X; v[4].Pos[0] != want {
		t.Errorf("'B' x = %v, want %v", v[4].Pos[0], want)
	}
	if want := float32(mA.Advance>>6 + mB.Advance>>6); res.Pen.X != want {
		t.Errorf("pen x = %v, want %v", res.Pen.X, want)
	}
}

func TestOpenTypeFace_Rasterize(t *testing.T) {
	face, err := immg.ParseOpenTypeFace(goregular.TTF, font.HintingNone)
	if err != nil {
		t.Fatalf("ParseOpenTypeFace: %v", err)
	}
	defer face.Close()

	if _, err := face.Rasterize('A'); !errors.Is(err, immg.ErrGlyphRasterize) {
		t.Errorf("Rasterize before SetPixelSize: expected ErrGlyphRasterize, got %v", err)
	}
	if err := face.SetPixelSize(0); err == nil {
		t.Error("SetPixelSize(0) succeeded")
	}
	if err := face.SetPixelSize(24); err != nil {
		t.Fatalf("SetPixelSize: %v", err)
	}
	if face.PixelSize() != 24 {
		t.Errorf("PixelSize() = %d, want 24", face.PixelSize())
	}

	g, err := face.Rasterize('M')
	if err != nil {
		t.Fatalf("Rasterize('M'): %v", err)
	}
	if g.Width <= 0 || g.Height <= 0 || len(g.Pix) != g.Width*g.Height {
		t.Errorf("bitmap %dx%d with %d bytes", g.Width, g.Height, len(g.Pix))
	}
	if g.BearingY <= 0 || g.BearingY > 24 {
		t.Errorf("BearingY = %d, want within (0, 24]", g.BearingY)
	}

	// U+4E00 is outside the Go fonts' repertoire.
	_, err = face.Rasterize('一')
	if !errors.Is(err, immg.ErrGlyphRasterize) {
		t.Errorf("Rasterize(U+4E00): expected ErrGlyphRasterize, got %v", err)
	}
	var ge *immg.GlyphError
	if !errors.As(err, &ge) || ge.Char != '一' {
		t.Errorf("error = %v, want GlyphError for U+4E00", err)
	}
}

func TestOpenTypeLoader_BadData(t *testing.T) {
	loader := &immg.OpenTypeLoader{
		ReadFile: func(string) ([]byte, error) { return []byte("not a font"), nil },
	}
	_, err := immg.BuildAtlas(loader, "bad.ttf", immg.DefaultAtlasConfig())
	if !errors.Is(err, immg.ErrFontOpen) {
		t.Errorf("expected ErrFontOpen, got %v", err)
	}
}

func TestFontCoverage(t *testing.T) {
	missing, err := immg.FontCoverage(goregular.TTF, ' ', '~')
	if err != nil {
		t.Fatalf("FontCoverage: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("printable ASCII missing %q", missing)
	}

	missing, err = immg.FontCoverage(goregular.TTF, '一', '丂')
	if err != nil {
		t.Fatalf("FontCoverage: %v", err)
	}
	if len(missing) != 3 {
		t.Errorf("got %d missing CJK characters, want 3", len(missing))
	}

	if _, err := immg.FontCoverage(goregular.TTF, 'z', 'a'); !errors.Is(err, immg.ErrInvalidConfig) {
		t.Errorf("reversed range: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := immg.FontCoverage([]byte("junk"), 'a', 'z'); err == nil {
		t.Error("expected parse error for junk data")
	}
}
