package immg

import "testing"

func TestMeasure(t *testing.T) {
	tbl := newTestTable(t, map[rune]GlyphMetrics{'0': zeroMetrics, 'A': aMetrics, '.': dotMetrics})

	tests := []struct {
		text  string
		scale float32
		want  Vec2
	}{
		{"", 1, Vec2{}},
		{"A", 1, Vec2{9, 10}},
		{"A.", 1, Vec2{13, 10}},
		{"AA", 2, Vec2{36, 20}},
		{"A\x01", 1, Vec2{9, 10}}, // no '?' in the table
	}
	for _, tt := range tests {
		if got := Measure(tbl, tt.text, tt.scale); got != tt.want {
			t.Errorf("Measure(%q, %v) = %v, want %v", tt.text, tt.scale, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tbl := newTestTable(t, map[rune]GlyphMetrics{'A': aMetrics, '.': dotMetrics})

	tests := []struct {
		name     string
		text     string
		maxWidth float32
		want     string
	}{
		{"fits", "AAA", 27, "AAA"},
		{"truncated", "AAAAA", 30, "AA.."},
		{"nothing fits", "AAAAA", 5, ".."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tbl, tt.text, tt.maxWidth, 1); got != tt.want {
				t.Errorf("Truncate(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestFitText(t *testing.T) {
	tbl := newTestTable(t, map[rune]GlyphMetrics{'A': aMetrics, '.': dotMetrics})

	if got := FitText(tbl, "AAAAA", 0, 1); got != "" {
		t.Errorf("FitText with zero width = %q, want empty", got)
	}
	// ".." is 8 px wide and does not fit in 6; "." does.
	if got := FitText(tbl, "AAAAA", 6, 1); got != "." {
		t.Errorf("FitText(6) = %q, want \".\"", got)
	}
	if got := FitText(tbl, "AAAAA", 3, 1); got != "" {
		t.Errorf("FitText(3) = %q, want empty", got)
	}
}
