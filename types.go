package immg

import "math"

// Vec2 represents a 2D vector for positions, sizes and texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Add returns the sum of two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div returns the component-wise quotient of two vectors.
func (v Vec2) Div(other Vec2) Vec2 {
	return Vec2{X: v.X / other.X, Y: v.Y / other.Y}
}

// Len returns the length of the vector.
func (v Vec2) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Rect represents a rectangle with position and size.
// Extents are exclusive: the rectangle covers [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y float32 // Top-left position
	W, H float32 // Width and height
}

// RectMinMax builds a rectangle from its min corner and exclusive max corner.
func RectMinMax(min, max Vec2) Rect {
	return Rect{X: min.X, Y: min.Y, W: max.X - min.X, H: max.Y - min.Y}
}

// Min returns the top-left corner.
func (r Rect) Min() Vec2 { return Vec2{X: r.X, Y: r.Y} }

// Max returns the exclusive bottom-right corner.
func (r Rect) Max() Vec2 { return Vec2{X: r.X + r.W, Y: r.Y + r.H} }

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersect returns the overlap of two rectangles.
// The result has zero size when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := maxf(r.X, other.X)
	y0 := maxf(r.Y, other.Y)
	x1 := minf(r.X+r.W, other.X+other.W)
	y1 := minf(r.Y+r.H, other.Y+other.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	x0 := minf(r.X, other.X)
	y0 := minf(r.Y, other.Y)
	x1 := maxf(r.X+r.W, other.X+other.W)
	y1 := maxf(r.Y+r.H, other.Y+other.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Color is a linear RGB color with components in 0.0-1.0.
type Color struct {
	R, G, B float32
}

// Color constants
var (
	ColorWhite     = Color{1, 1, 1}
	ColorBlack     = Color{0, 0, 0}
	ColorRed       = Color{1, 0, 0}
	ColorGreen     = Color{0, 1, 0}
	ColorBlue      = Color{0, 0, 1}
	ColorYellow    = Color{1, 1, 0}
	ColorCyan      = Color{0, 1, 1}
	ColorMagenta   = Color{1, 0, 1}
	ColorGray      = Color{0.5, 0.5, 0.5}
	ColorDarkGray  = Color{0.25, 0.25, 0.25}
	ColorLightGray = Color{0.75, 0.75, 0.75}
)

// RGB creates a color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// RGBf creates a color from float components, clamped to 0.0-1.0.
func RGBf(r, g, b float32) Color {
	return Color{R: clampf(r, 0, 1), G: clampf(g, 0, 1), B: clampf(b, 0, 1)}
}

// Vertex represents a vertex for batched rendering.
// Memory layout matches OpenGL vertex attribute expectations.
type Vertex struct {
	Pos      [2]float32 // Position (x, y)
	TexCoord [2]float32 // Texture coordinates (u, v)
	Color    [3]float32 // RGB color
}

// clampf clamps a float32 value to a range.
func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// maxf returns the maximum of two float32 values.
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// minf returns the minimum of two float32 values.
func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
