package immg

import "fmt"

// Per-quad counts. Every primitive in a Batch is a quad, which keeps the
// vertex and index counts in lock step.
const (
	verticesPerQuad = 4
	indicesPerQuad  = 6
)

// quadIndices are the two triangles of a quad, relative to its first vertex.
// Corner order is origin, origin+(0,h), origin+(w,h), origin+(w,0).
var quadIndices = [indicesPerQuad]uint32{0, 1, 3, 1, 2, 3}

// Batch accumulates quads for a frame into vertex and index arrays that are
// submitted in a single draw call.
//
// Storage is allocated once by NewBatch and never grows. Reset returns the
// counters to zero and keeps the arrays, so subsequent pushes overwrite old
// data. A push that does not fit returns ErrBatchOverflow and leaves the
// batch unchanged.
//
// A Batch is not safe for concurrent use.
type Batch struct {
	vertices    []Vertex
	indices     []uint32
	vertexCount int
	indexCount  int
	indexOffset uint32 // Index of the next quad's first vertex
}

// NewBatch creates a batch that holds up to maxQuads quads.
func NewBatch(maxQuads int) *Batch {
	if maxQuads < 0 {
		maxQuads = 0
	}
	return &Batch{
		vertices: make([]Vertex, maxQuads*verticesPerQuad),
		indices:  make([]uint32, maxQuads*indicesPerQuad),
	}
}

// Reset empties the batch for a new frame.
// Retains allocated storage; nothing is zeroed since the counts gate reads.
func (b *Batch) Reset() {
	b.vertexCount = 0
	b.indexCount = 0
	b.indexOffset = 0
}

// PushQuad appends a textured, colored quad. Extent is exclusive: the quad
// spans origin to origin+extent. The uv rectangle maps uvMin to the origin
// corner and uvMax to the opposite corner.
func (b *Batch) PushQuad(origin, extent Vec2, color Color, uvMin, uvMax Vec2) error {
	if err := b.reserve(1); err != nil {
		return err
	}
	c := [3]float32{color.R, color.G, color.B}
	far := origin.Add(extent)

	v := b.vertices[b.vertexCount : b.vertexCount+verticesPerQuad]
	v[0] = Vertex{Pos: [2]float32{origin.X, origin.Y}, TexCoord: [2]float32{uvMin.X, uvMin.Y}, Color: c}
	v[1] = Vertex{Pos: [2]float32{origin.X, far.Y}, TexCoord: [2]float32{uvMin.X, uvMax.Y}, Color: c}
	v[2] = Vertex{Pos: [2]float32{far.X, far.Y}, TexCoord: [2]float32{uvMax.X, uvMax.Y}, Color: c}
	v[3] = Vertex{Pos: [2]float32{far.X, origin.Y}, TexCoord: [2]float32{uvMax.X, uvMin.Y}, Color: c}

	b.commit()
	return nil
}

// PushSolidRect appends an untextured quad. The zero-area uv rectangle at
// (0,0) tells the shader to skip the atlas sample.
func (b *Batch) PushSolidRect(origin, extent Vec2, color Color) error {
	return b.PushQuad(origin, extent, color, Vec2{}, Vec2{})
}

// PushRectOutline appends a rectangle outline made of four solid quads.
// Either all four edges are pushed or none.
func (b *Batch) PushRectOutline(origin, extent Vec2, color Color, thickness float32) error {
	if err := b.reserve(4); err != nil {
		return err
	}
	x, y, w, h := origin.X, origin.Y, extent.X, extent.Y
	// Top edge
	_ = b.PushSolidRect(Vec2{x, y}, Vec2{w, thickness}, color)
	// Bottom edge
	_ = b.PushSolidRect(Vec2{x, y + h - thickness}, Vec2{w, thickness}, color)
	// Left edge
	_ = b.PushSolidRect(Vec2{x, y + thickness}, Vec2{thickness, h - 2*thickness}, color)
	// Right edge
	_ = b.PushSolidRect(Vec2{x + w - thickness, y + thickness}, Vec2{thickness, h - 2*thickness}, color)
	return nil
}

// PushLine appends a solid quad of the given thickness centered on the
// segment between from and to.
func (b *Batch) PushLine(from, to Vec2, color Color, thickness float32) error {
	if err := b.reserve(1); err != nil {
		return err
	}

	// Perpendicular direction for thickness
	d := to.Sub(from)
	inv := float32(1)
	if l := d.Len(); l != 0 {
		inv = 1 / l
	}
	n := Vec2{X: -d.Y, Y: d.X}.Mul(inv * thickness * 0.5)

	c := [3]float32{color.R, color.G, color.B}
	v := b.vertices[b.vertexCount : b.vertexCount+verticesPerQuad]
	v[0] = Vertex{Pos: [2]float32{from.X + n.X, from.Y + n.Y}, Color: c}
	v[1] = Vertex{Pos: [2]float32{from.X - n.X, from.Y - n.Y}, Color: c}
	v[2] = Vertex{Pos: [2]float32{to.X - n.X, to.Y - n.Y}, Color: c}
	v[3] = Vertex{Pos: [2]float32{to.X + n.X, to.Y + n.Y}, Color: c}

	b.commit()
	return nil
}

// reserve checks that n more quads fit in both arrays.
func (b *Batch) reserve(n int) error {
	if b.vertexCount+n*verticesPerQuad > len(b.vertices) ||
		b.indexCount+n*indicesPerQuad > len(b.indices) {
		return fmt.Errorf("%w: %d of %d quads used, %d requested",
			ErrBatchOverflow, b.QuadCount(), b.MaxQuads(), n)
	}
	return nil
}

// commit appends the indices for the four vertices just written at
// vertexCount and advances the counters.
func (b *Batch) commit() {
	idx := b.indices[b.indexCount : b.indexCount+indicesPerQuad]
	for i, q := range quadIndices {
		idx[i] = b.indexOffset + q
	}
	b.vertexCount += verticesPerQuad
	b.indexCount += indicesPerQuad
	b.indexOffset += verticesPerQuad
}

// truncate drops every quad after the first n. Used to roll back a draw
// that failed part way.
func (b *Batch) truncate(n int) {
	if n < 0 || n >= b.QuadCount() {
		return
	}
	b.vertexCount = n * verticesPerQuad
	b.indexCount = n * indicesPerQuad
	b.indexOffset = uint32(b.vertexCount)
}

// Vertices returns the vertices pushed since the last Reset.
// The slice aliases the batch storage and is valid until the next push or Reset.
func (b *Batch) Vertices() []Vertex {
	return b.vertices[:b.vertexCount]
}

// Indices returns the indices pushed since the last Reset.
// The slice aliases the batch storage and is valid until the next push or Reset.
func (b *Batch) Indices() []uint32 {
	return b.indices[:b.indexCount]
}

// VertexCount returns the number of vertices in the batch.
func (b *Batch) VertexCount() int { return b.vertexCount }

// IndexCount returns the number of indices in the batch.
func (b *Batch) IndexCount() int { return b.indexCount }

// QuadCount returns the number of quads in the batch.
func (b *Batch) QuadCount() int { return b.vertexCount / verticesPerQuad }

// TriangleCount returns the number of triangles to draw.
func (b *Batch) TriangleCount() int { return b.indexCount / 3 }

// MaxQuads returns the batch capacity in quads.
func (b *Batch) MaxQuads() int { return len(b.vertices) / verticesPerQuad }

// Remaining returns how many more quads fit before Reset.
func (b *Batch) Remaining() int { return b.MaxQuads() - b.QuadCount() }
