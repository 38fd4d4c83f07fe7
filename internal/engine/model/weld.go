package model

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	gomath "math"

	"github.com/Faultbox/objview/pkg/math"
)

// Equal reports whether two vertices share position, normal, tangent and
// texture coordinate. Color is not compared.
func (v Vertex) Equal(other Vertex) bool {
	return v.Position == other.Position &&
		v.Normal == other.Normal &&
		v.Tangent == other.Tangent &&
		v.TexCoord == other.TexCoord
}

// HashVertex hashes the fields compared by Equal. Vertices that are Equal
// hash the same; -0 and +0 are folded together.
func HashVertex(v Vertex) uint64 {
	h := fnv.New64a()
	var buf [4 * 13]byte
	fields := [13]float32{
		v.Position.X, v.Position.Y, v.Position.Z,
		v.Normal.X, v.Normal.Y, v.Normal.Z,
		v.Tangent.X, v.Tangent.Y, v.Tangent.Z, v.Tangent.W,
		v.TexCoord.X, v.TexCoord.Y, v.TexCoord.Z,
	}
	for i, f := range fields {
		if f == 0 {
			f = 0
		}
		binary.LittleEndian.PutUint32(buf[i*4:], gomath.Float32bits(f))
	}
	h.Write(buf[:])
	return h.Sum64()
}

// VertexTable assigns each distinct vertex an index in insertion order.
type VertexTable struct {
	buckets  map[uint64][]uint32
	vertices []Vertex
}

// NewVertexTable returns an empty table sized for about capacity vertices.
func NewVertexTable(capacity int) *VertexTable {
	return &VertexTable{
		buckets:  make(map[uint64][]uint32, capacity),
		vertices: make([]Vertex, 0, capacity),
	}
}

// Insert returns the index of v, appending it if no Equal vertex is stored
// yet. added reports whether v was new.
func (t *VertexTable) Insert(v Vertex) (index uint32, added bool) {
	key := HashVertex(v)
	for _, idx := range t.buckets[key] {
		if t.vertices[idx].Equal(v) {
			return idx, false
		}
	}

	index = uint32(len(t.vertices))
	t.vertices = append(t.vertices, v)
	t.buckets[key] = append(t.buckets[key], index)
	return index, true
}

// Len returns the number of distinct vertices.
func (t *VertexTable) Len() int {
	return len(t.vertices)
}

// Vertices returns the distinct vertices in first-seen order.
func (t *VertexTable) Vertices() []Vertex {
	return t.vertices
}

// Decompress welds independently indexed position, normal and texture
// coordinate streams into one vertex buffer with shared indices. Output
// order follows corner traversal, so the result is deterministic.
//
// An empty normal or texcoord pool yields zero vectors for that attribute.
func Decompress(positions, normals, texCoords []math.Vec3, idx *TriangleIndices) ([]Vertex, []Face, error) {
	n := idx.Len()
	if len(idx.Texture) != n || len(idx.Normal) != n || n%3 != 0 {
		return nil, nil, fmt.Errorf("vertex=%d texture=%d normal=%d: %w",
			n, len(idx.Texture), len(idx.Normal), ErrIndexMismatch)
	}

	table := NewVertexTable(n)
	faces := make([]Face, 0, n/3)

	for tri := 0; tri < n; tri += 3 {
		var face Face
		for c := 0; c < 3; c++ {
			i := tri + c
			pos, err := poolAt(positions, idx.Vertex[i], false)
			if err != nil {
				return nil, nil, fmt.Errorf("corner %d position: %w", i, err)
			}
			nrm, err := poolAt(normals, idx.Normal[i], true)
			if err != nil {
				return nil, nil, fmt.Errorf("corner %d normal: %w", i, err)
			}
			uv, err := poolAt(texCoords, idx.Texture[i], true)
			if err != nil {
				return nil, nil, fmt.Errorf("corner %d texcoord: %w", i, err)
			}

			face[c], _ = table.Insert(Vertex{Position: pos, Normal: nrm, TexCoord: uv})
		}
		faces = append(faces, face)
	}

	return table.Vertices(), faces, nil
}

func poolAt(pool []math.Vec3, i uint32, emptyOK bool) (math.Vec3, error) {
	if len(pool) == 0 && emptyOK {
		return math.Vec3{}, nil
	}
	if int(i) >= len(pool) {
		return math.Vec3{}, fmt.Errorf("index %d, pool size %d: %w", i, len(pool), ErrIndexOutOfRange)
	}
	return pool[i], nil
}
