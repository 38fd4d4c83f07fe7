package model

import (
	"fmt"

	"github.com/Faultbox/objview/pkg/formats"
)

// TriangleIndices holds one index per triangle corner for each attribute
// stream, in face order (A, B, C).
type TriangleIndices struct {
	Vertex  []uint32
	Texture []uint32
	Normal  []uint32
}

// Len returns the number of corners.
func (t *TriangleIndices) Len() int {
	return len(t.Vertex)
}

// FlattenTriangles expands the faces of m into flat per-corner index arrays
// of length 3*len(m.Faces). Any non-triangle face is rejected.
func FlattenTriangles(m *formats.OBJMesh) (*TriangleIndices, error) {
	n := len(m.Faces) * 3
	out := &TriangleIndices{
		Vertex:  make([]uint32, 0, n),
		Texture: make([]uint32, 0, n),
		Normal:  make([]uint32, 0, n),
	}

	for i := range m.Faces {
		face := &m.Faces[i]
		if face.Type != formats.OBJTriangle || face.Len() != 3 {
			return nil, fmt.Errorf("face %d is a %s: %w", i, face.Type, ErrNonTriangleFace)
		}
		for j := 0; j < 3; j++ {
			out.Vertex = append(out.Vertex, uint32(face.VertexIndices[j]))
			out.Texture = append(out.Texture, uint32(cornerIndex(face.TextureIndices, j)))
			out.Normal = append(out.Normal, uint32(cornerIndex(face.NormalIndices, j)))
		}
	}
	return out, nil
}

func cornerIndex(indices []int, i int) int {
	if i < len(indices) && indices[i] > 0 {
		return indices[i]
	}
	return 0
}
