// Package model builds indexed, GPU-ready meshes from parsed OBJ data.
package model

import (
	"errors"

	"github.com/Faultbox/objview/pkg/math"
)

// Mesh pipeline errors.
var (
	ErrNonTriangleFace = errors.New("only triangle faces are supported")
	ErrNoVertices      = errors.New("mesh has no vertices")
	ErrNoFaces         = errors.New("mesh has no faces")
	ErrIndexOutOfRange = errors.New("attribute index out of range")
	ErrIndexMismatch   = errors.New("index streams have different lengths")
)

// Vertex is one GPU vertex. The field order and widths are the layout the
// renderer binds its attribute pointers to; do not reorder.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Tangent  math.Vec4 // w is handedness, ±1
	TexCoord math.Vec3
	Color    math.Vec3
}

// Vertex layout in bytes.
const (
	VertexSize     = 64
	PositionOffset = 0
	NormalOffset   = 12
	TangentOffset  = 24
	TexCoordOffset = 40
	ColorOffset    = 52
)

// Face is a triangle of indices into Mesh.Vertices.
type Face [3]uint32

// Mesh holds deduplicated vertices and triangles ready for GPU upload.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
	Bounds   Bounds
}

// IndexCount returns the number of element indices needed to draw the mesh.
func (m *Mesh) IndexCount() int {
	return len(m.Faces) * 3
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns half the diagonal length.
func (b Bounds) Radius() float32 {
	return b.Max.Distance(b.Min) * 0.5
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for i := 1; i < len(vertices); i++ {
		b.Min = b.Min.Min(vertices[i].Position)
		b.Max = b.Max.Max(vertices[i].Position)
	}
	return b
}
