package model

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/objview/pkg/math"
)

const (
	tangentZeroEps  = 0.01
	normalAxisEps   = 1e-4
	degenerateUVEps = 1e-12
)

// DegenerateUVPolicy decides what happens to triangles whose texture
// coordinates span no area, where the tangent solve divides by zero.
type DegenerateUVPolicy int

const (
	// DegenerateUVPropagate applies the formula as is; infinite or NaN
	// contributions reach every vertex of the triangle.
	DegenerateUVPropagate DegenerateUVPolicy = iota
	// DegenerateUVSkip leaves such triangles out of the accumulation.
	DegenerateUVSkip
)

// String returns the config name of the policy.
func (p DegenerateUVPolicy) String() string {
	switch p {
	case DegenerateUVPropagate:
		return "propagate"
	case DegenerateUVSkip:
		return "skip"
	default:
		return fmt.Sprintf("DegenerateUVPolicy(%d)", int(p))
	}
}

// ParseDegenerateUVPolicy parses "propagate" or "skip". Empty means propagate.
func ParseDegenerateUVPolicy(s string) (DegenerateUVPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "propagate":
		return DegenerateUVPropagate, nil
	case "skip":
		return DegenerateUVSkip, nil
	default:
		return DegenerateUVPropagate, fmt.Errorf("unknown degenerate UV policy %q", s)
	}
}

// TangentOptions configures ComputeTangents.
type TangentOptions struct {
	DegenerateUV DegenerateUVPolicy
}

// ComputeTangents writes a tangent with handedness into every vertex, from
// the texture coordinate gradients of the triangles that use it.
// Positions, normals and texture coordinates must already be set.
func ComputeTangents(vertices []Vertex, faces []Face, opts TangentOptions) error {
	if len(vertices) == 0 {
		return ErrNoVertices
	}
	if len(faces) == 0 {
		return ErrNoFaces
	}

	tan1 := make([]math.Vec3, len(vertices))
	tan2 := make([]math.Vec3, len(vertices))

	for fi, face := range faces {
		for _, idx := range face {
			if int(idx) >= len(vertices) {
				return fmt.Errorf("face %d index %d, vertex count %d: %w", fi, idx, len(vertices), ErrIndexOutOfRange)
			}
		}
		i0, i1, i2 := face[0], face[1], face[2]

		p1, p2, p3 := vertices[i0].Position, vertices[i1].Position, vertices[i2].Position
		w1, w2, w3 := vertices[i0].TexCoord, vertices[i1].TexCoord, vertices[i2].TexCoord

		e1 := p2.Sub(p1)
		e2 := p3.Sub(p1)

		s1 := w2.X - w1.X
		s2 := w3.X - w1.X
		t1 := w2.Y - w1.Y
		t2 := w3.Y - w1.Y

		det := s1*t2 - s2*t1
		if opts.DegenerateUV == DegenerateUVSkip && !usableDeterminant(det) {
			continue
		}
		r := 1 / det

		sdir := e1.Scale(t2).Sub(e2.Scale(t1)).Scale(r)
		tdir := e2.Scale(s1).Sub(e1.Scale(s2)).Scale(r)

		for _, idx := range face {
			tan1[idx] = tan1[idx].Add(sdir)
			tan2[idx] = tan2[idx].Add(tdir)
		}
	}

	for i := range vertices {
		n := vertices[i].Normal
		t := tan1[i]

		tangent := t.Sub(n.Scale(n.Dot(t))).Normalize()
		if tangent.Equivalent(math.Vec3{}, tangentZeroEps) {
			if n.Equivalent(math.UnitY, normalAxisEps) || n.Equivalent(math.UnitNY, normalAxisEps) {
				tangent = math.UnitX
			}
		}

		w := float32(1)
		if n.Cross(t).Dot(tan2[i]) < 0 {
			w = -1
		}
		vertices[i].Tangent = tangent.Vec4(w)
	}
	return nil
}

func usableDeterminant(det float32) bool {
	return math32.Abs(det) > degenerateUVEps && !math32.IsInf(det, 0) && !math32.IsNaN(det)
}
