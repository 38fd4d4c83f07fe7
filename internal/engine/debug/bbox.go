// Package debug provides debug visualization and capture utilities.
package debug

import "github.com/Faultbox/objview/pkg/math"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// boxEdges indexes the corners produced by boxCorners, two per edge.
var boxEdges = [BBoxWireframeVertexCount]int{
	// Bottom face
	0, 1, 1, 5, 5, 4, 4, 0,
	// Top face
	2, 3, 3, 7, 7, 6, 6, 2,
	// Vertical edges
	0, 2, 1, 3, 5, 7, 4, 6,
}

// BoundsWireframe returns line vertices ([x, y, z] per vertex) outlining
// the box from min to max, grown by padding on every side.
func BoundsWireframe(min, max math.Vec3, padding float32) []float32 {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	corners := boxCorners(min.Min(max).Sub(pad), min.Max(max).Add(pad))

	out := make([]float32, 0, BBoxWireframeVertexCount*3)
	for _, c := range boxEdges {
		p := corners[c]
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

// boxCorners enumerates corners with bit 0 = X, bit 1 = Y, bit 2 = Z.
func boxCorners(lo, hi math.Vec3) [8]math.Vec3 {
	var c [8]math.Vec3
	for i := range c {
		c[i] = lo
		if i&1 != 0 {
			c[i].X = hi.X
		}
		if i&2 != 0 {
			c[i].Y = hi.Y
		}
		if i&4 != 0 {
			c[i].Z = hi.Z
		}
	}
	return c
}
