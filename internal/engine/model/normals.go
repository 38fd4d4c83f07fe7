package model

import (
	"fmt"

	"github.com/Faultbox/objview/pkg/math"
)

// ComputeNormals returns one smooth normal per position: the average of the
// unit face normals of every triangle using it. vertexIndices holds three
// position indices per triangle. Unused positions get a zero normal.
func ComputeNormals(positions []math.Vec3, vertexIndices []uint32) ([]math.Vec3, error) {
	if len(positions) == 0 {
		return nil, ErrNoVertices
	}
	if len(vertexIndices) < 3 {
		return nil, ErrNoFaces
	}

	normals := make([]math.Vec3, len(positions))
	counts := make([]int, len(positions))

	for tri := 0; tri+2 < len(vertexIndices); tri += 3 {
		i0, i1, i2 := vertexIndices[tri], vertexIndices[tri+1], vertexIndices[tri+2]
		for _, idx := range [3]uint32{i0, i1, i2} {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("triangle %d index %d, position count %d: %w", tri/3, idx, len(positions), ErrIndexOutOfRange)
			}
		}

		p0 := positions[i0]
		faceNormal := positions[i1].Sub(p0).Cross(positions[i2].Sub(p0)).Normalize()

		for _, idx := range [3]uint32{i0, i1, i2} {
			normals[idx] = normals[idx].Add(faceNormal)
			counts[idx]++
		}
	}

	for i := range normals {
		if counts[i] > 0 {
			normals[i] = normals[i].Scale(1 / float32(counts[i])).Normalize()
		}
	}
	return normals, nil
}
