package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/formats"
)

// LoadOptions contains options for mesh building.
type LoadOptions struct {
	// GenerateNormals computes smooth normals when the OBJ mesh has none.
	GenerateNormals bool
	Tangents        TangentOptions
}

// DefaultLoadOptions returns the options used by the viewer.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{GenerateNormals: true}
}

// Load reads the first mesh of an OBJ file and builds it.
func Load(path string, opts LoadOptions) (*Mesh, error) {
	obj, err := formats.LoadOBJMesh(path)
	if err != nil {
		return nil, err
	}
	mesh, err := BuildMesh(obj, opts)
	if err != nil {
		return nil, fmt.Errorf("building mesh from %s: %w", path, err)
	}
	return mesh, nil
}

// BuildMesh runs the import pipeline on one OBJ mesh: flatten the triangle
// indices, weld the attribute streams into shared vertices, then compute
// tangents. Vertex colors are black since OBJ carries none.
func BuildMesh(obj *formats.OBJMesh, opts LoadOptions) (*Mesh, error) {
	log := logger.Named("model").With(zap.String("mesh", obj.Name))

	if len(obj.Faces) == 0 {
		log.Error("OBJ mesh has no faces")
		return nil, ErrNoFaces
	}
	if obj.Faces[0].Type != formats.OBJTriangle {
		log.Error("only triangle-face OBJ meshes are supported", zap.Stringer("first_face", obj.Faces[0].Type))
		return nil, fmt.Errorf("first face is a %s: %w", obj.Faces[0].Type, ErrNonTriangleFace)
	}

	indices, err := FlattenTriangles(obj)
	if err != nil {
		log.Error("failed to flatten OBJ faces", zap.Error(err))
		return nil, err
	}

	normals := obj.Normals
	if len(normals) == 0 && opts.GenerateNormals {
		normals, err = ComputeNormals(obj.Vertices, indices.Vertex)
		if err != nil {
			log.Error("failed to compute normals", zap.Error(err))
			return nil, err
		}
		indices.Normal = append([]uint32(nil), indices.Vertex...)
		log.Debug("generated smooth normals", zap.Int("count", len(normals)))
	}

	vertices, faces, err := Decompress(obj.Vertices, normals, obj.TexCoords, indices)
	if err != nil {
		log.Error("failed to weld vertices", zap.Error(err))
		return nil, err
	}

	if err := ComputeTangents(vertices, faces, opts.Tangents); err != nil {
		log.Error("failed to compute tangents", zap.Error(err))
		return nil, err
	}

	mesh := &Mesh{
		Name:     obj.Name,
		Vertices: vertices,
		Faces:    faces,
		Bounds:   computeBounds(vertices),
	}

	log.Debug("built mesh",
		zap.Int("corners", indices.Len()),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", len(mesh.Faces)),
	)
	return mesh, nil
}
