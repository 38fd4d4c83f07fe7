package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
)

const objHeader = "# objview Wavefront OBJ 1.0"

// OBJSaveOptions selects which optional face node components are written.
type OBJSaveOptions struct {
	TexCoords bool
	Normals   bool
}

// DefaultOBJSaveOptions writes every component.
func DefaultOBJSaveOptions() OBJSaveOptions {
	return OBJSaveOptions{TexCoords: true, Normals: true}
}

// Save writes the document to path as OBJ text.
func (f *OBJFile) Save(path string, opts OBJSaveOptions) error {
	log := logger.Named("obj")
	if path == "" {
		log.Error("cannot save OBJ file with empty path")
		return ErrOBJEmptyPath
	}

	out, err := os.Create(path)
	if err != nil {
		log.Error("OBJ file could not be created", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("creating OBJ file %s: %w", path, err)
	}
	if err := f.Encode(out, opts); err != nil {
		out.Close()
		return fmt.Errorf("writing OBJ file %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing OBJ file %s: %w", path, err)
	}

	log.Debug("saved OBJ file", zap.String("path", path), zap.Int("meshes", f.MeshCount()))
	return nil
}

// Encode writes the document as OBJ text. Every mesh starts with an "o"
// directive and face indices are written file-global, so decoding the
// output reproduces the same meshes.
func (f *OBJFile) Encode(w io.Writer, opts OBJSaveOptions) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n\n", objHeader)

	if len(f.MaterialLibraries) > 0 {
		bw.WriteString("# Material libraries\n")
		for _, lib := range f.MaterialLibraries {
			fmt.Fprintf(bw, "mtllib %s\n", lib)
		}
		bw.WriteString("\n")
	}

	var vertexBase, texBase, normalBase int
	markers := &objMarkerState{}
	for _, m := range f.Meshes {
		saveTex := opts.TexCoords && len(m.TexCoords) > 0
		saveNormals := opts.Normals && len(m.Normals) > 0

		if m.Name != "" {
			fmt.Fprintf(bw, "o %s\n", m.Name)
		} else {
			bw.WriteString("o\n")
		}

		writeOBJVectors(bw, "v", "vertices", m.Vertices, true)
		if saveTex {
			writeOBJVectors(bw, "vt", "texture coordinates", m.TexCoords, false)
		}
		if saveNormals {
			writeOBJVectors(bw, "vn", "vertex normals", m.Normals, false)
		}

		// "o" resets smoothing on read; group and material carry over.
		markers.smoothing = 0
		f.writeOBJFaces(bw, m, markers, saveTex, saveNormals, vertexBase, texBase, normalBase)

		vertexBase += len(m.Vertices)
		if saveTex {
			texBase += len(m.TexCoords)
		}
		if saveNormals {
			normalBase += len(m.Normals)
		}
	}

	return bw.Flush()
}

func writeOBJVectors(w *bufio.Writer, tag, label string, vs []math.Vec3, alwaysCount bool) {
	for _, v := range vs {
		fmt.Fprintf(w, "%s %.6f %.6f %.6f\n", tag, v.X, v.Y, v.Z)
	}
	if len(vs) > 0 || alwaysCount {
		fmt.Fprintf(w, "# %d %s\n\n", len(vs), label)
	}
}

// objMarkerState mirrors the reader's current group, material and smoothing.
type objMarkerState struct {
	group     int
	material  int
	smoothing int
}

// writeOBJFaces emits group and material markers only when they change from
// the previous face. Group and material index 0 never produce a marker.
func (f *OBJFile) writeOBJFaces(w *bufio.Writer, m *OBJMesh, st *objMarkerState, saveTex, saveNormals bool, vertexBase, texBase, normalBase int) {
	for i := range m.Faces {
		face := &m.Faces[i]

		if face.Group != 0 && face.Group != st.group {
			name := f.GroupName(face.Group)
			if name == OBJDefaultGroup {
				name = m.Name
			}
			fmt.Fprintf(w, "g %s\n", name)
			st.group = face.Group
		}
		if face.Material != 0 && face.Material != st.material {
			fmt.Fprintf(w, "usemtl %s\n", f.MaterialName(face.Material))
			st.material = face.Material
		}
		if face.SmoothingGroup != st.smoothing {
			if face.SmoothingGroup == 0 {
				w.WriteString("s off\n")
			} else {
				fmt.Fprintf(w, "s %d\n", face.SmoothingGroup)
			}
			st.smoothing = face.SmoothingGroup
		}

		w.WriteString("f")
		for j, vi := range face.VertexIndices {
			fmt.Fprintf(w, " %d", vi+vertexBase+objIndexOffset)
			ti := indexAt(face.TextureIndices, j) + texBase + objIndexOffset
			ni := indexAt(face.NormalIndices, j) + normalBase + objIndexOffset
			switch {
			case saveTex && saveNormals:
				fmt.Fprintf(w, "/%d/%d", ti, ni)
			case saveTex:
				fmt.Fprintf(w, "/%d", ti)
			case saveNormals:
				fmt.Fprintf(w, "//%d", ni)
			}
		}
		w.WriteString("\n")
	}

	if len(m.Faces) > 0 {
		fmt.Fprintf(w, "# %d faces\n\n", len(m.Faces))
	}
}
