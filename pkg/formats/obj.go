// Package formats provides parsers and writers for 3D mesh file formats.
// OBJ (Wavefront) document model.
package formats

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Faultbox/objview/pkg/math"
)

// OBJ format errors.
var (
	ErrOBJEmptyPath       = errors.New("empty OBJ path")
	ErrOBJEmptyName       = errors.New("empty OBJ name")
	ErrOBJIndexInUse      = errors.New("OBJ name index already in use")
	ErrOBJInvalidNode     = errors.New("invalid OBJ face node")
	ErrOBJNoMeshes        = errors.New("OBJ file contains no meshes")
	ErrOBJLibraryNotFound = errors.New("OBJ material library index out of range")
)

// Sentinel names stored at index 0 of the group and material tables.
const (
	OBJDefaultGroup    = "DefaultGroup"
	OBJDefaultMaterial = "DefaultMaterial"
)

// OBJFaceType classifies a face by its corner count.
type OBJFaceType int

const (
	OBJTriangle OBJFaceType = iota // 3 corners
	OBJQuad                        // 4 corners
	OBJPolygon                     // anything else
)

// String returns a human-readable face type name.
func (t OBJFaceType) String() string {
	switch t {
	case OBJTriangle:
		return "Triangle"
	case OBJQuad:
		return "Quad"
	case OBJPolygon:
		return "Polygon"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// objFaceTypeFor returns the face type for a face with n corners.
func objFaceTypeFor(n int) OBJFaceType {
	switch n {
	case 3:
		return OBJTriangle
	case 4:
		return OBJQuad
	default:
		return OBJPolygon
	}
}

// OBJFace is a polygon with independent, 0-based, mesh-local index streams.
// The three index slices always have the same length.
type OBJFace struct {
	Type           OBJFaceType
	VertexIndices  []int
	TextureIndices []int
	NormalIndices  []int

	// Zero means "none" for all three.
	SmoothingGroup int
	Group          int
	Material       int
}

// Len returns the number of corners.
func (f *OBJFace) Len() int {
	return len(f.VertexIndices)
}

// OBJMesh is one sub-mesh of an OBJ document with its own attribute pools.
type OBJMesh struct {
	Name      string
	Vertices  []math.Vec3
	TexCoords []math.Vec3 // Z is usually unused
	Normals   []math.Vec3
	Faces     []OBJFace
}

// OBJFile is a parsed OBJ document: sub-meshes plus the group and material
// name tables shared by their faces.
type OBJFile struct {
	Meshes            []*OBJMesh
	Groups            map[int]string
	Materials         map[int]string
	MaterialLibraries []string

	nextGroup    int
	nextMaterial int
}

// NewOBJFile returns an empty document with the sentinel names registered.
func NewOBJFile() *OBJFile {
	f := &OBJFile{}
	f.ensureSentinels()
	return f
}

// ensureSentinels makes a zero-value OBJFile usable.
func (f *OBJFile) ensureSentinels() {
	if f.Groups == nil {
		f.Groups = make(map[int]string)
	}
	if f.Materials == nil {
		f.Materials = make(map[int]string)
	}
	if _, ok := f.Groups[0]; !ok {
		f.Groups[0] = OBJDefaultGroup
	}
	if _, ok := f.Materials[0]; !ok {
		f.Materials[0] = OBJDefaultMaterial
	}
	if f.nextGroup < 1 {
		f.nextGroup = 1
	}
	if f.nextMaterial < 1 {
		f.nextMaterial = 1
	}
}

// AddMesh appends an empty mesh and returns its index.
func (f *OBJFile) AddMesh(name string) int {
	return f.AppendMesh(&OBJMesh{Name: name})
}

// AppendMesh appends an existing mesh and returns its index.
func (f *OBJFile) AppendMesh(m *OBJMesh) int {
	f.Meshes = append(f.Meshes, m)
	return len(f.Meshes) - 1
}

// AddMaterialLibrary records an external material library and returns its index.
func (f *OBJFile) AddMaterialLibrary(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("material library: %w", ErrOBJEmptyName)
	}
	f.MaterialLibraries = append(f.MaterialLibraries, name)
	return len(f.MaterialLibraries) - 1, nil
}

// AddGroup registers a group under the next free index and returns it.
// Index 0 is never handed out.
func (f *OBJFile) AddGroup(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("group: %w", ErrOBJEmptyName)
	}
	f.ensureSentinels()
	idx := f.nextGroup
	f.Groups[idx] = name
	f.nextGroup++
	return idx, nil
}

// AddMaterial registers a material under the next free index and returns it.
func (f *OBJFile) AddMaterial(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("material: %w", ErrOBJEmptyName)
	}
	f.ensureSentinels()
	idx := f.nextMaterial
	f.Materials[idx] = name
	f.nextMaterial++
	return idx, nil
}

// SetGroup registers a group under an explicit index.
func (f *OBJFile) SetGroup(index int, name string) error {
	f.ensureSentinels()
	if err := setName(f.Groups, index, name); err != nil {
		return fmt.Errorf("group %d: %w", index, err)
	}
	if index >= f.nextGroup {
		f.nextGroup = index + 1
	}
	return nil
}

// SetMaterial registers a material under an explicit index.
func (f *OBJFile) SetMaterial(index int, name string) error {
	f.ensureSentinels()
	if err := setName(f.Materials, index, name); err != nil {
		return fmt.Errorf("material %d: %w", index, err)
	}
	if index >= f.nextMaterial {
		f.nextMaterial = index + 1
	}
	return nil
}

func setName(table map[int]string, index int, name string) error {
	if name == "" {
		return ErrOBJEmptyName
	}
	if _, ok := table[index]; ok {
		return ErrOBJIndexInUse
	}
	table[index] = name
	return nil
}

// MeshCount returns the number of meshes.
func (f *OBJFile) MeshCount() int { return len(f.Meshes) }

// GroupCount returns the number of group names, including the sentinel.
func (f *OBJFile) GroupCount() int { return len(f.Groups) }

// MaterialCount returns the number of material names, including the sentinel.
func (f *OBJFile) MaterialCount() int { return len(f.Materials) }

// MaterialLibraryCount returns the number of referenced material libraries.
func (f *OBJFile) MaterialLibraryCount() int { return len(f.MaterialLibraries) }

// Mesh returns the mesh at index, or nil if out of range.
func (f *OBJFile) Mesh(index int) *OBJMesh {
	if index < 0 || index >= len(f.Meshes) {
		return nil
	}
	return f.Meshes[index]
}

// GroupName returns the name registered for a face group index,
// falling back to OBJDefaultGroup.
func (f *OBJFile) GroupName(index int) string {
	if name, ok := f.Groups[index]; ok {
		return name
	}
	return OBJDefaultGroup
}

// MaterialName returns the name registered for a face material index,
// falling back to OBJDefaultMaterial.
func (f *OBJFile) MaterialName(index int) string {
	if name, ok := f.Materials[index]; ok {
		return name
	}
	return OBJDefaultMaterial
}

// MaterialLibrary returns the material library at index.
func (f *OBJFile) MaterialLibrary(index int) (string, error) {
	if index < 0 || index >= len(f.MaterialLibraries) {
		return "", fmt.Errorf("%w: %d", ErrOBJLibraryNotFound, index)
	}
	return f.MaterialLibraries[index], nil
}

// String returns a human-readable dump of the document.
func (f *OBJFile) String() string {
	var b strings.Builder

	b.WriteString("OBJFile {\n")
	fmt.Fprintf(&b, "\tMesh Count: %d\n", f.MeshCount())
	fmt.Fprintf(&b, "\tGroup Count: %d\n", f.GroupCount())
	fmt.Fprintf(&b, "\tMaterial Count: %d\n", f.MaterialCount())
	fmt.Fprintf(&b, "\tMaterial Library Count: %d\n\n", f.MaterialLibraryCount())

	writeNameTable(&b, "Groups", f.Groups)
	writeNameTable(&b, "Materials", f.Materials)

	if len(f.MaterialLibraries) > 0 {
		b.WriteString("\t[MaterialLibraries]\n")
		for _, lib := range f.MaterialLibraries {
			fmt.Fprintf(&b, "\t\t%s\n", lib)
		}
		b.WriteString("\n")
	}

	for _, m := range f.Meshes {
		writeMeshDump(&b, m)
	}
	b.WriteString("}\n")
	return b.String()
}

func writeNameTable(b *strings.Builder, title string, table map[int]string) {
	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	fmt.Fprintf(b, "\t[%s]\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "\t\t[%d] %s\n", k, table[k])
	}
	b.WriteString("\n")
}

func writeMeshDump(b *strings.Builder, m *OBJMesh) {
	b.WriteString("\t[Mesh]\n")
	fmt.Fprintf(b, "\t\tName: %s\n", m.Name)
	writeVecDump(b, "Vertices", "v", m.Vertices)
	writeVecDump(b, "Texture Coords", "vt", m.TexCoords)
	writeVecDump(b, "Normals", "vn", m.Normals)

	fmt.Fprintf(b, "\t\tFaces: %d\n", len(m.Faces))
	for i := range m.Faces {
		face := &m.Faces[i]
		b.WriteString("\t\t\tf")
		for j := range face.VertexIndices {
			fmt.Fprintf(b, " %d/%d/%d", face.VertexIndices[j]+1, indexAt(face.TextureIndices, j)+1, indexAt(face.NormalIndices, j)+1)
		}
		b.WriteString("\n")
	}
}

func writeVecDump(b *strings.Builder, title, tag string, vs []math.Vec3) {
	fmt.Fprintf(b, "\t\t%s: %d\n", title, len(vs))
	for _, v := range vs {
		fmt.Fprintf(b, "\t\t\t%s %g %g %g\n", tag, v.X, v.Y, v.Z)
	}
}

// indexAt tolerates faces built by hand with missing texture/normal streams.
func indexAt(indices []int, i int) int {
	if i < len(indices) {
		return indices[i]
	}
	return 0
}
