package formats

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/objview/pkg/math"
)

func decodeOBJ(t *testing.T, src string) *OBJFile {
	t.Helper()
	f := NewOBJFile()
	require.NoError(t, f.Decode(strings.NewReader(src)))
	return f
}

func TestDecodeOBJ_SingleTriangle(t *testing.T) {
	f := decodeOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	require.Equal(t, 1, f.MeshCount())
	m := f.Mesh(0)
	assert.Len(t, m.Vertices, 3)
	require.Len(t, m.Faces, 1)

	face := m.Faces[0]
	assert.Equal(t, OBJTriangle, face.Type)
	assert.Equal(t, []int{0, 1, 2}, face.VertexIndices)
	assert.Equal(t, []int{0, 0, 0}, face.TextureIndices)
	assert.Equal(t, []int{0, 0, 0}, face.NormalIndices)
	assert.Equal(t, math.Vec3{X: 1}, m.Vertices[1])
}

func TestDecodeOBJ_DegenerateFaceDropped(t *testing.T) {
	f := decodeOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2\n")

	require.Equal(t, 1, f.MeshCount())
	assert.Len(t, f.Mesh(0).Vertices, 3)
	assert.Empty(t, f.Mesh(0).Faces)
}

func TestDecodeOBJ_FullNodes(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
vn 0 0 1
vn 0 0 1
f 1/1/1 2/2/2 3/3/3
`
	f := decodeOBJ(t, src)
	m := f.Mesh(0)
	require.Len(t, m.Faces, 1)

	face := m.Faces[0]
	assert.Equal(t, []int{0, 1, 2}, face.VertexIndices)
	assert.Equal(t, []int{0, 1, 2}, face.TextureIndices)
	assert.Equal(t, []int{0, 1, 2}, face.NormalIndices)
	assert.Len(t, m.TexCoords, 3)
	assert.Equal(t, math.Vec3{X: 1}, m.TexCoords[1])
	assert.Len(t, m.Normals, 3)
}

func TestDecodeOBJ_NodeForms(t *testing.T) {
	tests := []struct {
		name        string
		face        string
		wantTexture []int
		wantNormal  []int
	}{
		{"vertex only", "f 1 2 3", []int{0, 0, 0}, []int{0, 0, 0}},
		{"vertex texture", "f 1/3 2/2 3/1", []int{2, 1, 0}, []int{0, 0, 0}},
		{"vertex normal", "f 1//2 2//3 3//1", []int{0, 0, 0}, []int{1, 2, 0}},
		{"vertex texture normal", "f 1/2/3 2/3/1 3/1/2", []int{1, 2, 0}, []int{2, 0, 1}},
		{"trailing empty normal", "f 1/2/ 2/3/ 3/1/", []int{1, 2, 0}, []int{0, 0, 0}},
	}

	pools := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 0\nvt 0 1\nvn 1 0 0\nvn 0 1 0\nvn 0 0 1\n"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := decodeOBJ(t, pools+tt.face+"\n")
			require.Len(t, f.Mesh(0).Faces, 1)
			face := f.Mesh(0).Faces[0]
			assert.Equal(t, []int{0, 1, 2}, face.VertexIndices)
			assert.Equal(t, tt.wantTexture, face.TextureIndices)
			assert.Equal(t, tt.wantNormal, face.NormalIndices)
		})
	}
}

func TestDecodeOBJ_FaceTypes(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nv 0 2 0\nf 1 2 3\nf 1 2 3 4\nf 1 2 3 4 5\n"
	f := decodeOBJ(t, src)

	faces := f.Mesh(0).Faces
	require.Len(t, faces, 3)
	for i, want := range []OBJFaceType{OBJTriangle, OBJQuad, OBJPolygon} {
		assert.Equal(t, want, faces[i].Type)
		assert.Len(t, faces[i].VertexIndices, faces[i].Len())
		assert.Len(t, faces[i].TextureIndices, faces[i].Len())
		assert.Len(t, faces[i].NormalIndices, faces[i].Len())
	}
}

func TestDecodeOBJ_InvalidVertexIndexDiscardsFace(t *testing.T) {
	tests := []struct {
		name string
		face string
	}{
		{"zero index", "f 0 1 2"},
		{"relative index", "f -1 -2 -3"},
		{"garbage index", "f a 2 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := decodeOBJ(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\n"+tt.face+"\nf 1 2 3\n")
			faces := f.Mesh(0).Faces
			require.Len(t, faces, 1, "only the valid face is kept")
			assert.Equal(t, []int{0, 1, 2}, faces[0].VertexIndices)
		})
	}
}

func TestDecodeOBJ_TooManySeparatorsIsFatal(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\nf 1 2 3\n"
	f := NewOBJFile()
	err := f.Decode(strings.NewReader(src))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOBJInvalidNode))
	assert.Contains(t, err.Error(), "line 4")
	assert.Empty(t, f.Mesh(0).Faces, "parsing stops at the bad line")
}

func TestDecodeOBJ_CommentsBlankAndUnknownLines(t *testing.T) {
	src := "# header\n\n#nospace\n   \nfoo bar\nv 1 2 3\nbevel on\n"
	f := decodeOBJ(t, src)

	require.Equal(t, 1, f.MeshCount())
	assert.Equal(t, []math.Vec3{{X: 1, Y: 2, Z: 3}}, f.Mesh(0).Vertices)
}

func TestDecodeOBJ_NoGeometryNoMesh(t *testing.T) {
	f := decodeOBJ(t, "# only a comment\nmtllib scene.mtl\n")
	assert.Equal(t, 0, f.MeshCount())
	assert.Equal(t, []string{"scene.mtl"}, f.MaterialLibraries)
}

func TestDecodeOBJ_VectorComponents(t *testing.T) {
	f := decodeOBJ(t, "vt 0.5 0.25\nv 1 nope 3\nvn 0 0 1 9\n")
	m := f.Mesh(0)

	assert.Equal(t, math.Vec3{X: 0.5, Y: 0.25}, m.TexCoords[0])
	assert.Equal(t, math.Vec3{X: 1, Z: 3}, m.Vertices[0])
	assert.Equal(t, math.Vec3{Z: 1}, m.Normals[0])
}

func TestDecodeOBJ_ContextDirectives(t *testing.T) {
	src := `mtllib a.mtl b.mtl
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
g body
usemtl skin
s 2
f 1 2 3
s off
usemtl cloth
f 1 2 3
s
f 1 2 3
`
	f := decodeOBJ(t, src)

	assert.Equal(t, []string{"a.mtl", "b.mtl"}, f.MaterialLibraries)
	assert.Equal(t, map[int]string{0: OBJDefaultGroup, 1: "body"}, f.Groups)
	assert.Equal(t, map[int]string{0: OBJDefaultMaterial, 1: "skin", 2: "cloth"}, f.Materials)

	m := f.Mesh(0)
	assert.Equal(t, "body", m.Name)
	require.Len(t, m.Faces, 4)

	type ctx struct{ group, material, smoothing int }
	want := []ctx{{0, 0, 0}, {1, 1, 2}, {1, 2, 0}, {1, 2, 0}}
	for i, w := range want {
		face := m.Faces[i]
		assert.Equal(t, w, ctx{face.Group, face.Material, face.SmoothingGroup}, "face %d", i)
	}
}

func TestDecodeOBJ_ObjectsUseGlobalIndices(t *testing.T) {
	src := `o first
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
o second
s 4
v 0 0 1
v 1 0 1
v 0 1 1
vn 0 0 -1
f 4//2 5//2 6//2
f 1 2 3
o
`
	f := decodeOBJ(t, src)
	require.Equal(t, 3, f.MeshCount())

	first, second := f.Mesh(0), f.Mesh(1)
	assert.Equal(t, "first", first.Name)
	assert.Equal(t, "second", second.Name)
	assert.Equal(t, "", f.Mesh(2).Name)

	require.Len(t, second.Faces, 1, "face referencing the previous object's vertices is discarded")
	assert.Equal(t, []int{0, 1, 2}, second.Faces[0].VertexIndices)
	assert.Equal(t, []int{0, 0, 0}, second.Faces[0].NormalIndices)
	assert.Equal(t, 4, second.Faces[0].SmoothingGroup)
}

func TestDecodeOBJ_Idempotent(t *testing.T) {
	src := "o cube\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\ng side\nusemtl red\nf 1/1/1 2/1/1 3/1/1\n"
	a := decodeOBJ(t, src)
	b := decodeOBJ(t, src)
	assert.Equal(t, a, b)
}

func TestOBJRoundTrip(t *testing.T) {
	src := `mtllib scene.mtl
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
g front
usemtl paint
s 1
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
o tri
v 0 0 0.5
v 0.25 0 0.5
v 0 0.125 0.5
f 5 6 7
`
	original := decodeOBJ(t, src)

	var first bytes.Buffer
	require.NoError(t, original.Encode(&first, DefaultOBJSaveOptions()))

	reparsed := decodeOBJ(t, first.String())
	require.Equal(t, original.MeshCount(), reparsed.MeshCount())
	assert.Equal(t, original.MaterialLibraries, reparsed.MaterialLibraries)
	for i := range original.Meshes {
		want, got := original.Mesh(i), reparsed.Mesh(i)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Vertices, got.Vertices)
		assert.Equal(t, want.TexCoords, got.TexCoords)
		assert.Equal(t, want.Normals, got.Normals)
		require.Len(t, got.Faces, len(want.Faces))
		for j := range want.Faces {
			assert.Equal(t, want.Faces[j].Type, got.Faces[j].Type)
			assert.Equal(t, want.Faces[j].VertexIndices, got.Faces[j].VertexIndices)
			assert.Equal(t, want.Faces[j].TextureIndices, got.Faces[j].TextureIndices)
			assert.Equal(t, want.Faces[j].NormalIndices, got.Faces[j].NormalIndices)
			assert.Equal(t, want.Faces[j].SmoothingGroup, got.Faces[j].SmoothingGroup)
		}
	}

	var second bytes.Buffer
	require.NoError(t, reparsed.Encode(&second, DefaultOBJSaveOptions()))
	assert.Equal(t, first.String(), second.String())
}

func TestEncodeOBJ_Format(t *testing.T) {
	f := decodeOBJ(t, "v 0.5 1 2\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n")

	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf, DefaultOBJSaveOptions()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, objHeader+"\n"))
	assert.Contains(t, out, "v 0.500000 1.000000 2.000000\n")
	assert.Contains(t, out, "# 3 vertices\n")
	assert.Contains(t, out, "f 1/1/1 2/1/1 3/1/1\n")
	assert.Contains(t, out, "# 1 faces\n")
	assert.NotContains(t, out, "usemtl")
	assert.NotContains(t, out, "\ng ")
}

func TestEncodeOBJ_SaveOptions(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n"

	tests := []struct {
		name     string
		opts     OBJSaveOptions
		wantFace string
		wantVT   bool
		wantVN   bool
	}{
		{"all", OBJSaveOptions{TexCoords: true, Normals: true}, "f 1/1/1 2/1/1 3/1/1\n", true, true},
		{"texcoords only", OBJSaveOptions{TexCoords: true}, "f 1/1 2/1 3/1\n", true, false},
		{"normals only", OBJSaveOptions{Normals: true}, "f 1//1 2//1 3//1\n", false, true},
		{"positions only", OBJSaveOptions{}, "f 1 2 3\n", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, decodeOBJ(t, src).Encode(&buf, tt.opts))
			out := buf.String()
			assert.Contains(t, out, tt.wantFace)
			assert.Equal(t, tt.wantVT, strings.Contains(out, "\nvt "))
			assert.Equal(t, tt.wantVN, strings.Contains(out, "\nvn "))
		})
	}
}

func TestEncodeOBJ_MarkersOnlyOnChange(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\ng a\nusemtl m\ns 1\nf 1 2 3\nf 1 2 3\ns 2\nf 1 2 3\n"
	var buf bytes.Buffer
	require.NoError(t, decodeOBJ(t, src).Encode(&buf, DefaultOBJSaveOptions()))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "g a\n"))
	assert.Equal(t, 1, strings.Count(out, "usemtl m\n"))
	assert.Equal(t, 1, strings.Count(out, "s 1\n"))
	assert.Equal(t, 1, strings.Count(out, "s 2\n"))
}

func TestLoadAndSaveOBJFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(in, []byte("o tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644))

	f, err := LoadOBJFile(in)
	require.NoError(t, err)

	out := filepath.Join(dir, "copy.obj")
	require.NoError(t, f.Save(out, DefaultOBJSaveOptions()))

	m, err := LoadOBJMesh(out)
	require.NoError(t, err)
	assert.Equal(t, "tri", m.Name)
	assert.Len(t, m.Faces, 1)
}

func TestLoadOBJ_Errors(t *testing.T) {
	_, err := LoadOBJFile("")
	assert.ErrorIs(t, err, ErrOBJEmptyPath)

	_, err = LoadOBJFile(filepath.Join(t.TempDir(), "missing.obj"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	empty := filepath.Join(t.TempDir(), "empty.obj")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0644))
	_, err = LoadOBJMesh(empty)
	assert.ErrorIs(t, err, ErrOBJNoMeshes)

	assert.ErrorIs(t, NewOBJFile().Save("", DefaultOBJSaveOptions()), ErrOBJEmptyPath)
}

func TestOBJFile_NameTables(t *testing.T) {
	f := NewOBJFile()
	assert.Equal(t, OBJDefaultGroup, f.GroupName(0))
	assert.Equal(t, OBJDefaultMaterial, f.MaterialName(0))
	assert.Equal(t, 1, f.GroupCount())
	assert.Equal(t, 1, f.MaterialCount())

	idx, err := f.AddGroup("legs")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	require.NoError(t, f.SetGroup(5, "arms"))
	assert.ErrorIs(t, f.SetGroup(5, "again"), ErrOBJIndexInUse)
	assert.ErrorIs(t, f.SetGroup(0, "sentinel"), ErrOBJIndexInUse)

	idx, err = f.AddGroup("head")
	require.NoError(t, err)
	assert.Equal(t, 6, idx, "auto index continues past explicit ones")

	_, err = f.AddGroup("")
	assert.ErrorIs(t, err, ErrOBJEmptyName)
	assert.Equal(t, OBJDefaultGroup, f.GroupName(42))

	mat, err := f.AddMaterial("steel")
	require.NoError(t, err)
	assert.Equal(t, "steel", f.MaterialName(mat))
	assert.ErrorIs(t, f.SetMaterial(mat, "copper"), ErrOBJIndexInUse)
	assert.ErrorIs(t, f.SetMaterial(9, ""), ErrOBJEmptyName)
	assert.Equal(t, OBJDefaultMaterial, f.MaterialName(42))
}

func TestOBJFile_MeshesAndLibraries(t *testing.T) {
	f := &OBJFile{}
	assert.Nil(t, f.Mesh(0))
	assert.Equal(t, 0, f.AddMesh("a"))
	assert.Equal(t, 1, f.AppendMesh(&OBJMesh{Name: "b"}))
	assert.Equal(t, "b", f.Mesh(1).Name)
	assert.Nil(t, f.Mesh(-1))

	idx, err := f.AddMaterialLibrary("lib.mtl")
	require.NoError(t, err)
	lib, err := f.MaterialLibrary(idx)
	require.NoError(t, err)
	assert.Equal(t, "lib.mtl", lib)

	_, err = f.MaterialLibrary(3)
	assert.ErrorIs(t, err, ErrOBJLibraryNotFound)
	_, err = f.AddMaterialLibrary("")
	assert.ErrorIs(t, err, ErrOBJEmptyName)

	// Zero-value documents get their sentinels lazily.
	_, err = f.AddGroup("g")
	require.NoError(t, err)
	assert.Equal(t, OBJDefaultGroup, f.Groups[0])
}

func TestOBJFile_String(t *testing.T) {
	f := decodeOBJ(t, "mtllib x.mtl\no tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	s := f.String()

	assert.Contains(t, s, "Mesh Count: 1")
	assert.Contains(t, s, "[0] DefaultGroup")
	assert.Contains(t, s, "Name: tri")
	assert.Contains(t, s, "f 1/1/1 2/1/1 3/1/1")
	assert.Contains(t, s, "x.mtl")
}

func TestOBJFaceType_String(t *testing.T) {
	tests := []struct {
		typ  OBJFaceType
		want string
	}{
		{OBJTriangle, "Triangle"},
		{OBJQuad, "Quad"},
		{OBJPolygon, "Polygon"},
		{OBJFaceType(7), "Unknown(7)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestEncodeOBJ_SmoothingOffSurvivesRoundTrip(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\ns 3\nf 1 2 3\ns off\nf 1 2 3\n"
	var buf bytes.Buffer
	require.NoError(t, decodeOBJ(t, src).Encode(&buf, DefaultOBJSaveOptions()))
	assert.Contains(t, buf.String(), "s off\n")

	faces := decodeOBJ(t, buf.String()).Mesh(0).Faces
	require.Len(t, faces, 2)
	assert.Equal(t, 3, faces[0].SmoothingGroup)
	assert.Equal(t, 0, faces[1].SmoothingGroup)
}
