package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
)

const (
	objIndexOffset  = 1  // OBJ indices are 1-based
	objInvalidIndex = -1 // missing texture/normal component
	objMaxLineBytes = 1 << 20
)

// objParseState is the context threaded through every line handler.
type objParseState struct {
	log  *zap.Logger
	line int
	text string

	group     int
	smoothing int
	material  int

	// OBJ indices are file-global; faces store them relative to the
	// current mesh's pools, so the pool sizes of earlier meshes are
	// subtracted on read.
	vertexBase int
	texBase    int
	normalBase int
}

func (st *objParseState) warn(msg string, fields ...zap.Field) {
	st.log.Warn(msg, append(fields, zap.Int("line", st.line), zap.String("text", st.text))...)
}

// objHandler parses the arguments of one directive. A returned error aborts the parse.
type objHandler func(f *OBJFile, st *objParseState, args []string) error

var objHandlers = map[string]objHandler{
	"v":      parseOBJVertex,
	"vt":     parseOBJTexCoord,
	"vn":     parseOBJNormal,
	"f":      parseOBJFace,
	"s":      parseOBJSmoothingGroup,
	"g":      parseOBJGroup,
	"o":      parseOBJObject,
	"mtllib": parseOBJMaterialLibrary,
	"usemtl": parseOBJUseMaterial,
}

// LoadOBJFile reads and parses an OBJ file into a new document.
func LoadOBJFile(path string) (*OBJFile, error) {
	f := NewOBJFile()
	if err := f.Load(path); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadOBJMesh reads an OBJ file and returns its first mesh.
func LoadOBJMesh(path string) (*OBJMesh, error) {
	f, err := LoadOBJFile(path)
	if err != nil {
		return nil, err
	}
	if f.MeshCount() == 0 {
		logger.Named("obj").Error("OBJ file contains no meshes", zap.String("path", path))
		return nil, fmt.Errorf("%s: %w", path, ErrOBJNoMeshes)
	}
	return f.Mesh(0), nil
}

// Load parses the OBJ file at path into f.
func (f *OBJFile) Load(path string) error {
	log := logger.Named("obj")
	if path == "" {
		log.Error("cannot load OBJ file with empty path")
		return ErrOBJEmptyPath
	}

	file, err := os.Open(path)
	if err != nil {
		log.Error("OBJ file could not be opened", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("opening OBJ file %s: %w", path, err)
	}
	defer file.Close()

	if err := f.Decode(file); err != nil {
		return fmt.Errorf("parsing OBJ file %s: %w", path, err)
	}

	log.Debug("loaded OBJ file",
		zap.String("path", path),
		zap.Int("meshes", f.MeshCount()),
		zap.Int("groups", f.GroupCount()),
		zap.Int("materials", f.MaterialCount()),
	)
	return nil
}

// Decode parses OBJ text from r, appending to f. Parsing stops at the first
// fatal line; malformed records that can be skipped are logged and skipped.
func (f *OBJFile) Decode(r io.Reader) error {
	f.ensureSentinels()

	st := &objParseState{log: logger.Named("obj")}
	if n := len(f.Meshes); n > 0 {
		st.vertexBase, st.texBase, st.normalBase = poolTotals(f.Meshes[:n-1])
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), objMaxLineBytes)
	for scanner.Scan() {
		st.line++
		st.text = scanner.Text()
		if err := f.parseLine(st, st.text); err != nil {
			st.log.Error("failed to parse OBJ line, aborting",
				zap.Int("line", st.line),
				zap.String("text", st.text),
				zap.Error(err),
			)
			return fmt.Errorf("line %d: %w", st.line, err)
		}
	}
	return scanner.Err()
}

func (f *OBJFile) parseLine(st *objParseState, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if strings.HasPrefix(fields[0], "#") {
		return nil
	}

	handler, ok := objHandlers[fields[0]]
	if !ok {
		st.warn("unrecognized OBJ directive, ignoring", zap.String("directive", fields[0]))
		return nil
	}
	return handler(f, st, fields[1:])
}

// currentMesh returns the mesh that receives geometry, creating one if needed.
func (f *OBJFile) currentMesh(st *objParseState) *OBJMesh {
	if len(f.Meshes) == 0 {
		st.startMesh(f, "")
	}
	return f.Meshes[len(f.Meshes)-1]
}

func (st *objParseState) startMesh(f *OBJFile, name string) {
	st.vertexBase, st.texBase, st.normalBase = poolTotals(f.Meshes)
	f.AddMesh(name)
}

func poolTotals(meshes []*OBJMesh) (vertices, texCoords, normals int) {
	for _, m := range meshes {
		vertices += len(m.Vertices)
		texCoords += len(m.TexCoords)
		normals += len(m.Normals)
	}
	return vertices, texCoords, normals
}

func parseOBJVertex(f *OBJFile, st *objParseState, args []string) error {
	m := f.currentMesh(st)
	m.Vertices = append(m.Vertices, parseOBJVec3(st, args))
	return nil
}

func parseOBJTexCoord(f *OBJFile, st *objParseState, args []string) error {
	m := f.currentMesh(st)
	m.TexCoords = append(m.TexCoords, parseOBJVec3(st, args))
	return nil
}

func parseOBJNormal(f *OBJFile, st *objParseState, args []string) error {
	m := f.currentMesh(st)
	m.Normals = append(m.Normals, parseOBJVec3(st, args))
	return nil
}

// parseOBJVec3 reads up to three components; missing or malformed ones are zero.
func parseOBJVec3(st *objParseState, args []string) math.Vec3 {
	var c [3]float32
	for i := 0; i < len(args) && i < 3; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			st.warn("malformed OBJ vector component, using 0", zap.String("value", args[i]))
			continue
		}
		c[i] = float32(v)
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}
}

func parseOBJFace(f *OBJFile, st *objParseState, args []string) error {
	face := OBJFace{
		VertexIndices:  make([]int, 0, len(args)),
		TextureIndices: make([]int, 0, len(args)),
		NormalIndices:  make([]int, 0, len(args)),
	}
	validVertices := true

	for _, tok := range args {
		v, t, n, err := parseOBJNode(tok)
		if err != nil {
			return err
		}

		v = localIndex(v, st.vertexBase)
		if v < 0 {
			validVertices = false
		}
		face.VertexIndices = append(face.VertexIndices, max(v, 0))
		face.TextureIndices = append(face.TextureIndices, max(localIndex(t, st.texBase), 0))
		face.NormalIndices = append(face.NormalIndices, max(localIndex(n, st.normalBase), 0))
	}

	if face.Len() <= 2 {
		st.warn("OBJ face needs at least 3 nodes, ignoring face", zap.Int("nodes", face.Len()))
		return nil
	}
	if !validVertices {
		st.warn("OBJ face has an invalid vertex index, ignoring face")
		return nil
	}

	face.Type = objFaceTypeFor(face.Len())
	face.Group = st.group
	face.SmoothingGroup = st.smoothing
	face.Material = st.material

	m := f.currentMesh(st)
	m.Faces = append(m.Faces, face)
	return nil
}

func localIndex(index, base int) int {
	if index < 0 {
		return objInvalidIndex
	}
	return index - base
}

// parseOBJNode splits a face node (v, v/t, v/t/n or v//n) into 0-based
// indices. Missing or unparseable components come back negative.
func parseOBJNode(tok string) (vertex, texture, normal int, err error) {
	parts := strings.Split(tok, "/")
	texture, normal = objInvalidIndex, objInvalidIndex

	switch len(parts) {
	case 1:
		vertex = objAtoi(parts[0]) - objIndexOffset
	case 2:
		vertex = objAtoi(parts[0]) - objIndexOffset
		texture = objAtoi(parts[1]) - objIndexOffset
	case 3:
		vertex = objAtoi(parts[0]) - objIndexOffset
		if parts[1] != "" {
			texture = objAtoi(parts[1]) - objIndexOffset
		}
		if parts[2] != "" {
			normal = objAtoi(parts[2]) - objIndexOffset
		}
	default:
		return 0, 0, 0, fmt.Errorf("%w %q: %d separators", ErrOBJInvalidNode, tok, len(parts)-1)
	}
	return vertex, texture, normal, nil
}

// objAtoi returns 0 for anything that is not an integer, which turns into
// an invalid index once the 1-based offset is removed.
func objAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseOBJSmoothingGroup(_ *OBJFile, st *objParseState, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if args[0] == "off" {
		st.smoothing = 0
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		st.warn("malformed OBJ smoothing group, ignoring", zap.String("value", args[0]))
		return nil
	}
	st.smoothing = n
	return nil
}

func parseOBJGroup(f *OBJFile, st *objParseState, args []string) error {
	m := f.currentMesh(st)
	if len(args) == 0 {
		return nil
	}

	idx, err := f.AddGroup(args[0])
	if err != nil {
		st.warn("cannot register OBJ group", zap.Error(err))
		return nil
	}
	st.group = idx
	m.Name = args[0]
	return nil
}

func parseOBJObject(f *OBJFile, st *objParseState, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	st.startMesh(f, name)
	st.smoothing = 0
	return nil
}

func parseOBJMaterialLibrary(f *OBJFile, st *objParseState, args []string) error {
	if len(args) == 0 {
		st.warn("OBJ mtllib without a library name, ignoring")
		return nil
	}
	for _, lib := range args {
		if _, err := f.AddMaterialLibrary(lib); err != nil {
			st.warn("cannot register OBJ material library", zap.Error(err))
		}
	}
	return nil
}

func parseOBJUseMaterial(f *OBJFile, st *objParseState, args []string) error {
	if len(args) == 0 {
		st.warn("OBJ usemtl without a material name, ignoring")
		return nil
	}
	idx, err := f.AddMaterial(args[0])
	if err != nil {
		st.warn("cannot register OBJ material", zap.Error(err))
		return nil
	}
	st.material = idx
	return nil
}
