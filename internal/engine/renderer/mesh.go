package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/objview/internal/engine/model"
)

// Attribute locations shared by every program that reads model.Vertex.
const (
	attribPosition = 0
	attribNormal   = 1
	attribTangent  = 2
	attribTexCoord = 3
	attribColor    = 4
)

// GPUMesh is a model.Mesh uploaded to vertex and element buffers.
type GPUMesh struct {
	vao         uint32
	vbo         uint32
	ebo         uint32
	indexCount  int32
	vertexCount int32
}

// uploadMesh copies the vertex and face arrays verbatim; model.Vertex and
// model.Face are laid out for the attribute pointers below.
func uploadMesh(mesh *model.Mesh) *GPUMesh {
	g := &GPUMesh{
		indexCount:  int32(mesh.IndexCount()),
		vertexCount: int32(len(mesh.Vertices)),
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	stride := int32(vertexSize)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, stride, model.PositionOffset)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, stride, model.NormalOffset)
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointerWithOffset(attribTangent, 4, gl.FLOAT, false, stride, model.TangentOffset)
	gl.EnableVertexAttribArray(attribTangent)
	gl.VertexAttribPointerWithOffset(attribTexCoord, 3, gl.FLOAT, false, stride, model.TexCoordOffset)
	gl.EnableVertexAttribArray(attribTexCoord)
	gl.VertexAttribPointerWithOffset(attribColor, 3, gl.FLOAT, false, stride, model.ColorOffset)
	gl.EnableVertexAttribArray(attribColor)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	faceSize := int(unsafe.Sizeof(model.Face{}))
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Faces)*faceSize, unsafe.Pointer(&mesh.Faces[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return g
}

func (g *GPUMesh) drawTriangles() {
	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (g *GPUMesh) drawPoints() {
	gl.BindVertexArray(g.vao)
	gl.DrawArrays(gl.POINTS, 0, g.vertexCount)
	gl.BindVertexArray(0)
}

func (g *GPUMesh) delete() {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
}
