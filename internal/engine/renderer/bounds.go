package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/model"
)

// boundsPadding is the gap between the mesh and its bounding box, as a
// fraction of the bounding radius.
const boundsPadding = 0.01

// boundsOverlay draws a mesh's bounding box as lines.
type boundsOverlay struct {
	vao uint32
	vbo uint32
}

func newBoundsOverlay() *boundsOverlay {
	o := &boundsOverlay{}
	gl.GenVertexArrays(1, &o.vao)
	gl.GenBuffers(1, &o.vbo)

	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, debug.BBoxWireframeVertexCount*3*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
	return o
}

func (o *boundsOverlay) update(b model.Bounds) {
	verts := debug.BoundsWireframe(b.Min, b.Max, b.Radius()*boundsPadding)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (o *boundsOverlay) draw() {
	gl.BindVertexArray(o.vao)
	gl.DrawArrays(gl.LINES, 0, debug.BBoxWireframeVertexCount)
	gl.BindVertexArray(0)
}

func (o *boundsOverlay) delete() {
	gl.DeleteBuffers(1, &o.vbo)
	gl.DeleteVertexArrays(1, &o.vao)
}
