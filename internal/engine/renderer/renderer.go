// Package renderer draws model meshes with OpenGL.
package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/engine/shader"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
)

// ErrEmptyMesh is returned when a mesh without faces is uploaded.
var ErrEmptyMesh = errors.New("mesh has no vertices or faces")

// Config holds renderer configuration.
type Config struct {
	Width        int
	Height       int
	ShowTangents bool
	ShowBounds   bool
	LightDir     math.Vec3 // direction light travels; zero picks a default
}

// Frame holds the per-frame camera state.
type Frame struct {
	View      math.Mat4
	Proj      math.Mat4
	CameraPos math.Vec3
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram  uint32
	locModel     int32
	locViewProj  int32
	locLightDir  int32
	locCameraPos int32
	locBaseColor int32

	frameProgram    uint32
	locFrameModel   int32
	locFrameVP      int32
	locFrameLength  int32
	frameLineLength float32

	boundsProgram  uint32
	locBoundsModel int32
	locBoundsVP    int32
	locBoundsColor int32
	bounds         *boundsOverlay

	mesh      *GPUMesh
	modelMat  math.Mat4
	lightDir  math.Vec3
	baseColor math.Vec3
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:    cfg,
		log:       logger.Named("renderer"),
		modelMat:  math.Identity(),
		lightDir:  cfg.LightDir.Normalize(),
		baseColor: math.Vec3{X: 0.7, Y: 0.7, Z: 0.72},
	}
	if cfg.LightDir.Length() == 0 {
		r.lightDir = math.Vec3{X: -0.4, Y: -1, Z: -0.6}.Normalize()
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.meshProgram, err = shader.CompileProgram(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	r.locModel = shader.GetUniform(r.meshProgram, "uModel")
	r.locViewProj = shader.GetUniform(r.meshProgram, "uViewProj")
	r.locLightDir = shader.GetUniform(r.meshProgram, "uLightDir")
	r.locCameraPos = shader.GetUniform(r.meshProgram, "uCameraPos")
	r.locBaseColor = shader.GetUniform(r.meshProgram, "uBaseColor")

	r.frameProgram, err = shader.CompileGeometryProgram(frameVertexShader, frameGeometryShader, frameFragmentShader)
	if err != nil {
		gl.DeleteProgram(r.meshProgram)
		return nil, fmt.Errorf("tangent frame program: %w", err)
	}
	r.locFrameModel = shader.MustGetUniform(r.frameProgram, "uModel")
	r.locFrameVP = shader.MustGetUniform(r.frameProgram, "uViewProj")
	r.locFrameLength = shader.MustGetUniform(r.frameProgram, "uLength")

	r.boundsProgram, err = shader.CompileProgram(boundsVertexShader, boundsFragmentShader)
	if err != nil {
		gl.DeleteProgram(r.meshProgram)
		gl.DeleteProgram(r.frameProgram)
		return nil, fmt.Errorf("bounds program: %w", err)
	}
	r.locBoundsModel = shader.MustGetUniform(r.boundsProgram, "uModel")
	r.locBoundsVP = shader.MustGetUniform(r.boundsProgram, "uViewProj")
	r.locBoundsColor = shader.MustGetUniform(r.boundsProgram, "uColor")
	r.bounds = newBoundsOverlay()

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// SetMesh uploads mesh and replaces the current one.
func (r *Renderer) SetMesh(mesh *model.Mesh) error {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Faces) == 0 {
		return ErrEmptyMesh
	}

	gpu := uploadMesh(mesh)
	if r.mesh != nil {
		r.mesh.delete()
	}
	r.mesh = gpu
	r.bounds.update(mesh.Bounds)

	// Frame lines scale with the model so they stay readable.
	r.frameLineLength = mesh.Bounds.Radius() * 0.05
	if r.frameLineLength <= 0 {
		r.frameLineLength = 0.05
	}

	r.log.Info("mesh uploaded",
		zap.String("name", mesh.Name),
		zap.Int32("vertices", gpu.vertexCount),
		zap.Int32("indices", gpu.indexCount),
	)
	return nil
}

// ShowTangents reports whether the tangent frame pass is enabled.
func (r *Renderer) ShowTangents() bool {
	return r.config.ShowTangents
}

// ToggleTangents switches the tangent frame pass on or off.
func (r *Renderer) ToggleTangents() {
	r.config.ShowTangents = !r.config.ShowTangents
	r.log.Debug("tangent frames toggled", zap.Bool("enabled", r.config.ShowTangents))
}

// SetModelMatrix sets the transform applied to the mesh and its overlays.
func (r *Renderer) SetModelMatrix(m math.Mat4) {
	r.modelMat = m
}

// ToggleBounds switches the bounding box overlay on or off.
func (r *Renderer) ToggleBounds() {
	r.config.ShowBounds = !r.config.ShowBounds
	r.log.Debug("bounds overlay toggled", zap.Bool("enabled", r.config.ShowBounds))
}

// ReadPixels returns the current framebuffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.mesh != nil {
		r.mesh.delete()
		r.mesh = nil
	}
	if r.meshProgram != 0 {
		gl.DeleteProgram(r.meshProgram)
	}
	if r.frameProgram != 0 {
		gl.DeleteProgram(r.frameProgram)
	}
	if r.bounds != nil {
		r.bounds.delete()
		r.bounds = nil
	}
	if r.boundsProgram != 0 {
		gl.DeleteProgram(r.boundsProgram)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Draw clears the frame and draws the current mesh.
func (r *Renderer) Draw(f Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.mesh == nil {
		return
	}

	viewProj := f.Proj.Mul(f.View)

	gl.UseProgram(r.meshProgram)
	gl.UniformMatrix4fv(r.locModel, 1, false, r.modelMat.Ptr())
	gl.UniformMatrix4fv(r.locViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.locLightDir, r.lightDir.X, r.lightDir.Y, r.lightDir.Z)
	gl.Uniform3f(r.locCameraPos, f.CameraPos.X, f.CameraPos.Y, f.CameraPos.Z)
	gl.Uniform3f(r.locBaseColor, r.baseColor.X, r.baseColor.Y, r.baseColor.Z)
	r.mesh.drawTriangles()

	if r.config.ShowTangents {
		gl.UseProgram(r.frameProgram)
		gl.UniformMatrix4fv(r.locFrameModel, 1, false, r.modelMat.Ptr())
		gl.UniformMatrix4fv(r.locFrameVP, 1, false, viewProj.Ptr())
		gl.Uniform1f(r.locFrameLength, r.frameLineLength)
		r.mesh.drawPoints()
	}

	if r.config.ShowBounds {
		gl.UseProgram(r.boundsProgram)
		gl.UniformMatrix4fv(r.locBoundsModel, 1, false, r.modelMat.Ptr())
		gl.UniformMatrix4fv(r.locBoundsVP, 1, false, viewProj.Ptr())
		gl.Uniform3f(r.locBoundsColor, 1.0, 0.85, 0.2)
		r.bounds.draw()
	}
	gl.UseProgram(0)
}
