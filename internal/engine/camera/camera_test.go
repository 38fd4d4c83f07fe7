package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/objview/pkg/math"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationX, c.RotationY = 0, 0
	c.Distance = 5
	c.Center = math.Vec3{X: 1}

	pos := c.Position()
	assert.True(t, pos.Equivalent(math.Vec3{X: 1, Z: 5}, 1e-5), "got %v", pos)
	assert.InDelta(t, 5, pos.Distance(c.Center), 1e-5)

	// The view matrix moves the center onto the -Z axis.
	view := c.ViewMatrix()
	center := view.TransformPoint(c.Center)
	assert.True(t, center.Equivalent(math.Vec3{Z: -5}, 1e-4), "got %v", center)
}

func TestOrbitCameraClamps(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 1e6)
	assert.Equal(t, c.MaxPitch, c.RotationX)
	c.HandleDrag(0, -1e6)
	assert.Equal(t, c.MinPitch, c.RotationX)

	c.HandleZoom(-1e9)
	assert.Equal(t, c.MaxDistance, c.Distance)
	c.HandleZoom(9.99)
	assert.GreaterOrEqual(t, c.Distance, c.MinDistance)
}

func TestOrbitCameraFitToSphere(t *testing.T) {
	c := NewOrbitCamera()
	center := math.Vec3{X: 2, Y: 3, Z: 4}
	c.FitToSphere(center, 10)

	assert.Equal(t, center, c.Center)
	assert.Greater(t, c.Distance, float32(10))

	c.FitToSphere(center, 0)
	assert.Greater(t, c.Distance, float32(0))
}
