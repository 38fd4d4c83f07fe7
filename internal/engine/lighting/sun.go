// Package lighting provides the directional light used to shade meshes.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/objview/pkg/math"
)

// SunDirection converts azimuth (degrees around +Y, 0 faces +Z) and
// elevation (degrees above the horizon) to a unit vector pointing towards
// the light.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := azimuth * math32.Pi / 180
	el := elevation * math32.Pi / 180

	sinAz, cosAz := math32.Sincos(az)
	sinEl, cosEl := math32.Sincos(el)
	return math.Vec3{
		X: cosEl * sinAz,
		Y: sinEl,
		Z: cosEl * cosAz,
	}
}

// LightDirection is the direction the light travels, away from the sun.
func LightDirection(azimuth, elevation float32) math.Vec3 {
	return SunDirection(azimuth, elevation).Scale(-1)
}
