// Package lighting provides light direction helpers for mesh shading.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/math"
)

// SunDirection converts a longitude (rotation around Y, degrees) and a
// latitude (elevation above the horizon, degrees) to a unit vector
// pointing towards the light.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180

	return math.Vec3{
		X: math32.Cos(lat) * math32.Sin(lon),
		Y: math32.Sin(lat),
		Z: math32.Cos(lat) * math32.Cos(lon),
	}
}
