package renderer

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	nearPlane = 0.1
	farPlane  = 100.0
)

// projection builds a perspective matrix for a surface of width x height pixels.
// A degenerate size falls back to a square aspect.
func projection(fovDegrees float32, width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(fovDegrees), aspect, nearPlane, farPlane)
}

func viewMatrix(distance float32) mgl32.Mat4 {
	return mgl32.LookAtV(
		mgl32.Vec3{distance, distance, distance},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0},
	)
}

// spin rotates around the vertical axis at degPerSecond.
func spin(degPerSecond float32, elapsed time.Duration) mgl32.Mat4 {
	angle := mgl32.DegToRad(degPerSecond * float32(elapsed.Seconds()))
	return mgl32.HomogRotate3D(angle, mgl32.Vec3{0, 1, 0})
}
