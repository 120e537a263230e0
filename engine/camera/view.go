package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// View is a free-look camera placement. Yaw and Pitch are in degrees; a yaw
// of 0 looks down +X and a yaw of -90 looks down -Z.
type View struct {
	Eye   mgl32.Vec3
	Yaw   float32
	Pitch float32
}

func frontFromYawPitch(yaw, pitch float32) mgl32.Vec3 {
	yaw = mgl32.DegToRad(yaw)
	pitch = mgl32.DegToRad(pitch)
	return mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
}

// Front returns the unit look direction.
func (v View) Front() mgl32.Vec3 {
	return frontFromYawPitch(v.Yaw, v.Pitch)
}

// FrontIgnorePitch returns the horizontal look direction rotated by yawOffset degrees.
//
// Parameters:
//   - yawOffset: extra yaw in degrees (-90 gives the left vector)
//
// Returns:
//   - mgl32.Vec3: a unit vector in the XZ plane
func (v View) FrontIgnorePitch(yawOffset float32) mgl32.Vec3 {
	return frontFromYawPitch(v.Yaw+yawOffset, 0)
}

// Matrix returns the right-handed look-at matrix for the view with +Y up.
func (v View) Matrix() mgl32.Mat4 {
	return mgl32.LookAtV(v.Eye, v.Eye.Add(v.Front()), mgl32.Vec3{0, 1, 0})
}

// Data is a complete camera: where it is and how it projects.
type Data struct {
	View       View
	Projection Projection
}

// DefaultData returns the free camera placement: eye (1, 1, 1), yaw 0,
// pitch 0, 75 degree vertical fov, near 0.01 and an infinite far plane.
func DefaultData() Data {
	return Data{
		View:       View{Eye: mgl32.Vec3{1, 1, 1}},
		Projection: Perspective(nil, 75.0, 0.01, nil),
	}
}

// Matrix returns projection * view.
//
// Parameters:
//   - defaultAspect: aspect used when the projection has none of its own
//
// Returns:
//   - mgl32.Mat4: the combined view-projection matrix
func (d Data) Matrix(defaultAspect float32) mgl32.Mat4 {
	return d.Projection.Matrix(defaultAspect).Mul4(d.View.Matrix())
}
