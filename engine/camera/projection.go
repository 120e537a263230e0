package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// ProjectionType selects between perspective and orthographic projection.
type ProjectionType int

const (
	// ProjectionPerspective is a right-handed perspective projection.
	ProjectionPerspective ProjectionType = iota
	// ProjectionOrthographic is a right-handed orthographic projection.
	ProjectionOrthographic
)

// Projection describes how a camera maps view space to clip space.
// YFov is in degrees. A nil ZFar on a perspective projection means an
// infinite far plane; a nil AspectRatio means the surface aspect is used.
type Projection struct {
	Type ProjectionType

	AspectRatio *float32
	YFov        float32

	XMag float32
	YMag float32

	ZNear float32
	ZFar  *float32
}

// Perspective builds a perspective projection.
//
// Parameters:
//   - aspect: fixed aspect ratio, or nil to follow the surface
//   - yfov: vertical field of view in degrees
//   - znear: near plane distance
//   - zfar: far plane distance, or nil for an infinite far plane
//
// Returns:
//   - Projection: the perspective projection
func Perspective(aspect *float32, yfov, znear float32, zfar *float32) Projection {
	return Projection{Type: ProjectionPerspective, AspectRatio: aspect, YFov: yfov, ZNear: znear, ZFar: zfar}
}

// Orthographic builds an orthographic projection centred on the view axis.
//
// Parameters:
//   - xmag: full horizontal extent
//   - ymag: full vertical extent
//   - znear: near plane distance
//   - zfar: far plane distance
//
// Returns:
//   - Projection: the orthographic projection
func Orthographic(xmag, ymag, znear, zfar float32) Projection {
	return Projection{Type: ProjectionOrthographic, XMag: xmag, YMag: ymag, ZNear: znear, ZFar: &zfar}
}

// SetAspect pins the aspect ratio of a perspective projection. Orthographic
// projections derive their aspect from the magnification and ignore it.
func (p *Projection) SetAspect(aspect float32) {
	if p.Type == ProjectionPerspective {
		p.AspectRatio = &aspect
	}
}

// Aspect returns the aspect ratio the projection renders with, if it has one of its own.
//
// Returns:
//   - float32: the aspect ratio
//   - bool: false when the projection follows the surface aspect
func (p Projection) Aspect() (float32, bool) {
	switch p.Type {
	case ProjectionOrthographic:
		if p.YMag == 0 {
			return 0, false
		}
		return p.XMag / p.YMag, true
	default:
		if p.AspectRatio == nil {
			return 0, false
		}
		return *p.AspectRatio, true
	}
}

// Matrix returns the projection matrix with a [0, 1] depth range.
//
// Parameters:
//   - defaultAspect: aspect used when the projection has none of its own
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func (p Projection) Matrix(defaultAspect float32) mgl32.Mat4 {
	if p.Type == ProjectionOrthographic {
		var far float32
		if p.ZFar != nil {
			far = *p.ZFar
		}
		return common.OrthographicRH(-p.XMag/2, p.XMag/2, -p.YMag/2, p.YMag/2, p.ZNear, far)
	}

	aspect := defaultAspect
	if p.AspectRatio != nil {
		aspect = *p.AspectRatio
	}
	fov := mgl32.DegToRad(p.YFov)
	if p.ZFar != nil {
		return common.PerspectiveRH(fov, aspect, p.ZNear, *p.ZFar)
	}
	return common.PerspectiveInfiniteRH(fov, aspect, p.ZNear)
}
