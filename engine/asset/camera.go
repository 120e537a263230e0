package asset

// CameraAsset describes a camera attached to a node.
type CameraAsset struct {
	Label        string
	Perspective  *PerspectiveCameraAsset
	Orthographic *OrthographicCameraAsset
}

// PerspectiveCameraAsset holds a perspective projection. Angles are in radians as
// stored by the source format; a nil AspectRatio follows the viewport and a nil
// ZFar means an infinite far plane.
type PerspectiveCameraAsset struct {
	AspectRatio *float32
	YFov        float32
	ZNear       float32
	ZFar        *float32
}

// OrthographicCameraAsset holds an orthographic projection.
type OrthographicCameraAsset struct {
	XMag  float32
	YMag  float32
	ZNear float32
	ZFar  float32
}
