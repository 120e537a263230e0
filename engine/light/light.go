package light

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypePoint emits in all directions from the node position and
	// attenuates with constant, linear and quadratic terms.
	LightTypePoint LightType = iota

	// LightTypeDirectional is a positioned cone light. It attenuates like a
	// point light and fades between the inner and outer range along its
	// direction.
	LightTypeDirectional

	// LightTypeParallel has no position. It lights every fragment from one
	// direction with a fixed strength, like the sun.
	LightTypeParallel
)

// String returns the light type name.
func (t LightType) String() string {
	switch t {
	case LightTypePoint:
		return "Point"
	case LightTypeDirectional:
		return "Directional"
	case LightTypeParallel:
		return "Parallel"
	}
	return "Unknown"
}

// Param is the scene-independent description of a light held by a light node.
// Fields that do not apply to the light Type are ignored.
type Param struct {
	Type      LightType
	Color     mgl32.Vec3
	Direction mgl32.Vec3

	Constant  float32
	Linear    float32
	Quadratic float32

	RangeInner float32
	RangeOuter float32

	Strength float32
}

// Data is one light resolved into world space for the current frame.
type Data struct {
	Type      LightType
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Direction mgl32.Vec3

	Constant  float32
	Linear    float32
	Quadratic float32

	RangeInner float32
	RangeOuter float32

	Strength float32
}

// Resolve places the light in world space using the accumulated node transform.
// Point and directional lights take the transform translation as their position.
// Directional lights also rotate their direction with the transform; parallel
// lights keep the configured direction.
//
// Parameters:
//   - world: the world transform of the owning light node
//
// Returns:
//   - Data: the per-frame light data
func (p Param) Resolve(world mgl32.Mat4) Data {
	translation, rotation, _ := common.DecomposeTRS(world)
	d := Data{
		Type:       p.Type,
		Color:      p.Color,
		Direction:  p.Direction,
		Constant:   p.Constant,
		Linear:     p.Linear,
		Quadratic:  p.Quadratic,
		RangeInner: p.RangeInner,
		RangeOuter: p.RangeOuter,
		Strength:   p.Strength,
	}
	switch p.Type {
	case LightTypePoint:
		d.Position = translation
	case LightTypeDirectional:
		d.Position = translation
		if p.Direction.Len() > 0 {
			d.Direction = rotation.Rotate(p.Direction).Normalize()
		}
	}
	return d
}

// GlobalParam holds the toon-style shading thresholds shared by every light.
type GlobalParam struct {
	StartStrength       float32 `toml:"start_strength" yaml:"start_strength"`
	StopStrength        float32 `toml:"stop_strength" yaml:"stop_strength"`
	MaxStrength         float32 `toml:"max_strength" yaml:"max_strength"`
	BorderStartStrength float32 `toml:"border_start_strength" yaml:"border_start_strength"`
	BorderStopStrength  float32 `toml:"border_stop_strength" yaml:"border_stop_strength"`
	BorderMaxStrength   float32 `toml:"border_max_strength" yaml:"border_max_strength"`
	AmbientStrength     float32 `toml:"ambient_strength" yaml:"ambient_strength"`
}

// DefaultGlobalParam returns the stock shading thresholds.
//
// Returns:
//   - GlobalParam: start 0.30, stop 1.00, max 0.80, border 0.40/0.80/0.20, ambient 0.60
func DefaultGlobalParam() GlobalParam {
	return GlobalParam{
		StartStrength:       0.30,
		StopStrength:        1.00,
		MaxStrength:         0.80,
		BorderStartStrength: 0.40,
		BorderStopStrength:  0.80,
		BorderMaxStrength:   0.20,
		AmbientStrength:     0.60,
	}
}
