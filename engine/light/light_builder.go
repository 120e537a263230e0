package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Param during construction.
type LightBuilderOption func(*Param)

// NewPoint creates a point light parameter. Defaults are white with
// attenuation (1, 0.09, 0.032).
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Param: the configured light parameter
func NewPoint(options ...LightBuilderOption) Param {
	p := Param{
		Type:      LightTypePoint,
		Color:     mgl32.Vec3{1, 1, 1},
		Constant:  1.0,
		Linear:    0.09,
		Quadratic: 0.032,
	}
	for _, option := range options {
		option(&p)
	}
	return p
}

// NewDirectional creates a directional (cone) light parameter pointing down -Y.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Param: the configured light parameter
func NewDirectional(options ...LightBuilderOption) Param {
	p := Param{
		Type:       LightTypeDirectional,
		Color:      mgl32.Vec3{1, 1, 1},
		Direction:  mgl32.Vec3{0, -1, 0},
		Constant:   1.0,
		Linear:     0.09,
		Quadratic:  0.032,
		RangeInner: 0.9,
		RangeOuter: 0.8,
	}
	for _, option := range options {
		option(&p)
	}
	return p
}

// NewParallel creates a parallel light parameter pointing down -Y.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Param: the configured light parameter
func NewParallel(options ...LightBuilderOption) Param {
	p := Param{
		Type:      LightTypeParallel,
		Color:     mgl32.Vec3{1, 1, 1},
		Direction: mgl32.Vec3{0, -1, 0},
		Strength:  1.0,
	}
	for _, option := range options {
		option(&p)
	}
	return p
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r, g, b: color components
//
// Returns:
//   - LightBuilderOption: a function that applies the color option
func WithColor(r, g, b float32) LightBuilderOption {
	return func(p *Param) {
		p.Color = mgl32.Vec3{r, g, b}
	}
}

// WithDirection is an option builder that sets the light direction.
// The direction is normalized before storing; a zero vector is kept as is.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(p *Param) {
		d := mgl32.Vec3{x, y, z}
		if d.Len() > 0 {
			d = d.Normalize()
		}
		p.Direction = d
	}
}

// WithAttenuation is an option builder that sets the distance attenuation terms.
//
// Parameters:
//   - constant: constant term
//   - linear: linear term
//   - quadratic: quadratic term
//
// Returns:
//   - LightBuilderOption: a function that applies the attenuation option
func WithAttenuation(constant, linear, quadratic float32) LightBuilderOption {
	return func(p *Param) {
		p.Constant = constant
		p.Linear = linear
		p.Quadratic = quadratic
	}
}

// WithRange is an option builder that sets the cosine range of a directional light cone.
//
// Parameters:
//   - inner: cosine where the falloff starts
//   - outer: cosine where the light reaches zero
//
// Returns:
//   - LightBuilderOption: a function that applies the range option
func WithRange(inner, outer float32) LightBuilderOption {
	return func(p *Param) {
		p.RangeInner = inner
		p.RangeOuter = outer
	}
}

// WithStrength is an option builder that sets the strength of a parallel light.
func WithStrength(strength float32) LightBuilderOption {
	return func(p *Param) {
		p.Strength = strength
	}
}
