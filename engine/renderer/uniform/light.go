package uniform

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
)

// LightUniform holds the frame's lights and the global light parameter.
type LightUniform struct {
	value  GPULightUniform
	buffer gpu.Buffer
}

// NewLightUniform creates an empty light uniform and its device buffer.
//
// Parameters:
//   - device: the device to allocate on
//   - param: the initial global light parameter
//
// Returns:
//   - *LightUniform: the uniform
//   - error: an error if the buffer could not be created
func NewLightUniform(device gpu.Device, param light.GlobalParam) (*LightUniform, error) {
	u := &LightUniform{}
	u.value.Param = param
	buf, err := device.CreateBuffer("Light Uniform Buffer", gpu.BufferUniform, u.value.Marshal())
	if err != nil {
		return nil, err
	}
	u.buffer = buf
	return u, nil
}

// Set replaces the light lists. Lights beyond the per-kind maximum are
// dropped and a warning reports how many.
//
// Parameters:
//   - lights: the frame's lights in traversal order
func (u *LightUniform) Set(lights []light.Data) {
	var point, directional, parallel int
	var dropped [3]int
	for _, l := range lights {
		switch l.Type {
		case light.LightTypePoint:
			if point >= MaxPointLights {
				dropped[0]++
				continue
			}
			u.value.Point[point] = GPUPointLight{
				Position:  l.Position,
				Color:     l.Color,
				Constant:  l.Constant,
				Linear:    l.Linear,
				Quadratic: l.Quadratic,
			}
			point++
		case light.LightTypeDirectional:
			if directional >= MaxDirectionalLights {
				dropped[1]++
				continue
			}
			u.value.Directional[directional] = GPUDirectionalLight{
				Position:   l.Position,
				Constant:   l.Constant,
				Direction:  l.Direction,
				Linear:     l.Linear,
				Color:      l.Color,
				Quadratic:  l.Quadratic,
				RangeInner: l.RangeInner,
				RangeOuter: l.RangeOuter,
			}
			directional++
		case light.LightTypeParallel:
			if parallel >= MaxParallelLights {
				dropped[2]++
				continue
			}
			u.value.Parallel[parallel] = GPUParallelLight{
				Direction: l.Direction,
				Color:     l.Color,
				Strength:  l.Strength,
			}
			parallel++
		}
	}
	u.value.PointLength = uint32(point)
	u.value.DirectionalLength = uint32(directional)
	u.value.ParallelLength = uint32(parallel)

	if dropped != [3]int{} {
		common.Logger().Warn("light limit exceeded, extra lights dropped",
			"point", dropped[0], "directional", dropped[1], "parallel", dropped[2])
	}
}

// SetParam replaces the global light parameter.
func (u *LightUniform) SetParam(param light.GlobalParam) {
	u.value.Param = param
}

// Param returns the global light parameter.
func (u *LightUniform) Param() light.GlobalParam {
	return u.value.Param
}

// Counts returns the number of point, directional and parallel lights in use.
func (u *LightUniform) Counts() (point, directional, parallel int) {
	return int(u.value.PointLength), int(u.value.DirectionalLength), int(u.value.ParallelLength)
}

// Update writes the host value to the device buffer.
func (u *LightUniform) Update(device gpu.Device) {
	device.WriteBuffer(u.buffer, 0, u.value.Marshal())
}

// Buffer returns the device buffer.
func (u *LightUniform) Buffer() gpu.Buffer {
	return u.buffer
}
