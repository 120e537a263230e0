package gpu

import "github.com/cogentcore/webgpu/wgpu"

// LayoutKind names one of the fixed bind group layouts shared by every pipeline.
type LayoutKind int

const (
	// LayoutGlobal is slot 0: camera uniform at binding 0, light uniform at binding 1.
	LayoutGlobal LayoutKind = iota
	// LayoutInstance is slot 1: instance transform uniform at binding 0.
	LayoutInstance
	// LayoutTexture is slot 2: texture at 0, sampler at 1, texture transform uniform at 2.
	LayoutTexture
	// LayoutJoint is slot 3: joint matrices storage buffer at binding 0.
	LayoutJoint
)

// String returns the layout name.
func (k LayoutKind) String() string {
	switch k {
	case LayoutGlobal:
		return "Global"
	case LayoutInstance:
		return "Instance"
	case LayoutTexture:
		return "Texture"
	case LayoutJoint:
		return "Joint"
	}
	return "Unknown"
}

// Slot returns the bind group index the layout is bound at.
func (k LayoutKind) Slot() uint32 {
	return uint32(k)
}

// Descriptor returns the wgpu layout descriptor for the kind.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout entries
func (k LayoutKind) Descriptor() wgpu.BindGroupLayoutDescriptor {
	visibility := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	uniform := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: visibility,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		}
	}

	switch k {
	case LayoutGlobal:
		return wgpu.BindGroupLayoutDescriptor{
			Label:   "Global Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{uniform(0), uniform(1)},
		}
	case LayoutInstance:
		return wgpu.BindGroupLayoutDescriptor{
			Label:   "Instance Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{uniform(0)},
		}
	case LayoutTexture:
		return wgpu.BindGroupLayoutDescriptor{
			Label: "Texture Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageFragment,
					Texture: wgpu.TextureBindingLayout{
						SampleType:    wgpu.TextureSampleTypeFloat,
						ViewDimension: wgpu.TextureViewDimension2D,
					},
				},
				{
					Binding:    1,
					Visibility: wgpu.ShaderStageFragment,
					Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
				},
				uniform(2),
			},
		}
	default:
		return wgpu.BindGroupLayoutDescriptor{
			Label: "Joint Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageVertex,
					Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage},
				},
			},
		}
	}
}
