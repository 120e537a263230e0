package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uniform"
)

func TestViewer_VertexLayouts(t *testing.T) {
	p := Viewer()

	cases := map[string]struct {
		stride uint64
		attrs  int
	}{
		VertexColor:       {40, 3},
		VertexTexture:     {32, 3},
		VertexColorSkin:   {72, 5},
		VertexTextureSkin: {64, 5},
	}
	for name, want := range cases {
		layout, ok := p.VertexLayout(name)
		require.True(t, ok, name)
		assert.Equal(t, want.stride, layout.ArrayStride, name)
		assert.Len(t, layout.Attributes, want.attrs, name)
		assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode, name)
	}

	_, ok := p.VertexLayout("VertexOutput")
	assert.False(t, ok)

	skin, _ := p.VertexLayout(VertexColorSkin)
	assert.Equal(t, wgpu.VertexFormatUint32x4, skin.Attributes[3].Format)
	assert.Equal(t, uint64(40), skin.Attributes[3].Offset)
}

func TestViewer_BindGroupsMatchLayouts(t *testing.T) {
	p := Viewer()

	for _, kind := range []gpu.LayoutKind{gpu.LayoutGlobal, gpu.LayoutInstance, gpu.LayoutTexture, gpu.LayoutJoint} {
		want := kind.Descriptor()
		got := p.BindGroupLayoutDescriptor(int(kind))
		require.Len(t, got.Entries, len(want.Entries), kind.String())
		for i := range want.Entries {
			assert.Equal(t, want.Entries[i].Binding, got.Entries[i].Binding, kind.String())
			assert.Equal(t, want.Entries[i].Buffer.Type, got.Entries[i].Buffer.Type, kind.String())
			assert.Equal(t, want.Entries[i].Sampler.Type, got.Entries[i].Sampler.Type, kind.String())
			assert.Equal(t, want.Entries[i].Texture.SampleType, got.Entries[i].Texture.SampleType, kind.String())
		}
	}
}

func TestViewer_BindingSizesMatchUniforms(t *testing.T) {
	p := Viewer()

	var cam uniform.GPUCameraUniform
	var lights uniform.GPULightUniform
	var tr uniform.GPUTransform
	var tex uniform.GPUTextureTransformUniform

	assert.Equal(t, uint64(cam.Size()), p.BindGroupLayoutDescriptor(0).Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(lights.Size()), p.BindGroupLayoutDescriptor(0).Entries[1].Buffer.MinBindingSize)
	assert.Equal(t, uint64(tr.Size()), p.BindGroupLayoutDescriptor(1).Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(tex.Size()), p.BindGroupLayoutDescriptor(2).Entries[2].Buffer.MinBindingSize)
	assert.Equal(t, uint64(tr.Size()), p.BindGroupLayoutDescriptor(3).Entries[0].Buffer.MinBindingSize)

	assert.Equal(t, "lights", p.BindGroupVarName(0, 1))
	assert.Equal(t, "joints", p.BindGroupVarName(3, 0))
	assert.Empty(t, p.BindGroupVarName(5, 0))
}

func TestViewer_EntryPoints(t *testing.T) {
	p := Viewer()

	for _, name := range []string{
		"light_vs_main", "color_vs_main", "texture_vs_main", "color_skin_vs_main", "texture_skin_vs_main",
		"color_outline_vs_main", "texture_outline_vs_main", "color_skin_outline_vs_main", "texture_skin_outline_vs_main",
	} {
		assert.True(t, p.HasEntryPoint(wgpu.ShaderStageVertex, name), name)
	}
	for _, name := range []string{
		"light_fs_main", "color_fs_main", "color_light_fs_main", "texture_fs_main", "texture_light_fs_main", "outline_fs_main",
	} {
		assert.True(t, p.HasEntryPoint(wgpu.ShaderStageFragment, name), name)
	}
	assert.False(t, p.HasEntryPoint(wgpu.ShaderStageVertex, "color_fs_main"))
	assert.Nil(t, p.EntryPoints(wgpu.ShaderStageCompute))
}

func TestViewer_Declarations(t *testing.T) {
	p := Viewer()

	var groups, providers int
	for _, d := range p.Declarations() {
		switch d.Type {
		case AnnotationTypeBindingGroup:
			groups++
		case AnnotationTypeProvider:
			providers++
			assert.Equal(t, 2, *d.Group)
		}
	}
	assert.Equal(t, 5, groups)
	assert.Equal(t, 2, providers)
	assert.NotContains(t, p.Source(), annotationPrefix)
}

func TestPreProcessor_Process(t *testing.T) {
	pp := NewPreProcessor()

	out, err := pp.Process("//@oxy:include instance\n//@oxy:group 3 0 storage_read joints array<joint_item>\nfn f() {}")
	require.NoError(t, err)
	assert.Contains(t, out, "struct InstanceUniform")
	assert.Contains(t, out, "@group(3) @binding(0) var<storage, read> joints: array<JointItem>;")
	require.Len(t, pp.Declarations(), 1)
	assert.Equal(t, 3, *pp.Declarations()[0].Group)

	_, err = pp.Process("//@oxy:group 0 0 storage_uniform camera camera")
	require.NoError(t, err)
	assert.Len(t, pp.Declarations(), 1)
}

func TestPreProcessor_Errors(t *testing.T) {
	pp := NewPreProcessor()

	cases := []string{
		"//@oxy:",
		"//@oxy:include shadow",
		"//@oxy:include",
		"//@oxy:group x 0 storage_uniform camera camera",
		"//@oxy:group 0 0 storage_read_write camera camera",
		"//@oxy:group 0 0 storage_uniform camera",
		"//@oxy:provider 2 0 material base_texture",
		"//@oxy:provider 2 0 texture normal_texture",
		"//@oxy:compute 1",
	}
	for _, src := range cases {
		_, err := pp.Process(src)
		assert.Error(t, err, src)
	}
}

func TestNewProgram_Error(t *testing.T) {
	_, err := NewProgram("broken", "//@oxy:include nothing")
	assert.Error(t, err)
}

func TestExpandConstants(t *testing.T) {
	out := expandConstants("const N: u32 = 4u;\nstruct S { a: array<f32, N>, };")
	assert.Contains(t, out, "array<f32, 4>")
}

func TestStripComments(t *testing.T) {
	src := "a // x\nb /* c /* nested */ d\n */ e\n// last"
	assert.Equal(t, "a \nb \n e\n", stripComments(src))
}

func TestTypeLayouts(t *testing.T) {
	layouts := newTypeLayouts(parseStructBlocks(`
		struct Outer { inner: Inner, count: u32, };
		struct Inner { a: vec3<f32>, b: f32, };
		struct Items { items: array<Inner>, };
		struct Tail { head: vec4<f32>, rest: array<f32>, };
	`))

	cases := map[string]wgslTypeLayout{
		"Inner":            {16, 16},
		"Outer":            {32, 16},
		"Items":            {16, 16},
		"Tail":             {16, 16},
		"array<Inner, 3>":  {48, 16},
		"array<vec2<f32>>": {8, 8},
		"mat4x4<f32>":      {64, 16},
	}
	for typeName, want := range cases {
		got, ok := layouts.resolve(typeName)
		require.True(t, ok, typeName)
		assert.Equal(t, want, got, typeName)
	}

	_, ok := layouts.resolve("Missing")
	assert.False(t, ok)
}

func TestBindingEntry(t *testing.T) {
	e := bindingEntry(1, wgpu.ShaderStageFragment, "storage, read_write", "Items")
	assert.Equal(t, wgpu.BufferBindingTypeStorage, e.Buffer.Type)
	e = bindingEntry(1, wgpu.ShaderStageFragment, "storage, read", "Items")
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, e.Buffer.Type)

	e = bindingEntry(0, wgpu.ShaderStageFragment, "", "texture_2d<f32>")
	assert.Equal(t, wgpu.TextureViewDimension2D, e.Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, e.Texture.SampleType)
	e = bindingEntry(1, wgpu.ShaderStageFragment, "", "sampler")
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, e.Sampler.Type)
}
