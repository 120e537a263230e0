package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslScalarLayouts holds the size and alignment of the built-in WGSL types used by
// uniform and storage blocks.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslScalarLayouts = map[string]wgslTypeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},
	"vec2<u32>": {8, 8},
	"vec4<u32>": {16, 16},

	// Matrix columns are vectors padded to their alignment.
	"mat2x2<f32>": {16, 8},
	"mat3x3<f32>": {48, 16},
	"mat3x4<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

// alignTo rounds value up to a multiple of align, which is zero or a power of two.
func alignTo(value, align uint64) uint64 {
	if align == 0 {
		return value
	}
	return (value + align - 1) &^ (align - 1)
}

// newTypeLayouts resolves every struct it can. A struct whose fields name a struct
// that is declared later is retried until a pass makes no progress.
//
// Parameters:
//   - structs: the struct blocks of a comment-free source
//
// Returns:
//   - typeLayouts: the resolved struct layouts keyed by struct name
func newTypeLayouts(structs []parsedStruct) typeLayouts {
	layouts := make(typeLayouts, len(structs))
	pending := append([]parsedStruct(nil), structs...)
	for len(pending) > 0 {
		var unresolved []parsedStruct
		for _, ps := range pending {
			if l, ok := layouts.structLayout(ps); ok {
				layouts[ps.name] = l
			} else {
				unresolved = append(unresolved, ps)
			}
		}
		if len(unresolved) == len(pending) {
			break
		}
		pending = unresolved
	}
	return layouts
}

// arrayParams splits "array<T, N>" into its element type and count. A runtime-sized
// array reports a count of zero and sized false.
func arrayParams(typeName string) (elem string, count uint64, sized, ok bool) {
	base, params := splitTypeParams(typeName)
	if base != "array" || params == "" {
		return "", 0, false, false
	}
	parts := splitAtTopLevelCommas(params)
	elem = strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		return elem, 0, false, true
	}
	n, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return "", 0, false, false
	}
	return elem, n, true, true
}

// resolve looks a type up among the built-in types, the resolved structs and
// arrays of either. A runtime-sized array resolves to one element so it can
// serve as a minimum binding size.
//
// Parameters:
//   - typeName: the WGSL type, e.g. "vec3<f32>", "CameraUniform" or "array<PointLight, 16>"
//
// Returns:
//   - wgslTypeLayout: the size and alignment of the type
//   - bool: false if the type is unknown
func (t typeLayouts) resolve(typeName string) (wgslTypeLayout, bool) {
	if l, ok := wgslScalarLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := t[typeName]; ok {
		return l, true
	}
	elem, count, sized, ok := arrayParams(typeName)
	if !ok {
		return wgslTypeLayout{}, false
	}
	el, ok := t.resolve(elem)
	if !ok {
		return wgslTypeLayout{}, false
	}
	if !sized {
		count = 1
	}
	return wgslTypeLayout{size: count * el.stride(), align: el.align}, true
}

// structLayout places each non-builtin field at its aligned offset and rounds the
// total up to the widest alignment. A trailing runtime-sized array contributes only
// its alignment, unless it is the sole member, in which case one element is counted.
func (t typeLayouts) structLayout(ps parsedStruct) (wgslTypeLayout, bool) {
	var offset uint64
	align := uint64(1)
	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		fl, ok := t.resolve(f.typeName)
		if !ok {
			return wgslTypeLayout{}, false
		}
		align = max(align, fl.align)
		if _, _, sized, isArray := arrayParams(f.typeName); isArray && !sized {
			if offset == 0 {
				return wgslTypeLayout{size: fl.size, align: align}, true
			}
			return wgslTypeLayout{size: alignTo(offset, align), align: align}, true
		}
		offset = alignTo(offset, fl.align) + fl.size
	}
	return wgslTypeLayout{size: alignTo(offset, align), align: align}, true
}

// bindingEntry builds the layout entry of one resource declaration. Declarations with
// an address space are buffers; handle types are samplers or sampled textures.
//
// Parameters:
//   - binding: the @binding index
//   - visibility: the stages the entry is visible to
//   - addressSpace: the var<...> qualifier, e.g. "uniform" or "storage, read", empty for handles
//   - typeName: the declared type, e.g. "texture_2d<f32>"
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the entry, with MinBindingSize left for the caller
func bindingEntry(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}

	switch space, access, _ := strings.Cut(addressSpace, ","); strings.TrimSpace(space) {
	case "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		return entry
	case "storage":
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.TrimSpace(access) == "read_write" {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
		return entry
	}

	base, param := splitTypeParams(typeName)
	switch base {
	case "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	default:
		if dim, ok := wgslSampledTextureMap[base]; ok {
			entry.Texture.ViewDimension = dim
			entry.Texture.SampleType = wgslSampleTypeMap[param]
		}
	}
	return entry
}

// splitTypeParams splits "texture_2d<f32>" into "texture_2d" and "f32".
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

// stripComments blanks out line comments and nested block comments in one pass.
// Newlines are kept so line-oriented matching still works on the result.
//
// Parameters:
//   - source: raw WGSL source
//
// Returns:
//   - string: the source without comments
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		c := source[i]
		next := byte(0)
		if i+1 < len(source) {
			next = source[i+1]
		}
		switch {
		case c == '/' && next == '*':
			depth++
			i++
		case c == '*' && next == '/' && depth > 0:
			depth--
			i++
		case depth > 0:
			if c == '\n' {
				sb.WriteByte(c)
			}
		case c == '/' && next == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
			if i < len(source) {
				sb.WriteByte('\n')
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// vertexInputLayout turns a vertex input struct into a tightly packed buffer layout.
// Only structs made of @location fields qualify; a @builtin field marks a stage
// output and an unmapped type has no vertex format.
//
// Parameters:
//   - ps: the parsed struct
//
// Returns:
//   - wgpu.VertexBufferLayout: attributes in field order
//   - bool: false if ps is not a vertex input struct
func vertexInputLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	if len(ps.fields) == 0 {
		return wgpu.VertexBufferLayout{}, false
	}
	layout := wgpu.VertexBufferLayout{
		StepMode:   wgpu.VertexStepModeVertex,
		Attributes: make([]wgpu.VertexAttribute, 0, len(ps.fields)),
	}
	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if f.isBuiltin || f.location < 0 || !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         layout.ArrayStride,
			ShaderLocation: uint32(f.location),
		})
		layout.ArrayStride += info.size
	}
	return layout, true
}

// splitAtTopLevelCommas splits s at commas outside angle brackets, so that
// "a: array<T, 4>, b: f32" yields two parts.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, c := range s {
		switch {
		case c == '<':
			depth++
		case c == '>' && depth > 0:
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
