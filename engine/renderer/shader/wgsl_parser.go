package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps WGSL type names to their wgpu vertex format and byte size
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2u":     {wgpu.VertexFormatUint32x2, 8},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec4u":     {wgpu.VertexFormatUint32x4, 16},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
}

// wgslSampledTextureMap maps WGSL sampled texture base names to their view dimension
var wgslSampledTextureMap = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_cube":     wgpu.TextureViewDimensionCube,
}

// wgslSampleTypeMap maps WGSL scalar type parameters to their wgpu texture sample type
var wgslSampleTypeMap = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`@vertex\s+fn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`@fragment\s+fn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name and type
	// from declarations like: @group(0) @binding(0) var<uniform> camera: CameraUniform;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	// constDeclRegex captures module-scope integer constants such as: const MAX_JOINTS: u32 = 1024u;
	constDeclRegex = regexp.MustCompile(`const\s+(\w+)\s*:\s*[iu]32\s*=\s*(\d+)[iu]?\s*;`)
)

// expandConstants substitutes module-scope integer constants by their values so that
// array counts written as constants can be sized.
//
// Parameters:
//   - source: comment-free WGSL source
//
// Returns:
//   - string: the source with constant references replaced
func expandConstants(source string) string {
	for _, match := range constDeclRegex.FindAllStringSubmatch(source, -1) {
		ref := regexp.MustCompile(`\b` + match[1] + `\b`)
		source = ref.ReplaceAllString(source, match[2])
	}
	return source
}

// parseVertexLayouts extracts vertex buffer layouts from WGSL source, keyed by the
// name of each pure vertex input struct (@location fields and no @builtin field).
// Structs containing types with no vertex format are skipped.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - map[string]wgpu.VertexBufferLayout: vertex layouts keyed by struct name
func parseVertexLayouts(source string) map[string]wgpu.VertexBufferLayout {
	result := make(map[string]wgpu.VertexBufferLayout)
	structs := parseStructBlocks(stripComments(source))

	for _, ps := range structs {
		if layout, ok := vertexInputLayout(ps); ok {
			result[ps.name] = layout
		}
	}
	return result
}

// parseBindGroupLayouts extracts all @group(N) @binding(M) resource declarations from WGSL
// source and returns them as layout descriptors grouped by group index, entries sorted by
// binding. Buffer entries carry the MinBindingSize of their bound type.
//
// Parameters:
//   - source: the WGSL source
//   - visibility: the shader stage visibility set on each entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layout descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding index
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)
	cleaned := expandConstants(stripComments(source))

	layouts := newTypeLayouts(parseStructBlocks(cleaned))

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		varName := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])

		entry := bindingEntry(uint32(binding), visibility, addressSpace, typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if layout, ok := layouts.resolve(typeName); ok && layout.size > 0 {
				entry.Buffer.MinBindingSize = layout.size
			}
		}

		groups[group] = append(groups[group], entry)
		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
		}
		varNames[group][binding] = varName
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, varNames
}

// parseEntryPoints extracts every entry point name of one stage in source order.
//
// Parameters:
//   - source: the WGSL source
//   - stage: wgpu.ShaderStageVertex or wgpu.ShaderStageFragment
//
// Returns:
//   - []string: the entry point names, nil for any other stage
func parseEntryPoints(source string, stage wgpu.ShaderStage) []string {
	var re *regexp.Regexp
	switch stage {
	case wgpu.ShaderStageVertex:
		re = vertexEntryRegex
	case wgpu.ShaderStageFragment:
		re = fragmentEntryRegex
	default:
		return nil
	}

	var names []string
	for _, match := range re.FindAllStringSubmatch(stripComments(source), -1) {
		names = append(names, match[1])
	}
	return names
}

// parseStructBlocks finds all struct { ... } blocks in comment-free WGSL source.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}
	return structs
}

// parseStructFields parses a struct body into fields with their @location and @builtin attributes.
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := parsedField{location: -1}
		if builtinRegex.MatchString(line) {
			field.isBuiltin = true
		}
		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}
	return fields
}
