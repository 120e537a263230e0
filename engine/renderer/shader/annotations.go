// annotations.go defines the annotation types, argument constants and parser for the
// viewer's WGSL pre-processor. Annotations are single-line WGSL comments prefixed with
// @oxy: that inject uniform struct sources, generate bind group declarations and record
// hand-written texture bindings. The parsed results are kept as Annotation values so the
// declared bindings can be checked against the renderer's fixed bind group layouts.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition
	// at the annotation site. It does not produce a declaration.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include camera
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and records it in the declarations list.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@oxy:group 0 0 storage_uniform camera camera
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider records a hand-written handle binding (texture or sampler)
	// without generating WGSL. The declaration itself stays on the line below.
	//
	// Syntax: //@oxy:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Example: //@oxy:provider 2 0 texture base_texture
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key
	//   - group:    [0] = address space, [1] = var name, [2] = WGSL type key
	//   - provider: [0] = provider identity, [1] = binding role
	Args []AnnotationArg

	// Line is the 1-based source line, for error reporting.
	Line int

	// Group is the @group index. Nil for include annotations.
	Group *int

	// Binding is the @binding index. Nil for include annotations.
	Binding *int
}

// AnnotationArg is a typed string constant used as an annotation argument.
type AnnotationArg string

// Struct type arguments. Each maps to a uniform struct with an embedded .wgsl source.
const (
	// AnnotationArgCamera identifies the CameraUniform struct.
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgLight identifies the LightUniform struct and its light items.
	AnnotationArgLight AnnotationArg = "light"

	// AnnotationArgInstance identifies the InstanceUniform struct.
	AnnotationArgInstance AnnotationArg = "instance"

	// AnnotationArgJointItem identifies one JointItem of the joint storage array.
	AnnotationArgJointItem AnnotationArg = "joint_item"

	// AnnotationArgTextureTransform identifies the TextureTransformUniform struct.
	AnnotationArgTextureTransform AnnotationArg = "texture_transform"
)

// Address space arguments, mapped to WGSL var<> declarations.
const (
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead    AnnotationArg = "storage_read"
)

// Provider identity and binding role arguments.
const (
	// AnnotationArgTexture identifies the texture bind group provider.
	AnnotationArgTexture AnnotationArg = "texture"

	// AnnotationArgBaseTexture is the sampled base colour texture.
	AnnotationArgBaseTexture AnnotationArg = "base_texture"

	// AnnotationArgBaseSampler is the sampler paired with the base colour texture.
	AnnotationArgBaseSampler AnnotationArg = "base_sampler"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgLight,
	AnnotationArgInstance,
	AnnotationArgJointItem,
	AnnotationArgTextureTransform,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgTexture,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgBaseTexture,
	AnnotationArgBaseSampler,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires exactly five arguments (group, binding, address space, var name, struct type)", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		typeArg := args[5]
		if inner, ok := strings.CutPrefix(typeArg, "array<"); ok {
			typeArg = strings.TrimSuffix(inner, ">")
		}
		if !slices.Contains(validStructTypes, AnnotationArg(typeArg)) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", lineNum, typeArg)
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case string(AnnotationTypeProvider):
		if len(args) != 5 {
			return nil, fmt.Errorf("line %d: @oxy provider annotation requires four arguments (group, binding, provider identity, binding role)", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @oxy provider annotation", lineNum, args[3])
		}
		if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
			return nil, fmt.Errorf("line %d: unknown binding role %q in @oxy provider annotation", lineNum, args[4])
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}

func parseSlot(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, groupArg, err)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, bindingArg, err)
	}
	return group, binding, nil
}
