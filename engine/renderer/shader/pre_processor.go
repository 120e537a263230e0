// pre_processor.go implements the viewer's WGSL pre-processor. It scans shader source
// for @oxy: annotations, replaces them with injected uniform struct sources or generated
// binding declarations, and collects the declarations so the program can be checked
// against the fixed bind group layouts.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uniform"
)

// registryEntry pairs a WGSL struct source with the type name used in generated declarations.
type registryEntry struct {
	Source string
	Type   string
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string
	declarations         []Annotation
}

// PreProcessor processes WGSL source containing @oxy: annotations.
type PreProcessor interface {
	// Process replaces @oxy:include annotations with struct sources and @oxy:group
	// annotations with @group/@binding declarations. @oxy:provider annotations produce
	// no output but are recorded. The declarations list is reset on every call.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if any annotation is malformed or references an unknown type
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations of the last Process call in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with every uniform struct registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:           {Source: uniform.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgLight:            {Source: uniform.GPULightUniformSource, Type: "LightUniform"},
			AnnotationArgInstance:         {Source: uniform.GPUInstanceUniformSource, Type: "InstanceUniform"},
			AnnotationArgJointItem:        {Source: uniform.GPUJointItemSource, Type: "JointItem"},
			AnnotationArgTextureTransform: {Source: uniform.GPUTextureTransformUniformSource, Type: "TextureTransformUniform"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, a.Args[0])
			}
			out = append(out, entry.Source)
		case AnnotationTypeBindingGroup:
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			varName := string(a.Args[1])
			var wgslType string
			if inner, ok := strings.CutPrefix(string(a.Args[2]), "array<"); ok {
				inner = strings.TrimSuffix(inner, ">")
				wgslType = fmt.Sprintf("array<%s>", p.structRegistry[AnnotationArg(inner)].Type)
			} else {
				wgslType = p.structRegistry[a.Args[2]].Type
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, varName, wgslType))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
