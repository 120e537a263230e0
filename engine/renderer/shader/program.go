package shader

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Vertex input struct names declared by the viewer program.
const (
	VertexColor       = "ColorVertexInput"
	VertexTexture     = "TextureVertexInput"
	VertexColorSkin   = "ColorSkinVertexInput"
	VertexTextureSkin = "TextureSkinVertexInput"
)

//go:embed assets/viewer.wgsl
var viewerSource string

// program is the implementation of the Program interface.
type program struct {
	label                      string
	source                     string
	vertexLayouts              map[string]wgpu.VertexBufferLayout
	vertexEntries              []string
	fragmentEntries            []string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	declarations               []Annotation
}

// Program is a pre-processed WGSL module holding every entry point of the viewer,
// with the vertex layouts and bind group declarations parsed from its source.
type Program interface {
	// Label returns the program label used for the device shader module.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Source returns the pre-processed WGSL source.
	//
	// Returns:
	//   - string: the WGSL code handed to the device
	Source() string

	// VertexLayout returns the vertex buffer layout of a vertex input struct.
	//
	// Parameters:
	//   - structName: the WGSL struct name, e.g. VertexColor
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the layout with attributes in location order
	//   - bool: false if the program declares no such vertex input
	VertexLayout(structName string) (wgpu.VertexBufferLayout, bool)

	// HasEntryPoint reports whether a function of the given stage exists.
	//
	// Parameters:
	//   - stage: wgpu.ShaderStageVertex or wgpu.ShaderStageFragment
	//   - name: the entry point name
	//
	// Returns:
	//   - bool: true if the entry point is declared
	HasEntryPoint(stage wgpu.ShaderStage, name string) bool

	// EntryPoints returns every entry point of a stage in source order.
	//
	// Parameters:
	//   - stage: wgpu.ShaderStageVertex or wgpu.ShaderStageFragment
	//
	// Returns:
	//   - []string: the entry point names
	EntryPoints(stage wgpu.ShaderStage) []string

	// BindGroupLayoutDescriptor returns the layout parsed for one bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the entries declared for the group, empty if none
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the variable bound at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not declared
	BindGroupVarName(group, binding int) string

	// Declarations returns the group and provider annotations of the source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Program = &program{}

// NewProgram pre-processes and parses a WGSL source.
//
// Parameters:
//   - label: the program label
//   - source: WGSL source with @oxy: annotations
//
// Returns:
//   - Program: the parsed program
//   - error: an error if pre-processing fails
func NewProgram(label, source string) (Program, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process shader %q: %w", label, err)
	}

	p := &program{
		label:           label,
		source:          processed,
		vertexLayouts:   parseVertexLayouts(processed),
		vertexEntries:   parseEntryPoints(processed, wgpu.ShaderStageVertex),
		fragmentEntries: parseEntryPoints(processed, wgpu.ShaderStageFragment),
		declarations:    slices.Clone(pp.Declarations()),
	}
	p.bindGroupLayoutDescriptors, p.bindingVarNames = parseBindGroupLayouts(processed, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	return p, nil
}

var (
	viewerOnce    sync.Once
	viewerProgram Program
)

// Viewer returns the embedded viewer program. It panics if the embedded source
// fails to pre-process, which only a broken build can cause.
//
// Returns:
//   - Program: the shared viewer program
func Viewer() Program {
	viewerOnce.Do(func() {
		p, err := NewProgram("Viewer", viewerSource)
		if err != nil {
			panic(err)
		}
		viewerProgram = p
	})
	return viewerProgram
}

func (p *program) Label() string {
	return p.label
}

func (p *program) Source() string {
	return p.source
}

func (p *program) VertexLayout(structName string) (wgpu.VertexBufferLayout, bool) {
	layout, ok := p.vertexLayouts[structName]
	return layout, ok
}

func (p *program) HasEntryPoint(stage wgpu.ShaderStage, name string) bool {
	return slices.Contains(p.EntryPoints(stage), name)
}

func (p *program) EntryPoints(stage wgpu.ShaderStage) []string {
	switch stage {
	case wgpu.ShaderStageVertex:
		return p.vertexEntries
	case wgpu.ShaderStageFragment:
		return p.fragmentEntries
	}
	return nil
}

func (p *program) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupLayoutDescriptors[group]
}

func (p *program) BindGroupVarName(group, binding int) string {
	if p.bindingVarNames[group] == nil {
		return ""
	}
	return p.bindingVarNames[group][binding]
}

func (p *program) Declarations() []Annotation {
	return p.declarations
}
