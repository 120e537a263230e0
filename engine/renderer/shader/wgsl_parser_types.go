package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo pairs a vertex format with its byte size.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout is the host-shareable size and alignment of a WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// stride is the distance between consecutive array elements of the type.
func (l wgslTypeLayout) stride() uint64 {
	return alignTo(l.size, l.align)
}

type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

// typeLayouts holds the resolved layouts of the structs declared in one program.
type typeLayouts map[string]wgslTypeLayout
