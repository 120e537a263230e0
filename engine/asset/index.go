// Package asset defines the format-agnostic intermediate scene model that file
// parsers produce and the renderer-side loader consumes. Nothing in this package
// touches the GPU.
package asset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// BundleID identifies a source bundle (an archive, a directory or a single
// file) by the SHA-256 digest of its contents.
type BundleID [32]byte

// String renders the bundle id as lowercase hex.
func (b BundleID) String() string {
	return hex.EncodeToString(b[:])
}

// BundleDigest computes the BundleID of raw bundle bytes.
//
// Parameters:
//   - data: the raw bundle contents
//
// Returns:
//   - BundleID: the SHA-256 digest of data
func BundleDigest(data []byte) BundleID {
	return BundleID(sha256.Sum256(data))
}

// IndexType names the kind of asset an in-bundle numeric index refers to.
type IndexType uint8

const (
	IndexTypeNode IndexType = iota
	IndexTypeSkin
	IndexTypeTexture
	IndexTypeMaterial
	IndexTypeMesh
	IndexTypeCamera
)

func (t IndexType) String() string {
	switch t {
	case IndexTypeNode:
		return "Node"
	case IndexTypeSkin:
		return "Skin"
	case IndexTypeTexture:
		return "Texture"
	case IndexTypeMaterial:
		return "Material"
	case IndexTypeMesh:
		return "Mesh"
	case IndexTypeCamera:
		return "Camera"
	default:
		return fmt.Sprintf("IndexType(%d)", uint8(t))
	}
}

type indexKind uint8

const (
	indexKindBundle indexKind = iota
	indexKindPath
	indexKindTypeIndex
)

// Index is the content identity of an asset: the bundle it came from plus an
// optional in-bundle path or typed index. Index values are comparable and are
// used directly as cache keys.
type Index struct {
	kind   indexKind
	bundle BundleID
	path   string
	typ    IndexType
	n      int
}

// BundleIndex identifies a whole bundle.
func BundleIndex(bundle BundleID) Index {
	return Index{kind: indexKindBundle, bundle: bundle}
}

// PathIndex identifies a file inside a bundle.
func PathIndex(bundle BundleID, path string) Index {
	return Index{kind: indexKindPath, bundle: bundle, path: path}
}

// TypeIndex identifies the n-th asset of the given type inside a bundle.
func TypeIndex(bundle BundleID, typ IndexType, n int) Index {
	return Index{kind: indexKindTypeIndex, bundle: bundle, typ: typ, n: n}
}

// Bundle returns the bundle this index belongs to.
func (i Index) Bundle() BundleID {
	return i.bundle
}

// Path returns the in-bundle path and whether the index is path-based.
func (i Index) Path() (string, bool) {
	return i.path, i.kind == indexKindPath
}

// Typed returns the asset type and in-bundle number and whether the index is type-based.
func (i Index) Typed() (IndexType, int, bool) {
	return i.typ, i.n, i.kind == indexKindTypeIndex
}

func (i Index) String() string {
	switch i.kind {
	case indexKindPath:
		return fmt.Sprintf("%s: %s", i.bundle, i.path)
	case indexKindTypeIndex:
		return fmt.Sprintf("%s - %s: %d", i.bundle, i.typ, i.n)
	default:
		return i.bundle.String()
	}
}
