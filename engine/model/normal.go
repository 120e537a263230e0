package model

import "github.com/go-gl/mathgl/mgl32"

// ComputeNormals derives per-vertex normals for a triangle list by accumulating
// the face normal of every triangle onto its three vertices and normalizing.
// Without indices the positions are read as consecutive triangles. Vertices that
// belong to no triangle keep a zero normal.
//
// Parameters:
//   - positions: vertex positions
//   - indices: optional triangle-list indices
//
// Returns:
//   - [][3]float32: one normal per position
func ComputeNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	acc := make([]mgl32.Vec3, len(positions))

	triangle := func(a, b, c uint32) {
		if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
			return
		}
		p0, p1, p2 := mgl32.Vec3(positions[a]), mgl32.Vec3(positions[b]), mgl32.Vec3(positions[c])
		n := p2.Sub(p1).Cross(p0.Sub(p1))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}

	if len(indices) > 0 {
		for i := 0; i+2 < len(indices); i += 3 {
			triangle(indices[i], indices[i+1], indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(positions); i += 3 {
			triangle(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	normals := make([][3]float32, len(positions))
	for i, n := range acc {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	return normals
}
