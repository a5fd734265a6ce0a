// Package geom provides triangle-mesh helpers shared by the terrain builder
// and the model loader.
package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FaceNormal returns the unnormalized cross product (b-a) x (c-a).
// Its length is twice the triangle area, so summing it weights by area.
func FaceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// AccumulateNormals adds the face normal of every triangle in indices to the
// entries of its three vertices. A trailing partial triangle is ignored.
// The returned vectors are not normalized.
func AccumulateNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		n := FaceNormal(positions[i0], positions[i1], positions[i2])

		normals[i0] = normals[i0].Add(n)
		normals[i1] = normals[i1].Add(n)
		normals[i2] = normals[i2].Add(n)
	}

	return normals
}

// NormalizeInPlace scales every vector to unit length.
// Zero vectors (vertices no triangle touched) are left as zero.
func NormalizeInPlace(vs []mgl32.Vec3) {
	for i, v := range vs {
		l := Length(v)
		if l == 0 {
			continue
		}
		vs[i] = v.Mul(1 / l)
	}
}

// SmoothNormals computes area-weighted per-vertex normals.
func SmoothNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := AccumulateNormals(positions, indices)
	NormalizeInPlace(normals)
	return normals
}

// Length returns the euclidean length of v.
func Length(v mgl32.Vec3) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
