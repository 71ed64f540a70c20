// Package mesh loads triangle-soup models and fits them onto a build plate.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle represents one facet of a model. No connectivity is stored
// and degenerate triangles (repeated vertices) are accepted.
type Triangle struct {
	V1, V2, V3 mgl64.Vec3
}

// Vertices returns the three vertices of the triangle in order.
func (t *Triangle) Vertices() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{t.V1, t.V2, t.V3}
}

// Mesh is a flat bag of triangles.
type Mesh struct {
	Triangles []Triangle
}

// Bounds represents an axis-aligned bounding box in millimeters.
type Bounds struct {
	Min, Max mgl64.Vec3
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center of the box.
func (b Bounds) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Bounds) String() string {
	return fmt.Sprintf("(%v,%v,%v)-(%v,%v,%v)", b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}

// ComputeBounds scans every vertex of the mesh. An empty mesh yields
// the all-zero box.
func ComputeBounds(m *Mesh) Bounds {
	var b Bounds
	if m == nil || len(m.Triangles) == 0 {
		return b
	}

	b.Min = m.Triangles[0].V1
	b.Max = m.Triangles[0].V1
	for i := range m.Triangles {
		for _, v := range m.Triangles[i].Vertices() {
			for axis := 0; axis < 3; axis++ {
				if v[axis] < b.Min[axis] {
					b.Min[axis] = v[axis]
				}
				if v[axis] > b.Max[axis] {
					b.Max[axis] = v[axis]
				}
			}
		}
	}
	return b
}
