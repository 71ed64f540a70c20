// Package slicer intersects a mesh with horizontal planes.
package slicer

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gmlewis/stratum-slicer/logger"
	"github.com/gmlewis/stratum-slicer/mesh"
)

const (
	// PointEpsilon is the per-axis tolerance under which two 2D points
	// are the same point.
	PointEpsilon = 1e-6

	// ZEpsilon is the Z (and slope) tolerance under which an edge is
	// treated as lying in the slicing plane.
	ZEpsilon = 1e-9

	// MaxLayers caps the number of slicing heights of one model.
	MaxLayers = 1 << 24
)

// Vec2 is a point in the XY plane, in millimeters.
type Vec2 = mgl64.Vec2

// Segment is an undirected edge of a cross-section. Near-zero-length
// segments occur at grazing intersections.
type Segment struct {
	P1, P2 Vec2
}

// Layer is the cross-section of a mesh at one Z height.
type Layer struct {
	Index    int
	Z        float64
	Segments []Segment
}

// Empty reports whether the layer has nothing to expose.
func (l *Layer) Empty() bool { return len(l.Segments) == 0 }

// Slice returns the segments where the mesh crosses the plane at z.
//
// A vertex is below the plane iff its z < z. Triangles with all or none
// of their vertices below are skipped. A crossing triangle that does not
// yield exactly two intersection points (only possible for malformed
// input) contributes nothing.
func Slice(m *mesh.Mesh, z float64) []Segment {
	var segs []Segment
	for i := range m.Triangles {
		v := m.Triangles[i].Vertices()

		var below int
		for _, p := range v {
			if p.Z() < z {
				below++
			}
		}
		if below == 0 || below == 3 {
			continue
		}

		var pts [3]Vec2
		var n int
		for e := 0; e < 3; e++ {
			a, b := v[e], v[(e+1)%3]
			if (a.Z() < z) == (b.Z() < z) {
				continue
			}
			pts[n] = intersect(a, b, z)
			n++
		}
		if n != 2 {
			continue
		}
		segs = append(segs, Segment{P1: pts[0], P2: pts[1]})
	}
	return segs
}

// intersect interpolates the edge a-b at height z. An edge lying in the
// plane degenerates to a.
func intersect(a, b mgl64.Vec3, z float64) Vec2 {
	dz := b.Z() - a.Z()
	if math.Abs(dz) < ZEpsilon {
		return Vec2{a.X(), a.Y()}
	}
	t := (z - a.Z()) / dz
	return Vec2{a.X() + t*(b.X()-a.X()), a.Y() + t*(b.Y()-a.Y())}
}

// Heights returns the slicing heights from the bottom of b to its top in
// steps of layerHeight. A non-positive or non-finite layerHeight, a
// non-finite Z extent, or more than MaxLayers heights yields no heights.
func Heights(b mesh.Bounds, layerHeight float64) []float64 {
	if !(layerHeight > 0) || math.IsInf(layerHeight, 0) {
		return nil
	}
	minZ, maxZ := b.Min.Z(), b.Max.Z()
	span := maxZ - minZ
	if math.IsNaN(span) || math.IsInf(span, 0) {
		logger.Sugar.Warnf("cannot slice Z extent %v..%v", minZ, maxZ)
		return nil
	}
	if span/layerHeight >= MaxLayers {
		logger.Sugar.Warnf("Z extent %v at layer height %v exceeds %v layers", span, layerHeight, MaxLayers)
		return nil
	}
	var zs []float64
	for i := 0; ; i++ {
		z := minZ + float64(i)*layerHeight
		if z > maxZ+ZEpsilon {
			break
		}
		zs = append(zs, z)
	}
	return zs
}

// Crossings returns the sorted X coordinates at which the horizontal
// line at y crosses segs, after translating every segment by offset.
//
// An edge counts when y1 < y <= y2 (or the mirror), so a vertex shared by
// two edges is counted once and horizontal edges never count.
func Crossings(segs []Segment, y float64, offset Vec2) []float64 {
	var xs []float64
	for _, s := range segs {
		p1, p2 := s.P1.Add(offset), s.P2.Add(offset)
		if (p1.Y() < y && y <= p2.Y()) || (p2.Y() < y && y <= p1.Y()) {
			t := (y - p1.Y()) / (p2.Y() - p1.Y())
			xs = append(xs, p1.X()+t*(p2.X()-p1.X()))
		}
	}
	sort.Float64s(xs)
	return xs
}

// YRange returns the smallest and largest Y over all segment endpoints.
// ok is false when segs is empty.
func YRange(segs []Segment) (minY, maxY float64, ok bool) {
	if len(segs) == 0 {
		return 0, 0, false
	}
	minY, maxY = math.Inf(1), math.Inf(-1)
	for _, s := range segs {
		minY = math.Min(minY, math.Min(s.P1.Y(), s.P2.Y()))
		maxY = math.Max(maxY, math.Max(s.P1.Y(), s.P2.Y()))
	}
	return minY, maxY, true
}
