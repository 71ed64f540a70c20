// Package contour reassembles the unordered segments of a layer into
// polygonal chains.
//
// Endpoints that agree to within slicer.PointEpsilon on each axis are the
// same vertex. The segments form a multigraph on those vertices and Stitch
// decomposes it into trails. Where a vertex has more than two edges (a
// T-junction from a non-manifold mesh) the first listed unconsumed edge is
// followed, so the result is always a partition of the input edges but not
// necessarily the natural outline.
package contour

import (
	"math"
	"sort"

	"github.com/gmlewis/stratum-slicer/slicer"
)

// Polygon is an ordered chain of points. When Closed is set the last
// point connects back to the first; the first point is not repeated.
type Polygon struct {
	Points []slicer.Vec2
	Closed bool
}

// Edges returns the consecutive point pairs of the polygon, including the
// closing edge of a closed polygon.
func (p *Polygon) Edges() []slicer.Segment {
	var edges []slicer.Segment
	for i := 1; i < len(p.Points); i++ {
		edges = append(edges, slicer.Segment{P1: p.Points[i-1], P2: p.Points[i]})
	}
	if p.Closed && len(p.Points) > 0 {
		edges = append(edges, slicer.Segment{P1: p.Points[len(p.Points)-1], P2: p.Points[0]})
	}
	return edges
}

// Area returns the signed shoelace area of a closed polygon (positive when
// counter-clockwise). Open chains have no area.
func (p *Polygon) Area() float64 {
	if !p.Closed {
		return 0
	}
	var sum float64
	for _, e := range p.Edges() {
		sum += e.P1.X()*e.P2.Y() - e.P2.X()*e.P1.Y()
	}
	return sum / 2
}

// SamePoint reports whether a and b are the same vertex.
func SamePoint(a, b slicer.Vec2) bool {
	return math.Abs(a.X()-b.X()) <= slicer.PointEpsilon && math.Abs(a.Y()-b.Y()) <= slicer.PointEpsilon
}

// Key is a point snapped to the PointEpsilon grid.
type Key struct {
	X, Y int64
}

// KeyOf snaps p to the tolerance grid.
func KeyOf(p slicer.Vec2) Key {
	return Key{
		X: int64(math.Round(p.X() / slicer.PointEpsilon)),
		Y: int64(math.Round(p.Y() / slicer.PointEpsilon)),
	}
}

// edge is one input segment joining two vertices of the graph.
type edge struct {
	from, to int // vertex indices
	seg      slicer.Segment
	used     bool
}

// at returns the coordinates of e at its end on vertex v.
func (e *edge) at(v int) slicer.Vec2 {
	if e.from == v {
		return e.seg.P1
	}
	return e.seg.P2
}

// other returns the far vertex of e and its coordinates as seen from v.
func (e *edge) other(v int) (int, slicer.Vec2) {
	if e.from == v {
		return e.to, e.seg.P2
	}
	return e.from, e.seg.P1
}

// graph is the segment multigraph. Vertices and edges live in arenas
// addressed by index.
type graph struct {
	points []slicer.Vec2  // first coordinates seen for each vertex
	adj    [][]int        // vertex -> edge indices in insertion order
	edges  []edge         // arena
	cells  map[Key][]int  // tolerance grid -> vertices
	cursor []int          // per-vertex scan position into adj
}

func newGraph(segs []slicer.Segment) *graph {
	g := &graph{
		edges: make([]edge, 0, len(segs)),
		cells: map[Key][]int{},
	}
	for _, s := range segs {
		a := g.vertex(s.P1)
		b := g.vertex(s.P2)
		id := len(g.edges)
		g.edges = append(g.edges, edge{from: a, to: b, seg: s})
		g.adj[a] = append(g.adj[a], id)
		if b != a {
			g.adj[b] = append(g.adj[b], id)
		}
	}
	g.cursor = make([]int, len(g.points))
	return g
}

// vertex returns the index of the vertex at p, creating it if needed.
// Neighboring grid cells are searched so that points within tolerance
// but on either side of a cell boundary still meet.
func (g *graph) vertex(p slicer.Vec2) int {
	k := KeyOf(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, v := range g.cells[Key{X: k.X + dx, Y: k.Y + dy}] {
				if SamePoint(g.points[v], p) {
					return v
				}
			}
		}
	}
	v := len(g.points)
	g.points = append(g.points, p)
	g.adj = append(g.adj, nil)
	g.cells[k] = append(g.cells[k], v)
	return v
}

// next consumes and returns the first unused edge at v, or -1.
func (g *graph) next(v int) int {
	for g.cursor[v] < len(g.adj[v]) {
		id := g.adj[v][g.cursor[v]]
		g.cursor[v]++
		if !g.edges[id].used {
			g.edges[id].used = true
			return id
		}
	}
	return -1
}

// remaining counts the unused edges at v. A self-loop counts once.
func (g *graph) remaining(v int) int {
	var n int
	for _, id := range g.adj[v][g.cursor[v]:] {
		if !g.edges[id].used {
			n++
		}
	}
	return n
}

// Stitch partitions segs into polygons. Every segment appears in exactly
// one polygon edge.
//
// Walks start from vertices in x-then-y order, taking vertices with an odd
// number of remaining edges first so that open chains are walked from an
// end rather than split in the middle.
func Stitch(segs []slicer.Segment) []Polygon {
	if len(segs) == 0 {
		return nil
	}
	g := newGraph(segs)

	order := make([]int, len(g.points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := g.points[order[a]], g.points[order[b]]
		if pa.X() != pb.X() {
			return pa.X() < pb.X()
		}
		return pa.Y() < pb.Y()
	})

	var polys []Polygon
	for _, oddOnly := range []bool{true, false} {
		for _, start := range order {
			for {
				n := g.remaining(start)
				if n == 0 || (oddOnly && n%2 == 0) {
					break
				}
				polys = append(polys, g.walk(start))
			}
		}
	}
	return polys
}

// walk follows unused edges from start until it returns to start or gets
// stuck.
func (g *graph) walk(start int) Polygon {
	poly := Polygon{Points: []slicer.Vec2{g.points[start]}}
	v := start
	for {
		id := g.next(v)
		if id < 0 {
			return poly
		}
		e := &g.edges[id]
		if len(poly.Points) == 1 {
			poly.Points[0] = e.at(v)
		}
		w, p := e.other(v)
		if w == start {
			poly.Closed = true
			return poly
		}
		poly.Points = append(poly.Points, p)
		v = w
	}
}
