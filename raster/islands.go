package raster

import (
	"fmt"
	"image"
	"sort"
)

// Island is one 8-connected component of lit pixels.
type Island struct {
	// Bounds is the half-open pixel bounding box of the island.
	Bounds image.Rectangle
	// Pixels is the number of lit pixels in the island.
	Pixels int

	label int
}

func (is Island) String() string {
	return fmt.Sprintf("%v px in %v", is.Pixels, is.Bounds)
}

// Islands labels the 8-connected components of m using a two-pass scan
// with label equivalences. Islands are returned in order of their first
// pixel in row-major order.
func Islands(m *PixelMask) []Island {
	islands, _ := label(m)
	return islands
}

// Unsupported returns the islands of cur that share no lit pixel with prev.
// A nil prev supports nothing; the first layer sits on the build plate and
// callers should not check it.
func Unsupported(prev, cur *PixelMask) []Island {
	islands, labels := label(cur)
	if len(islands) == 0 {
		return nil
	}

	supported := map[int]bool{}
	if prev != nil {
		for y := 0; y < cur.Height; y++ {
			for x := 0; x < cur.Width; x++ {
				if l := labels[y*cur.Width+x]; l != 0 && prev.At(x, y) {
					supported[l] = true
				}
			}
		}
	}

	var result []Island
	for _, is := range islands {
		if !supported[is.label] {
			result = append(result, is)
		}
	}
	return result
}

// label returns the islands of m together with the per-pixel resolved
// label (0 for unlit pixels).
func label(m *PixelMask) ([]Island, []int) {
	labels := make([]int, len(m.Bits))
	parent := []int{0} // union-find forest; label 0 is background

	find := func(a int) int {
		for parent[a] != a {
			parent[a] = parent[parent[a]]
			a = parent[a]
		}
		return a
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		switch {
		case ra < rb:
			parent[rb] = ra
		case rb < ra:
			parent[ra] = rb
		}
	}

	at := func(x, y int) int {
		if x < 0 || y < 0 || x >= m.Width {
			return 0
		}
		return labels[y*m.Width+x]
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Bits[y*m.Width+x] {
				continue
			}
			var lowest int
			for _, n := range [4]int{at(x-1, y), at(x-1, y-1), at(x, y-1), at(x+1, y-1)} {
				if n == 0 {
					continue
				}
				if lowest == 0 {
					lowest = n
					continue
				}
				union(lowest, n)
				if n < lowest {
					lowest = n
				}
			}
			if lowest == 0 {
				lowest = len(parent)
				parent = append(parent, lowest)
			}
			labels[y*m.Width+x] = lowest
		}
	}

	byRoot := map[int]*Island{}
	var roots []int
	for i, l := range labels {
		if l == 0 {
			continue
		}
		root := find(l)
		labels[i] = root
		x, y := i%m.Width, i/m.Width
		is, ok := byRoot[root]
		if !ok {
			is = &Island{Bounds: image.Rect(x, y, x+1, y+1), label: root}
			byRoot[root] = is
			roots = append(roots, root)
		}
		is.Pixels++
		is.Bounds = is.Bounds.Union(image.Rect(x, y, x+1, y+1))
	}

	sort.Ints(roots)
	islands := make([]Island, 0, len(roots))
	for _, r := range roots {
		islands = append(islands, *byRoot[r])
	}
	return islands, labels
}
