// Package hatch fills a layer cross-section with parallel laser scan lines.
package hatch

import (
	"github.com/gmlewis/stratum-slicer/logger"
	"github.com/gmlewis/stratum-slicer/slicer"
)

// Line is a single exposure stroke from From to To.
type Line struct {
	From, To slicer.Vec2
}

// Generate returns horizontal hatch lines covering the interior of segs.
//
// Scanlines run at y = minY + i*pitch up to the top of the segment set.
// Crossings are paired in sorted order; a scanline with an odd number of
// crossings is skipped. Successive emitted scanlines alternate direction
// so the laser travels back and forth.
func Generate(segs []slicer.Segment, pitch float64) []Line {
	if pitch <= 0 {
		return nil
	}
	minY, maxY, ok := slicer.YRange(segs)
	if !ok {
		return nil
	}

	var lines []Line
	var skipped int
	reverse := false
	for i := 0; ; i++ {
		y := minY + float64(i)*pitch
		if y > maxY {
			break
		}
		xs := slicer.Crossings(segs, y, slicer.Vec2{})
		if len(xs)%2 != 0 {
			skipped++
			continue
		}
		if len(xs) == 0 {
			continue
		}

		row := make([]Line, 0, len(xs)/2)
		for j := 0; j < len(xs); j += 2 {
			row = append(row, Line{From: slicer.Vec2{xs[j], y}, To: slicer.Vec2{xs[j+1], y}})
		}
		if reverse {
			for l, r := 0, len(row)-1; l < r; l, r = l+1, r-1 {
				row[l], row[r] = row[r], row[l]
			}
			for j := range row {
				row[j].From, row[j].To = row[j].To, row[j].From
			}
		}
		lines = append(lines, row...)
		reverse = !reverse
	}
	if skipped > 0 {
		logger.Sugar.Warnf("skipped %v hatch scanlines with an odd number of crossings", skipped)
	}
	return lines
}
