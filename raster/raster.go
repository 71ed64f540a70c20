// Package raster converts a layer cross-section into a binary pixel mask
// for an LCD exposure screen.
package raster

import (
	"image"
	"math"

	"github.com/gmlewis/stratum-slicer/slicer"
)

// Grid describes the pixel lattice of the exposure screen.
type Grid struct {
	Width, Height int
	// Pitch is the size of one pixel in millimeters.
	Pitch float64
	// Offset translates model coordinates into plate coordinates.
	Offset slicer.Vec2
}

// PixelMask is a row-major binary image. Bits has Width*Height entries.
type PixelMask struct {
	Width, Height int
	Bits          []bool
}

// NewPixelMask returns an unlit mask.
func NewPixelMask(width, height int) *PixelMask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelMask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// At reports whether pixel (x,y) is lit. Out-of-range pixels are unlit.
func (m *PixelMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set lights pixel (x,y).
func (m *PixelMask) Set(x, y int) {
	m.Bits[y*m.Width+x] = true
}

// Count returns the number of lit pixels.
func (m *PixelMask) Count() int {
	var n int
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// RGBA returns the mask as a Width*Height*4 byte buffer. Lit pixels are
// opaque white and unlit pixels are opaque black.
func (m *PixelMask) RGBA() []byte {
	buf := make([]byte, 4*len(m.Bits))
	for i, b := range m.Bits {
		var v byte
		if b {
			v = 0xff
		}
		buf[4*i] = v
		buf[4*i+1] = v
		buf[4*i+2] = v
		buf[4*i+3] = 0xff
	}
	return buf
}

// Image wraps the RGBA buffer as an image.
func (m *PixelMask) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    m.RGBA(),
		Stride: 4 * m.Width,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// Rasterize fills the interior of segs using an even-odd scanline fill.
//
// Row r is sampled at y = (r+0.5)*Pitch in plate coordinates. Crossings
// are paired in sorted order and each pair lights columns
// [round(xa/Pitch), round(xb/Pitch)) clamped to the grid. A row with an
// odd number of crossings cannot be paired reliably and stays unlit.
func Rasterize(segs []slicer.Segment, g Grid) *PixelMask {
	m := NewPixelMask(g.Width, g.Height)
	if g.Pitch <= 0 || len(segs) == 0 {
		return m
	}

	for row := 0; row < m.Height; row++ {
		y := (float64(row) + 0.5) * g.Pitch
		xs := slicer.Crossings(segs, y, g.Offset)
		if len(xs)%2 != 0 {
			continue
		}
		for i := 0; i < len(xs); i += 2 {
			x0 := column(xs[i], g.Pitch, m.Width)
			x1 := column(xs[i+1], g.Pitch, m.Width)
			for x := x0; x < x1; x++ {
				m.Set(x, row)
			}
		}
	}
	return m
}

// column converts a plate X into a pixel boundary clamped to [0,width].
func column(x, pitch float64, width int) int {
	c := math.Round(x / pitch)
	if c < 0 {
		return 0
	}
	if c > float64(width) {
		return width
	}
	return int(c)
}
