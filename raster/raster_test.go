package raster

import (
	"fmt"
	"image"
	"reflect"
	"testing"

	"github.com/gmlewis/stratum-slicer/slicer"
)

func rect(x0, y0, x1, y1 float64) []slicer.Segment {
	return []slicer.Segment{
		{P1: slicer.Vec2{x0, y0}, P2: slicer.Vec2{x1, y0}},
		{P1: slicer.Vec2{x1, y0}, P2: slicer.Vec2{x1, y1}},
		{P1: slicer.Vec2{x1, y1}, P2: slicer.Vec2{x0, y1}},
		{P1: slicer.Vec2{x0, y1}, P2: slicer.Vec2{x0, y0}},
	}
}

// maskOf builds a mask from rows of '#' (lit) and '.' (unlit).
func maskOf(rows ...string) *PixelMask {
	m := NewPixelMask(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				m.Set(x, y)
			}
		}
	}
	return m
}

func TestRasterize(t *testing.T) {
	tests := []struct {
		name string
		segs []slicer.Segment
		g    Grid
		want *PixelMask
	}{
		{
			name: "offset square",
			segs: rect(0, 0, 4, 4),
			g:    Grid{Width: 6, Height: 6, Pitch: 1, Offset: slicer.Vec2{1, 1}},
			want: maskOf(
				"......",
				".####.",
				".####.",
				".####.",
				".####.",
				"......",
			),
		},
		{
			name: "half millimeter pitch",
			segs: rect(0, 0, 1, 1),
			g:    Grid{Width: 3, Height: 3, Pitch: 0.5},
			want: maskOf(
				"##.",
				"##.",
				"...",
			),
		},
		{
			name: "clamped to the screen",
			segs: rect(-2, -2, 10, 10),
			g:    Grid{Width: 4, Height: 3, Pitch: 1},
			want: maskOf(
				"####",
				"####",
				"####",
			),
		},
		{
			name: "rows with odd crossings stay unlit",
			segs: append(rect(0, 0, 4, 4), slicer.Segment{P1: slicer.Vec2{6, 0}, P2: slicer.Vec2{6, 2}}),
			g:    Grid{Width: 8, Height: 4, Pitch: 1},
			want: maskOf(
				"........",
				"........",
				"####....",
				"####....",
			),
		},
		{
			name: "lone segment lights nothing",
			segs: []slicer.Segment{{P1: slicer.Vec2{2, 0}, P2: slicer.Vec2{2, 4}}},
			g:    Grid{Width: 4, Height: 4, Pitch: 1},
			want: NewPixelMask(4, 4),
		},
		{
			name: "nested squares leave a hole",
			segs: append(rect(0, 0, 5, 5), rect(1, 1, 4, 4)...),
			g:    Grid{Width: 5, Height: 5, Pitch: 1},
			want: maskOf(
				"#####",
				"#...#",
				"#...#",
				"#...#",
				"#####",
			),
		},
		{
			name: "no segments",
			g:    Grid{Width: 2, Height: 2, Pitch: 1},
			want: NewPixelMask(2, 2),
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			got := Rasterize(tt.segs, tt.g)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rasterize =\n%v\nwant\n%v", dump(got), dump(tt.want))
			}
			if again := Rasterize(tt.segs, tt.g); !reflect.DeepEqual(again, got) {
				t.Errorf("Rasterize is not repeatable:\n%v\nthen\n%v", dump(got), dump(again))
			}
		})
	}
}

func dump(m *PixelMask) string {
	var s string
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				s += "#"
			} else {
				s += "."
			}
		}
		s += "\n"
	}
	return s
}

func TestRGBA(t *testing.T) {
	m := maskOf("#.")
	want := []byte{0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0xff}
	if got := m.RGBA(); !reflect.DeepEqual(got, want) {
		t.Errorf("RGBA = %v, want %v", got, want)
	}

	img := m.Image()
	if img.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Errorf("Image bounds = %v, want (0,0)-(2,1)", img.Bounds())
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r == 0 {
		t.Error("pixel (0,0) should be lit")
	}
	if r, _, _, _ := img.At(1, 0).RGBA(); r != 0 {
		t.Error("pixel (1,0) should be unlit")
	}
}

func TestCount(t *testing.T) {
	if got := maskOf("#.#", "..#").Count(); got != 3 {
		t.Errorf("Count = %v, want 3", got)
	}
}

func TestIslands(t *testing.T) {
	m := maskOf(
		".................",
		"..##..##..##..##.",
		".########..####..",
		"...####...####...",
		"..####...###..##.",
		".###..##...###...",
		"..##.....##...##.",
		"......####..####.",
		".................",
	)

	got := Islands(m)
	want := []Island{
		{Bounds: image.Rect(1, 1, 9, 7), Pixels: 27},
		{Bounds: image.Rect(6, 1, 16, 8), Pixels: 32},
	}
	if len(got) != len(want) {
		t.Fatalf("Islands got %v islands, want %v: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Bounds != want[i].Bounds || got[i].Pixels != want[i].Pixels {
			t.Errorf("island %v = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUnsupported(t *testing.T) {
	prev := maskOf(
		"##......",
		"##......",
	)
	cur := maskOf(
		".##...##",
		".##...##",
	)

	got := Unsupported(prev, cur)
	if len(got) != 1 {
		t.Fatalf("Unsupported got %v islands, want 1: %v", len(got), got)
	}
	if want := image.Rect(6, 0, 8, 2); got[0].Bounds != want {
		t.Errorf("unsupported island at %v, want %v", got[0].Bounds, want)
	}

	if all := Unsupported(nil, cur); len(all) != 2 {
		t.Errorf("Unsupported(nil) got %v islands, want 2", len(all))
	}
	if none := Unsupported(prev, NewPixelMask(8, 2)); none != nil {
		t.Errorf("Unsupported of an empty mask = %v, want nil", none)
	}
}
