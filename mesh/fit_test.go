package mesh

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tolerance = 1e-9

func square(x0, y0, size, z float64) *Mesh {
	return &Mesh{Triangles: []Triangle{
		{V1: mgl64.Vec3{x0, y0, 0}, V2: mgl64.Vec3{x0 + size, y0, 0}, V3: mgl64.Vec3{x0 + size, y0 + size, z}},
		{V1: mgl64.Vec3{x0, y0, 0}, V2: mgl64.Vec3{x0 + size, y0 + size, z}, V3: mgl64.Vec3{x0, y0 + size, z}},
	}}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name    string
		b       Bounds
		w, h    float64
		padding float64
		want    float64
	}{
		{
			name:    "width 100 into 50 with 10% padding",
			b:       Bounds{Max: mgl64.Vec3{100, 100, 10}},
			w:       50,
			h:       50,
			padding: 10,
			want:    0.4,
		},
		{
			name: "limited by height",
			b:    Bounds{Max: mgl64.Vec3{10, 40, 1}},
			w:    100,
			h:    20,
			want: 0.5,
		},
		{
			name: "grows small models",
			b:    Bounds{Min: mgl64.Vec3{-1, -1, 0}, Max: mgl64.Vec3{1, 1, 1}},
			w:    8,
			h:    8,
			want: 4,
		},
		{
			name: "zero width model",
			b:    Bounds{Max: mgl64.Vec3{0, 10, 10}},
			w:    50,
			h:    50,
			want: 1,
		},
		{
			name: "zero height model",
			b:    Bounds{Max: mgl64.Vec3{10, 0, 10}},
			w:    50,
			h:    50,
			want: 1,
		},
		{
			name:    "padding consumes the plate",
			b:       Bounds{Max: mgl64.Vec3{10, 10, 10}},
			w:       50,
			h:       50,
			padding: 50,
			want:    1,
		},
		{
			name: "empty mesh",
			w:    50,
			h:    50,
			want: 1,
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			got := FitScale(tt.b, tt.w, tt.h, tt.padding)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("FitScale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFit(t *testing.T) {
	m := square(0, 0, 100, 7)
	b := ComputeBounds(m)

	scale, nb := Fit(m, b, 50, 50, 10)
	if math.Abs(scale-0.4) > tolerance {
		t.Errorf("scale = %v, want 0.4", scale)
	}
	if w := nb.Size().X(); math.Abs(w-40) > tolerance {
		t.Errorf("new width = %v, want 40", w)
	}
	if h := nb.Size().Y(); math.Abs(h-40) > tolerance {
		t.Errorf("new height = %v, want 40", h)
	}
	if c := nb.Center(); math.Abs(c.X()-50) > tolerance || math.Abs(c.Y()-50) > tolerance {
		t.Errorf("center moved to %v, want (50,50)", c)
	}
	if nb.Min.Z() != 0 || nb.Max.Z() != 7 {
		t.Errorf("Z range = [%v,%v], want [0,7]", nb.Min.Z(), nb.Max.Z())
	}
	if nb != ComputeBounds(m) {
		t.Errorf("returned bounds %v do not match mesh bounds %v", nb, ComputeBounds(m))
	}
}

func TestFitNoOp(t *testing.T) {
	m := square(0, 0, 10, 1)
	b := ComputeBounds(m)
	before := append([]Triangle(nil), m.Triangles...)

	scale, nb := Fit(m, b, 0, 0, 0)
	if scale != 1 {
		t.Errorf("scale = %v, want 1", scale)
	}
	if nb != b {
		t.Errorf("bounds changed from %v to %v", b, nb)
	}
	for i := range before {
		if m.Triangles[i] != before[i] {
			t.Errorf("triangle %v changed from %v to %v", i, before[i], m.Triangles[i])
		}
	}
}

func TestPlateOffset(t *testing.T) {
	b := Bounds{Min: mgl64.Vec3{10, 20, 0}, Max: mgl64.Vec3{30, 40, 5}}
	got := PlateOffset(b, 100, 60)
	want := mgl64.Vec2{30, 0}
	if got != want {
		t.Errorf("PlateOffset = %v, want %v", got, want)
	}
}
