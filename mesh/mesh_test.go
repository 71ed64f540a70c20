package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const unitTriangle = `solid test
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 1
      vertex 0 1 0
    endloop
  endfacet
endsolid test
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantTris   []Triangle
		wantBounds Bounds
	}{
		{
			name: "empty",
		},
		{
			name: "no vertices",
			src:  "solid nothing\nendsolid nothing\n",
		},
		{
			name: "unit triangle",
			src:  unitTriangle,
			wantTris: []Triangle{
				{V1: mgl64.Vec3{0, 0, 0}, V2: mgl64.Vec3{1, 0, 1}, V3: mgl64.Vec3{0, 1, 0}},
			},
			wantBounds: Bounds{Max: mgl64.Vec3{1, 1, 1}},
		},
		{
			name: "degenerate triangle and dangling vertex",
			src:  "vertex 2 2 2\nvertex 2 2 2\nvertex 2 2 2\nvertex -1 5 7\n",
			wantTris: []Triangle{
				{V1: mgl64.Vec3{2, 2, 2}, V2: mgl64.Vec3{2, 2, 2}, V3: mgl64.Vec3{2, 2, 2}},
			},
			wantBounds: Bounds{Min: mgl64.Vec3{2, 2, 2}, Max: mgl64.Vec3{2, 2, 2}},
		},
		{
			name: "exponents and extra tokens",
			src:  "vertex -1e1 0.5 3\n\tvertex 1 2 3 ignored\nvertex 0 0 -2.5E0\n",
			wantTris: []Triangle{
				{V1: mgl64.Vec3{-10, 0.5, 3}, V2: mgl64.Vec3{1, 2, 3}, V3: mgl64.Vec3{0, 0, -2.5}},
			},
			wantBounds: Bounds{Min: mgl64.Vec3{-10, 0, -2.5}, Max: mgl64.Vec3{1, 2, 3}},
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			m, b, err := Load(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(m.Triangles) != len(tt.wantTris) {
				t.Fatalf("Load got %v triangles, want %v", len(m.Triangles), len(tt.wantTris))
			}
			if len(tt.wantTris) > 0 && !reflect.DeepEqual(m.Triangles, tt.wantTris) {
				t.Errorf("Load triangles = %#v, want %#v", m.Triangles, tt.wantTris)
			}
			if b != tt.wantBounds {
				t.Errorf("Load bounds = %v, want %v", b, tt.wantBounds)
			}
		})
	}
}

func TestLoadParseError(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{name: "bad number", src: "vertex 0 0 0\nvertex 1 x 0\nvertex 0 1 0\n", wantLine: 2},
		{name: "too few fields", src: "solid a\n  vertex 1 2\n", wantLine: 2},
		{name: "nan", src: "vertex nan 0 0\nvertex 1 0 0\nvertex 0 1 1\n", wantLine: 1},
		{name: "inf", src: "vertex 0 0 0\nvertex 1 0 0\nvertex 0 1 inf\n", wantLine: 3},
		{name: "negative inf", src: "vertex 0 0 0\nvertex -Inf 0 0\n", wantLine: 2},
		{name: "overflow", src: "vertex 0 0 1e999\n", wantLine: 1},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			_, _, err := Load(strings.NewReader(tt.src))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Load error = %v, want *ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("ParseError.Line = %v, want %v", pe.Line, tt.wantLine)
			}
		})
	}
}

func TestLoadBinaryNotFinite(t *testing.T) {
	tests := []struct {
		name string
		v    float32
	}{
		{name: "nan", v: float32(math.NaN())},
		{name: "inf", v: float32(math.Inf(1))},
		{name: "negative inf", v: float32(math.Inf(-1))},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			var buf bytes.Buffer
			buf.Write(make([]byte, binaryHeaderSize))
			binary.Write(&buf, binary.LittleEndian, uint32(2))
			for _, f := range [][9]float32{
				{0, 0, 0, 1, 0, 0, 0, 1, 0},
				{0, 0, 0, 1, 0, 0, 0, 1, tt.v},
			} {
				binary.Write(&buf, binary.LittleEndian, [3]float32{})
				binary.Write(&buf, binary.LittleEndian, f)
				binary.Write(&buf, binary.LittleEndian, uint16(0))
			}

			_, _, err := Load(&buf)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Load error = %v, want *ParseError", err)
			}
			if pe.Line != 2 {
				t.Errorf("ParseError.Line = %v, want facet 2", pe.Line)
			}
			if !errors.Is(err, errNotFinite) {
				t.Errorf("Load error = %v, want %v", err, errNotFinite)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadFile(filepath.Join(dir, "missing.stl"))
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("LoadFile(missing) error = %v, want *IOError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) error should wrap os.ErrNotExist: %v", err)
	}

	path := filepath.Join(dir, "tri.stl")
	if err := os.WriteFile(path, []byte(unitTriangle), 0644); err != nil {
		t.Fatal(err)
	}
	m, b, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(m.Triangles) != 1 || b.Max != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("LoadFile = %v triangles, bounds %v", len(m.Triangles), b)
	}
}

func TestLoadBinary(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, binaryHeaderSize))
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	facets := [][9]float32{
		{0, 0, 0, 10, 0, 0, 0, 10, 5},
		{-1, -2, -3, 1, 2, 3, 0, 0, 0},
	}
	for _, f := range facets {
		binary.Write(&buf, binary.LittleEndian, [3]float32{}) // normal
		binary.Write(&buf, binary.LittleEndian, f)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}

	m, b, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Triangles) != 2 {
		t.Fatalf("Load got %v triangles, want 2", len(m.Triangles))
	}
	if got, want := m.Triangles[0].V3, (mgl64.Vec3{0, 10, 5}); got != want {
		t.Errorf("V3 = %v, want %v", got, want)
	}
	want := Bounds{Min: mgl64.Vec3{-1, -2, -3}, Max: mgl64.Vec3{10, 10, 5}}
	if b != want {
		t.Errorf("bounds = %v, want %v", b, want)
	}
}

func TestComputeBounds(t *testing.T) {
	if got := ComputeBounds(&Mesh{}); got != (Bounds{}) {
		t.Errorf("empty mesh bounds = %v, want zero box", got)
	}
	if got := ComputeBounds(nil); got != (Bounds{}) {
		t.Errorf("nil mesh bounds = %v, want zero box", got)
	}

	m := &Mesh{Triangles: []Triangle{
		{V1: mgl64.Vec3{5, 5, 5}, V2: mgl64.Vec3{6, 4, 9}, V3: mgl64.Vec3{7, 8, 3}},
		{V1: mgl64.Vec3{-1, 5, 5}, V2: mgl64.Vec3{5, 5, 5}, V3: mgl64.Vec3{5, 5, 5}},
	}}
	b := ComputeBounds(m)
	for axis := 0; axis < 3; axis++ {
		min, max := math.Inf(1), math.Inf(-1)
		for _, tri := range m.Triangles {
			for _, v := range tri.Vertices() {
				min = math.Min(min, v[axis])
				max = math.Max(max, v[axis])
			}
		}
		if b.Min[axis] != min || b.Max[axis] != max {
			t.Errorf("axis %v: bounds [%v,%v], want [%v,%v]", axis, b.Min[axis], b.Max[axis], min, max)
		}
		if b.Min[axis] > b.Max[axis] {
			t.Errorf("axis %v: min %v > max %v", axis, b.Min[axis], b.Max[axis])
		}
	}
}
