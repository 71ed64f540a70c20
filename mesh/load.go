package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gmlewis/stratum-slicer/logger"
)

const (
	binaryHeaderSize = 80
	binaryFacetSize  = 50 // normal + 3 vertices (12 float32) + attribute count
)

// LoadFile reads a mesh from the named STL file.
func LoadFile(path string) (*Mesh, Bounds, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Bounds{}, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	m, b, err := Load(f)
	var ioErr *IOError
	if errors.As(err, &ioErr) && ioErr.Path == "" {
		ioErr.Path = path
	}
	return m, b, err
}

// Load reads a mesh and computes its bounds.
//
// Text input is parsed line by line: every line whose first token is
// "vertex" contributes one vertex and each run of three vertices forms a
// triangle. All other lines are ignored. Binary STL input is recognized
// by its exact size.
func Load(r io.Reader) (*Mesh, Bounds, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Bounds{}, &IOError{Op: "read", Err: err}
	}

	var m *Mesh
	if isBinarySTL(data) {
		m, err = loadBinary(data)
	} else {
		m, err = loadASCII(data)
	}
	if err != nil {
		return nil, Bounds{}, err
	}

	b := ComputeBounds(m)
	logger.Sugar.Infof("loaded %v triangles, MBB=%v", len(m.Triangles), b)
	return m, b, nil
}

// isBinarySTL reports whether data is exactly a binary STL file:
// an 80-byte header, a facet count, then that many 50-byte facets.
func isBinarySTL(data []byte) bool {
	if len(data) < binaryHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[binaryHeaderSize:])
	return uint64(len(data)) == binaryHeaderSize+4+uint64(count)*binaryFacetSize
}

func loadBinary(data []byte) (*Mesh, error) {
	count := int(binary.LittleEndian.Uint32(data[binaryHeaderSize:]))
	m := &Mesh{Triangles: make([]Triangle, 0, count)}

	vertex := func(buf []byte) mgl64.Vec3 {
		var v mgl64.Vec3
		for c := range v {
			v[c] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[4*c:])))
		}
		return v
	}

	for i := 0; i < count; i++ {
		const skipNormal = 12
		facet := data[binaryHeaderSize+4+i*binaryFacetSize:]
		t := Triangle{
			V1: vertex(facet[skipNormal:]),
			V2: vertex(facet[skipNormal+12:]),
			V3: vertex(facet[skipNormal+24:]),
		}
		for _, v := range t.Vertices() {
			if !finite(v) {
				return nil, &ParseError{Line: i + 1, Text: fmt.Sprintf("facet %v", i), Err: errNotFinite}
			}
		}
		m.Triangles = append(m.Triangles, t)
	}
	return m, nil
}

func loadASCII(data []byte) (*Mesh, error) {
	m := &Mesh{}
	var pending []mgl64.Vec3

	s := bufio.NewScanner(bytes.NewReader(data))
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for s.Scan() {
		lineNum++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}

		v, err := parseVertex(fields[1:])
		if err != nil {
			return nil, &ParseError{Line: lineNum, Text: strings.TrimSpace(s.Text()), Err: err}
		}

		pending = append(pending, v)
		if len(pending) == 3 {
			m.Triangles = append(m.Triangles, Triangle{V1: pending[0], V2: pending[1], V3: pending[2]})
			pending = pending[:0]
		}
	}
	if err := s.Err(); err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}

	if len(pending) > 0 {
		logger.Sugar.Warnf("ignoring %v dangling vertices after %v triangles", len(pending), len(m.Triangles))
	}
	return m, nil
}

var (
	errVertexFields = errors.New("want 3 coordinates")
	errNotFinite    = errors.New("coordinate is not finite")
)

func finite(v mgl64.Vec3) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func parseVertex(fields []string) (mgl64.Vec3, error) {
	var v mgl64.Vec3
	if len(fields) < 3 {
		return v, errVertexFields
	}
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v, errNotFinite
		}
		v[i] = f
	}
	return v, nil
}
