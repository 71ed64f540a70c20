// Package stl writes meshes as binary STL files.
//
// Triangles are handed to a background goroutine that streams them to
// disk; the facet count in the header is patched when the writer closes.
package stl

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gmlewis/stratum-slicer/mesh"
)

const (
	headerSize = 80
	bufSize    = 10000
)

// Writer is a streaming binary STL file writer.
type Writer struct {
	wg sync.WaitGroup // ensures file is closed
	ch chan Tri

	mu  sync.RWMutex
	err error
}

// Tri is one binary STL facet.
type Tri struct {
	// Normal plus three vertex triplets: [3]float{x,y,z}
	N, V1, V2, V3 [3]float32
	_             uint16 // unused attribute byte count
}

// FromTriangle converts a mesh triangle, computing its unit normal from
// the vertex winding. Degenerate triangles get a zero normal.
func FromTriangle(t *mesh.Triangle) Tri {
	f32 := func(v mgl64.Vec3) [3]float32 {
		return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
	}
	n := t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1))
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	return Tri{N: f32(n), V1: f32(t.V1), V2: f32(t.V2), V3: f32(t.V3)}
}

// New creates filename and starts a streaming writer on it.
func New(filename string) (*Writer, error) {
	out, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	// Write header
	header := struct {
		_ [headerSize]uint8
		_ uint32 // count will be overwritten on channel close.
	}{}
	if err := binary.Write(out, binary.LittleEndian, &header); err != nil {
		out.Close()
		return nil, fmt.Errorf("error writing header: %w", err)
	}

	w := &Writer{ch: make(chan Tri, bufSize)}
	w.start(out)
	return w, nil
}

// WriteMesh writes every triangle of m to filename.
func WriteMesh(filename string, m *mesh.Mesh) error {
	w, err := New(filename)
	if err != nil {
		return err
	}
	for i := range m.Triangles {
		t := FromTriangle(&m.Triangles[i])
		if err := w.Write(&t); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func (w *Writer) start(out writeSeekCloser) {
	w.wg.Add(1)
	go func() {
		err := writer(out, w.ch)
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
		w.wg.Done()
	}()
}

// Write queues a triangle. It reports an earlier write failure, if any.
func (w *Writer) Write(t *Tri) error {
	w.ch <- *t
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.err
}

// Close finalizes the STL file.
func (w *Writer) Close() error {
	close(w.ch)
	w.wg.Wait()
	return w.err
}

type writeSeekCloser interface {
	io.Writer
	io.Seeker
	io.Closer
}

func writer(out writeSeekCloser, ch <-chan Tri) error {
	var count uint32
	var err error
	for t := range ch {
		if err != nil {
			continue // drain so Write never blocks
		}
		if e := binary.Write(out, binary.LittleEndian, &t); e != nil {
			err = fmt.Errorf("write triangle %v: %w", count, e)
			continue
		}
		count++
	}
	if err != nil {
		out.Close()
		return err
	}

	if _, err := out.Seek(headerSize, io.SeekStart); err != nil {
		out.Close()
		return fmt.Errorf("seek: %w", err)
	}
	if err := binary.Write(out, binary.LittleEndian, &count); err != nil {
		out.Close()
		return fmt.Errorf("write count %v: %w", count, err)
	}
	return out.Close()
}
