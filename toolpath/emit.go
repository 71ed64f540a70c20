// Package toolpath turns a mesh into a printer program for either an LCD
// mask printer or a vector laser printer.
package toolpath

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gmlewis/stratum-slicer/contour"
	"github.com/gmlewis/stratum-slicer/gcode"
	"github.com/gmlewis/stratum-slicer/hatch"
	"github.com/gmlewis/stratum-slicer/logger"
	"github.com/gmlewis/stratum-slicer/mesh"
	"github.com/gmlewis/stratum-slicer/raster"
	"github.com/gmlewis/stratum-slicer/slicer"
)

// MaskCodec persists one LCD layer image. rgba holds width*height*4
// bytes; a codec rejects any other size.
type MaskCodec interface {
	Encode(name string, width, height int, rgba []byte) error
}

// MaskName returns the default artifact name of the n-th exposed layer.
func MaskName(n int) string { return fmt.Sprintf("layer_%05d.png", n) }

// MaskNamer is implemented by codecs that store masks under names of
// their own. The program references the name it returns.
type MaskNamer interface {
	MaskName(n int) string
}

// MaskFormatter is implemented by codecs that store masks as something
// other than PNG. The format is named in the program trailer.
type MaskFormatter interface {
	MaskFormat() string
}

// Option configures Emit.
type Option func(*options)

type options struct {
	codec   MaskCodec
	dir     string
	workers int
	log     *zap.Logger
}

// WithMaskCodec sets the codec that stores LCD layer masks. It is
// required for LCD profiles.
func WithMaskCodec(c MaskCodec) Option {
	return func(o *options) { o.codec = c }
}

// WithArtifactDir names the mask location in the program trailer.
func WithArtifactDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithWorkers computes up to n layers concurrently. Output order is
// unchanged.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithLogger sets the logger. The default is the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// errStopped signals that the consumer stopped pulling instructions.
var errStopped = errors.New("stopped")

// Emit returns the program for m as a lazy single-pass sequence.
//
// Nothing happens until the first pull. An invalid profile yields a
// *ConfigError before any instruction; a codec failure yields an
// *EncodeError. After an error the sequence ends. The LCD strategy scales
// and centers m in place to fit the screen.
func Emit(m *mesh.Mesh, p Profile, opts ...Option) iter.Seq2[gcode.Instruction, error] {
	o := options{workers: 1, log: logger.Log}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	return func(yield func(gcode.Instruction, error) bool) {
		e := &emitter{mesh: m, opts: o, yield: yield}
		err := e.run(p)
		if err != nil && err != errStopped {
			yield(gcode.Instruction{}, err)
		}
	}
}

// strategy is the per-printer part of the layer loop.
type strategy interface {
	title() string
	// prepare may transform the mesh and returns the bounds to slice.
	prepare(m *mesh.Mesh, b mesh.Bounds) mesh.Bounds
	// compute does the pure per-layer work; it runs concurrently.
	compute(w *work)
	// body emits one non-empty layer, in order.
	body(e *emitter, w *work) error
	trailer(e *emitter) error
	lift() (feed, dist float64)
}

// work is one layer in flight.
type work struct {
	layer slicer.Layer
	mask  *raster.PixelMask
	polys []contour.Polygon
	lines []hatch.Line
}

type emitter struct {
	mesh  *mesh.Mesh
	opts  options
	yield func(gcode.Instruction, error) bool
}

func (e *emitter) emit(in gcode.Instruction) error {
	if !e.yield(in, nil) {
		return errStopped
	}
	return nil
}

func (e *emitter) run(p Profile) error {
	var s strategy
	switch p := p.(type) {
	case LCDProfile:
		if err := p.validate(); err != nil {
			return err
		}
		if e.opts.codec == nil {
			return &ConfigError{Field: "MaskCodec", Msg: "required for LCD printing"}
		}
		s = &lcd{p: p, log: e.opts.log}
	case SLAProfile:
		if err := p.validate(); err != nil {
			return err
		}
		s = &sla{p: p}
	default:
		return &ConfigError{Field: "Profile", Value: fmt.Sprintf("%T", p), Msg: "unsupported"}
	}

	if e.mesh == nil {
		e.mesh = &mesh.Mesh{}
	}
	b := s.prepare(e.mesh, mesh.ComputeBounds(e.mesh))
	heights := slicer.Heights(b, p.layerThickness())
	e.opts.log.Info("slicing",
		zap.Int("triangles", len(e.mesh.Triangles)),
		zap.Stringer("mbb", b),
		zap.Int("layers", len(heights)),
		zap.Int("workers", e.opts.workers))

	for _, in := range []gcode.Instruction{
		gcode.Comment(s.title()),
		gcode.New("G90"),
		gcode.New("G21"),
		gcode.New("G28"),
	} {
		if err := e.emit(in); err != nil {
			return err
		}
	}

	var exposed int
	for start := 0; start < len(heights); start += e.opts.workers {
		end := min(start+e.opts.workers, len(heights))
		window := make([]work, end-start)
		var g errgroup.Group
		for i := range window {
			w := &window[i]
			w.layer = slicer.Layer{Index: start + i, Z: heights[start+i]}
			g.Go(func() error {
				w.layer.Segments = slicer.Slice(e.mesh, w.layer.Z)
				if !w.layer.Empty() {
					s.compute(w)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i := range window {
			w := &window[i]
			if w.layer.Empty() {
				e.opts.log.Debug("empty layer", zap.Int("layer", w.layer.Index), zap.Float64("z", w.layer.Z))
				continue
			}
			if err := s.body(e, w); err != nil {
				return err
			}
			exposed++
		}
	}

	feed, dist := s.lift()
	if needsLift(dist) {
		if err := e.emit(gcode.New("G1", gcode.Num('Z', b.Max.Z()+dist), gcode.Num('F', feed))); err != nil {
			return err
		}
	}
	if err := e.emit(gcode.New("M30")); err != nil {
		return err
	}
	if err := s.trailer(e); err != nil {
		return err
	}
	e.opts.log.Info("done", zap.Int("layers", len(heights)), zap.Int("exposed", exposed))
	return nil
}
