package toolpath

import (
	"go.uber.org/zap"

	"github.com/gmlewis/stratum-slicer/contour"
	"github.com/gmlewis/stratum-slicer/gcode"
	"github.com/gmlewis/stratum-slicer/hatch"
	"github.com/gmlewis/stratum-slicer/mesh"
)

type sla struct {
	p SLAProfile
}

var _ strategy = &sla{}

func (s *sla) title() string { return "**** SLA Print ****" }

func (s *sla) lift() (float64, float64) { return s.p.LiftFeedRate, s.p.FinalLift }

func (s *sla) prepare(m *mesh.Mesh, b mesh.Bounds) mesh.Bounds { return b }

// compute stitches the outlines and hatches the raw segments, which keeps
// the fill independent of how well the outlines close.
func (s *sla) compute(w *work) {
	w.polys = contour.Stitch(w.layer.Segments)
	w.lines = hatch.Generate(w.layer.Segments, 2*s.p.SpotRadius)
}

func (s *sla) body(e *emitter, w *work) error {
	var open int
	for _, p := range w.polys {
		if !p.Closed {
			open++
		}
	}
	e.opts.log.Debug("layer",
		zap.Int("layer", w.layer.Index),
		zap.Float64("z", w.layer.Z),
		zap.Int("polygons", len(w.polys)),
		zap.Int("open", open),
		zap.Int("hatch", len(w.lines)))

	prog := []gcode.Instruction{
		gcode.New("G1", gcode.Num('Z', w.layer.Z), gcode.Num('F', s.p.LiftFeedRate)),
		gcode.New("M3", gcode.Num('S', s.p.LaserPower)),
	}
	cut := func(x, y float64) gcode.Instruction {
		return gcode.New("G1", gcode.Num('X', x), gcode.Num('Y', y), gcode.Num('F', s.p.FeedRate))
	}
	travel := func(x, y float64) gcode.Instruction {
		return gcode.New("G0", gcode.Num('X', x), gcode.Num('Y', y))
	}

	for _, p := range w.polys {
		first := p.Points[0]
		prog = append(prog, travel(first.X(), first.Y()))
		for _, pt := range p.Points[1:] {
			prog = append(prog, cut(pt.X(), pt.Y()))
		}
		if p.Closed {
			prog = append(prog, cut(first.X(), first.Y()))
		}
	}
	for _, l := range w.lines {
		prog = append(prog, travel(l.From.X(), l.From.Y()), cut(l.To.X(), l.To.Y()))
	}
	if s.p.Dwell > 0 {
		prog = append(prog, gcode.New("G4", gcode.Num('P', s.p.Dwell)))
	}
	prog = append(prog, gcode.New("M5"))

	for _, in := range prog {
		if err := e.emit(in); err != nil {
			return err
		}
	}
	return nil
}

func (s *sla) trailer(e *emitter) error { return nil }
