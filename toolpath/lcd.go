package toolpath

import (
	"go.uber.org/zap"

	"github.com/gmlewis/stratum-slicer/gcode"
	"github.com/gmlewis/stratum-slicer/mesh"
	"github.com/gmlewis/stratum-slicer/raster"
)

type lcd struct {
	p    LCDProfile
	log  *zap.Logger
	grid raster.Grid

	// serial state
	count int
	prev  *raster.PixelMask
}

var _ strategy = &lcd{}

func (s *lcd) title() string { return "**** MSLA Print ****" }

func (s *lcd) lift() (float64, float64) { return s.p.LiftFeedRate, s.p.FinalLift }

func (s *lcd) prepare(m *mesh.Mesh, b mesh.Bounds) mesh.Bounds {
	w, h := s.p.PlateSize()
	scale, b := mesh.Fit(m, b, w, h, s.p.PaddingPercentage)
	s.grid = raster.Grid{
		Width:  s.p.Cols,
		Height: s.p.Rows,
		Pitch:  s.p.Pitch(),
		Offset: mesh.PlateOffset(b, w, h),
	}
	s.log.Info("fit to plate",
		zap.Float64("width", w),
		zap.Float64("height", h),
		zap.Float64("scale", scale),
		zap.Stringer("mbb", b))
	return b
}

func (s *lcd) compute(w *work) {
	w.mask = raster.Rasterize(w.layer.Segments, s.grid)
}

func (s *lcd) body(e *emitter, w *work) error {
	name := MaskName(s.count)
	if n, ok := e.opts.codec.(MaskNamer); ok {
		name = n.MaskName(s.count)
	}
	if err := e.opts.codec.Encode(name, w.mask.Width, w.mask.Height, w.mask.RGBA()); err != nil {
		return &EncodeError{Layer: w.layer.Index, Name: name, Err: err}
	}

	if s.prev != nil {
		for _, is := range raster.Unsupported(s.prev, w.mask) {
			e.opts.log.Warn("unsupported island",
				zap.Int("layer", w.layer.Index),
				zap.Float64("z", w.layer.Z),
				zap.Stringer("island", is))
		}
	}
	e.opts.log.Debug("layer",
		zap.Int("layer", w.layer.Index),
		zap.String("mask", name),
		zap.Int("segments", len(w.layer.Segments)),
		zap.Int("pixels", w.mask.Count()))

	exposure := s.p.NormalExposure
	if s.count < s.p.BottomLayers {
		exposure = s.p.BottomExposure
	}
	s.prev = w.mask
	s.count++

	if err := e.emit(gcode.New("G1", gcode.Num('Z', w.layer.Z), gcode.Num('F', s.p.LiftFeedRate))); err != nil {
		return err
	}
	return e.emit(gcode.New("M6054",
		gcode.Str('F', name),
		gcode.Num('P', exposure),
		gcode.Num('S', float64(s.p.Intensity))))
}

func (s *lcd) trailer(e *emitter) error {
	format := "PNG"
	if f, ok := e.opts.codec.(MaskFormatter); ok {
		format = f.MaskFormat()
	}
	return e.emit(gcode.Comment(format + " layers stored in " + e.opts.dir))
}
