// stratum-slicer slices one or more STL models into a G-code program for
// a masked LCD resin printer or a vector laser (SLA) printer.
//
// LCD jobs also write one mask image per exposed layer, either as
// individual PNG or BMP files or packed into a single ZIP, SVX, .cbddlp
// or binvox file.
//
// Settings come from the built-in defaults, then an optional YAML job
// file (-config), then command-line flags.
package main

import (
	"flag"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/gmlewis/stratum-slicer/binvox"
	"github.com/gmlewis/stratum-slicer/bmpdir"
	"github.com/gmlewis/stratum-slicer/config"
	"github.com/gmlewis/stratum-slicer/gcode"
	"github.com/gmlewis/stratum-slicer/logger"
	"github.com/gmlewis/stratum-slicer/mesh"
	"github.com/gmlewis/stratum-slicer/photon"
	"github.com/gmlewis/stratum-slicer/pngdir"
	"github.com/gmlewis/stratum-slicer/slicer"
	"github.com/gmlewis/stratum-slicer/stl"
	"github.com/gmlewis/stratum-slicer/toolpath"
	"github.com/gmlewis/stratum-slicer/zipper"
)

var (
	flags      = config.RegisterFlags(flag.CommandLine)
	saveConfig = flag.String("save-config", "", "Write the effective settings to this YAML file and exit")
)

// maskCodec is a toolpath.MaskCodec that must be closed to finish its
// artifact.
type maskCodec interface {
	toolpath.MaskCodec
	io.Closer
}

func main() {
	flag.Parse()

	check("logger.Init: %v", logger.Init("info", ""))
	cfg, err := config.Load(flags)
	check("config.Load: %v", err)
	check("logger.Init: %v", logger.Init(cfg.Logging.Level, cfg.Logging.LogFile))
	defer logger.Sync()

	if *saveConfig != "" {
		check("SaveTo: %v", cfg.SaveTo(*saveConfig))
		logger.Sugar.Infof("Settings written to %v", *saveConfig)
		return
	}

	if flag.NArg() == 0 {
		logger.Sugar.Infof("No STL files supplied. Nothing to do.")
	}

	check("MkdirAll: %v", os.MkdirAll(cfg.Output.Dir, 0755))

	for _, arg := range flag.Args() {
		if !strings.HasSuffix(strings.ToLower(arg), ".stl") {
			logger.Sugar.Infof("Skipping non-STL file %q", arg)
			continue
		}

		logger.Sugar.Infof("Processing model %q...", arg)
		m, b, err := mesh.LoadFile(arg)
		check("%v: %v", arg, err)

		baseName := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		err = process(cfg, baseName, m, b)
		check("%v: %v", arg, err)
	}

	logger.Sugar.Info("Done.")
}

// process writes the program for one model, and its masks for LCD jobs.
func process(cfg *config.Config, baseName string, m *mesh.Mesh, b mesh.Bounds) error {
	p, err := cfg.Profile()
	if err != nil {
		return err
	}

	opts := []toolpath.Option{
		toolpath.WithWorkers(cfg.Workers),
		toolpath.WithLogger(logger.Log.With(zap.String("model", baseName))),
	}

	var codec maskCodec
	if lp, ok := p.(toolpath.LCDProfile); ok {
		// Fit here so that codecs that record placement see the final
		// bounds. Emit finds the mesh already fits and leaves it alone.
		w, h := lp.PlateSize()
		_, b = mesh.Fit(m, b, w, h, lp.PaddingPercentage)

		var dir string
		codec, dir, err = newCodec(cfg, baseName, lp, b)
		if err != nil {
			return err
		}
		opts = append(opts, toolpath.WithMaskCodec(codec), toolpath.WithArtifactDir(dir))
	}

	progPath := filepath.Join(cfg.Output.Dir, baseName+".gcode")
	lines, err := writeProgram(progPath, toolpath.Emit(m, p, opts...))
	if codec != nil {
		if cerr := codec.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing masks: %w", cerr)
		}
	}
	if err != nil {
		return err
	}
	logger.Sugar.Infof("Wrote %v lines to %v", lines, progPath)

	if cfg.Output.WriteFittedSTL {
		stlPath := filepath.Join(cfg.Output.Dir, baseName+"-fitted.stl")
		if err := stl.WriteMesh(stlPath, m); err != nil {
			return err
		}
		logger.Sugar.Infof("Wrote fitted model to %v", stlPath)
	}
	return nil
}

// writeProgram streams prog to a temporary file and renames it to path
// only when every instruction was written.
func writeProgram(path string, prog iter.Seq2[gcode.Instruction, error]) (int, error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("Create: %w", err)
	}

	fail := func(err error) (int, error) {
		f.Close()
		os.Remove(tmp)
		return 0, err
	}

	w := gcode.NewWriter(f)
	for in, err := range prog {
		if err != nil {
			return fail(err)
		}
		if err := w.Write(in); err != nil {
			return fail(err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("Close: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("Rename: %w", err)
	}
	return w.Lines(), nil
}

// newCodec opens the configured mask store and returns it with the
// location named in the program trailer.
func newCodec(cfg *config.Config, baseName string, p toolpath.LCDProfile, b mesh.Bounds) (maskCodec, string, error) {
	base := filepath.Join(cfg.Output.Dir, baseName)
	switch cfg.Output.Masks {
	case config.MasksPNG:
		c, err := pngdir.New(base)
		return c, base, err
	case config.MasksBMP:
		c, err := bmpdir.New(base)
		return c, base, err
	case config.MasksZip:
		c, err := zipper.New(base + ".zip")
		return c, base + ".zip", err
	case config.MasksSVX:
		c, err := zipper.NewSVX(base+".svx", p.Pitch(), "stratum-slicer")
		return c, base + ".svx", err
	case config.MasksPhoton:
		w, h := p.PlateSize()
		c := photon.New(base+".cbddlp", photon.Settings{
			PlateX:             float32(w),
			PlateY:             float32(h),
			PlateZ:             float32(b.Max.Z()),
			LayerHeight:        float32(p.LayerHeight),
			NormalExposureTime: float32(p.NormalExposure),
			BottomExposureTime: float32(p.BottomExposure),
			BottomLayers:       uint32(p.BottomLayers),
		})
		return c, base + ".cbddlp", nil
	case config.MasksBinvox:
		w, h := p.PlateSize()
		off := mesh.PlateOffset(b, w, h)
		var z0 float64
		if heights := slicer.Heights(b, p.LayerHeight); len(heights) > 0 {
			z0 = heights[0]
		}
		c := binvox.New(base+".binvox", binvox.Settings{
			Origin:      [3]float64{-off.X(), -off.Y(), z0},
			Pitch:       p.Pitch(),
			LayerHeight: p.LayerHeight,
		})
		return c, base + ".binvox", nil
	}
	return nil, "", fmt.Errorf("unknown mask format %q", cfg.Output.Masks)
}

func check(fmtStr string, args ...interface{}) {
	err := args[len(args)-1]
	if err != nil {
		logger.Sugar.Fatalf(fmtStr, args...)
	}
}
