// Package binvox stacks LCD layer masks into a binvox voxel model, which
// lets the exposed volume be inspected in a voxel viewer.
package binvox

import (
	"fmt"
	"math"

	"github.com/gmlewis/stldice/v4/binvox"

	"github.com/gmlewis/stratum-slicer/logger"
	"github.com/gmlewis/stratum-slicer/pngdir"
)

// Settings place the voxel grid in model space.
type Settings struct {
	// Origin is the model-space position of voxel (0,0,0) in millimeters.
	Origin [3]float64
	// Pitch is the pixel size and LayerHeight the voxel depth, in millimeters.
	Pitch       float64
	LayerHeight float64
}

// Codec collects the lit pixels of every layer and writes the volume on
// Close.
type Codec struct {
	path     string
	settings Settings

	width, height int
	// voxels holds the lit pixel indexes (y*width+x) of each layer.
	voxels [][]int
}

// New returns a codec that writes path on Close.
func New(path string, settings Settings) *Codec {
	return &Codec{path: path, settings: settings}
}

// MaskFormat names the volume in the program trailer.
func (c *Codec) MaskFormat() string { return "binvox" }

// Encode records one layer. All layers must share dimensions.
func (c *Codec) Encode(name string, width, height int, rgba []byte) error {
	if err := pngdir.CheckDims(width, height, rgba); err != nil {
		return err
	}
	if len(c.voxels) == 0 {
		c.width, c.height = width, height
	} else if width != c.width || height != c.height {
		return &pngdir.DimensionError{Width: width, Height: height, Len: len(rgba)}
	}

	var lit []int
	for i := 0; i < width*height; i++ {
		if rgba[4*i] != 0 {
			lit = append(lit, i)
		}
	}
	c.voxels = append(c.voxels, lit)
	return nil
}

// Volume returns the voxel model built from the layers so far.
func (c *Codec) Volume() *binvox.BinVOX {
	s := c.settings
	nz := len(c.voxels)
	scale := math.Max(float64(c.width)*s.Pitch, float64(c.height)*s.Pitch)
	scale = math.Max(scale, float64(nz)*s.LayerHeight)

	b := binvox.New(c.width, c.height, nz, s.Origin[0], s.Origin[1], s.Origin[2], scale, false)
	for z, lit := range c.voxels {
		for _, i := range lit {
			b.Add(i%c.width, i/c.width, z)
		}
	}
	return b
}

// Close writes the volume.
func (c *Codec) Close() error {
	if len(c.voxels) == 0 {
		return fmt.Errorf("binvox %v: no layers", c.path)
	}
	b := c.Volume()
	logger.Sugar.Infof("Writing: %v", c.path)
	if err := b.Write(c.path, 0, 0, 0, b.NX, b.NY, b.NZ); err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	return nil
}
