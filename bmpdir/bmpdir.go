// Package bmpdir stores LCD layer masks as BMP files in a directory, the
// format some older mask printers read from USB sticks.
package bmpdir

import (
	"golang.org/x/image/bmp"

	"github.com/gmlewis/stratum-slicer/pngdir"
)

// New creates dir if needed and returns a codec writing name.bmp files.
func New(dir string) (*pngdir.Codec, error) {
	return pngdir.NewWithEncoder(dir, ".bmp", bmp.Encode)
}
