// Package pngdir stores LCD layer masks as PNG files in a directory.
package pngdir

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmlewis/stratum-slicer/logger"
)

// DimensionError reports a mask buffer whose size does not match its
// stated dimensions.
type DimensionError struct {
	Width, Height int
	Len           int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("mask %vx%v needs %v bytes, got %v", e.Width, e.Height, e.Width*e.Height*4, e.Len)
}

// CheckDims returns a *DimensionError unless rgba holds exactly
// width*height RGBA pixels.
func CheckDims(width, height int, rgba []byte) error {
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return &DimensionError{Width: width, Height: height, Len: len(rgba)}
	}
	return nil
}

// Image validates rgba and wraps it as an image without copying.
func Image(width, height int, rgba []byte) (*image.RGBA, error) {
	if err := CheckDims(width, height, rgba); err != nil {
		return nil, err
	}
	return &image.RGBA{Pix: rgba, Stride: 4 * width, Rect: image.Rect(0, 0, width, height)}, nil
}

// EncodeFunc writes img to w in some image format.
type EncodeFunc func(w io.Writer, img image.Image) error

// Codec writes each mask to its own file in Dir.
type Codec struct {
	Dir    string
	encode EncodeFunc
	ext    string
}

// New creates dir if needed and returns a PNG codec writing into it.
func New(dir string) (*Codec, error) {
	return NewWithEncoder(dir, "", png.Encode)
}

// NewWithEncoder returns a codec that writes files with encode. When ext
// is not empty it replaces the extension of every mask name.
func NewWithEncoder(dir, ext string, encode EncodeFunc) (*Codec, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("MkdirAll: %w", err)
	}
	return &Codec{Dir: dir, encode: encode, ext: ext}, nil
}

// Encode writes the mask to Dir/name.
func (c *Codec) Encode(name string, width, height int, rgba []byte) error {
	img, err := Image(width, height, rgba)
	if err != nil {
		return err
	}

	if c.ext != "" {
		name = name[:len(name)-len(filepath.Ext(name))] + c.ext
	}
	path := filepath.Join(c.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	if err := c.encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %v: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	logger.Sugar.Debugf("wrote %v", path)
	return nil
}

// MaskName returns the file name of the n-th mask.
func (c *Codec) MaskName(n int) string {
	ext := c.ext
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("layer_%05d%v", n, ext)
}

// MaskFormat returns the image format, e.g. "PNG".
func (c *Codec) MaskFormat() string {
	if c.ext == "" {
		return "PNG"
	}
	return strings.ToUpper(strings.TrimPrefix(c.ext, "."))
}

// Close is a no-op; every mask is complete once Encode returns.
func (c *Codec) Close() error { return nil }
