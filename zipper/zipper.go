// Package zipper stores LCD layer masks as PNG images inside a single ZIP
// file, optionally laid out as an SVX voxel volume.
package zipper

import (
	"archive/zip"
	"fmt"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/gmlewis/stratum-slicer/logger"
	"github.com/gmlewis/stratum-slicer/pngdir"
)

// Codec writes masks as entries of a ZIP archive.
type Codec struct {
	f io.Closer
	w *zip.Writer

	// svx is non-nil when writing an SVX volume.
	svx *svx

	layers        int
	width, height int
}

// New creates the ZIP file at path.
func New(path string) (*Codec, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return newCodec(f, f), nil
}

func newCodec(w io.Writer, c io.Closer) *Codec {
	return &Codec{f: c, w: zip.NewWriter(w)}
}

// Encode adds the mask as a PNG entry.
func (c *Codec) Encode(name string, width, height int, rgba []byte) error {
	img, err := pngdir.Image(width, height, rgba)
	if err != nil {
		return err
	}
	if c.layers > 0 && (width != c.width || height != c.height) {
		return &pngdir.DimensionError{Width: width, Height: height, Len: len(rgba)}
	}
	c.width, c.height = width, height

	if c.svx != nil {
		name = fmt.Sprintf(svxSliceFmt, c.layers)
	}
	fh := &zip.FileHeader{
		Name:     name,
		Comment:  fmt.Sprintf("layer=%v", c.layers),
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	f, err := c.w.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("Unable to create ZIP file %q: %w", name, err)
	}
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("PNG encode: %w", err)
	}
	c.layers++
	return nil
}

// MaskName returns the entry name of the n-th mask.
func (c *Codec) MaskName(n int) string {
	if c.svx != nil {
		return fmt.Sprintf(svxSliceFmt, n)
	}
	return fmt.Sprintf("layer_%05d.png", n)
}

// MaskFormat returns "SVX" for SVX volumes and "PNG" otherwise.
func (c *Codec) MaskFormat() string {
	if c.svx != nil {
		return "SVX"
	}
	return "PNG"
}

// Layers returns the number of masks written so far.
func (c *Codec) Layers() int { return c.layers }

// Close finishes the archive and closes the file.
func (c *Codec) Close() error {
	if c.svx != nil {
		if err := c.writeManifest(); err != nil {
			return err
		}
	}
	if err := c.w.Close(); err != nil {
		return fmt.Errorf("Unable to close ZIP writer: %w", err)
	}
	if err := c.f.Close(); err != nil {
		return fmt.Errorf("Unable to close ZIP file: %w", err)
	}
	logger.Sugar.Infof("wrote %v layers to ZIP", c.layers)
	return nil
}
