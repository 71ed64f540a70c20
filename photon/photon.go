// Package photon stores LCD layer masks in a ChiTuBox .cbddlp file (which
// is identical to an AnyCubic .photon file).
//
// This is based on: github.com/Andoryuuta/photon
// Layers are run-length encoded as they arrive; the file is laid out and
// written on Close once the layer count is known.
package photon

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/gmlewis/stratum-slicer/logger"
	"github.com/gmlewis/stratum-slicer/pngdir"
)

// Settings are the print parameters recorded in the file header.
type Settings struct {
	// PlateX, PlateY and PlateZ are the build volume in millimeters.
	PlateX, PlateY, PlateZ float32
	// LayerHeight is in millimeters.
	LayerHeight        float32
	NormalExposureTime float32
	BottomExposureTime float32
	OffTime            float32
	BottomLayers       uint32
}

// Codec collects encoded layers for a .cbddlp file.
type Codec struct {
	path     string
	settings Settings

	width, height int
	preview       *image.RGBA
	layers        [][]byte
}

// New returns a codec that writes path on Close.
func New(path string, settings Settings) *Codec {
	return &Codec{path: path, settings: settings}
}

// MaskFormat names the container in the program trailer.
func (c *Codec) MaskFormat() string { return "CBDDLP" }

// Encode run-length encodes one mask. All masks must share dimensions.
func (c *Codec) Encode(name string, width, height int, rgba []byte) error {
	img, err := pngdir.Image(width, height, rgba)
	if err != nil {
		return err
	}
	if len(c.layers) == 0 {
		c.width, c.height = width, height
		c.preview = image.NewRGBA(img.Rect)
		copy(c.preview.Pix, img.Pix)
	} else if width != c.width || height != c.height {
		return &pngdir.DimensionError{Width: width, Height: height, Len: len(rgba)}
	}

	layer := encodeLayerImageData(img)
	logger.Sugar.Debugf("%v is %v bytes", name, len(layer))
	c.layers = append(c.layers, layer)
	return nil
}

// Close writes the file.
func (c *Codec) Close() error {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := c.writeTo(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("Unable to close file: %w", err)
	}
	logger.Sugar.Infof("wrote %v layers to %v", len(c.layers), c.path)
	return nil
}

func (c *Codec) writeTo(w io.Writer) error {
	preview := c.preview
	if preview == nil {
		preview = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	previewData := encodePreview(previewWidth, previewHeight, preview)
	thumbnailData := encodePreview(thumbnailWidth, thumbnailHeight, preview)

	pos := binary.Size(binCompatFileHeader{})

	previewHeaderOffset := pos
	pos += binary.Size(binCompatPreviewHeader{})
	previewDataOffset := pos
	pos += len(previewData)

	thumbnailHeaderOffset := pos
	pos += binary.Size(binCompatPreviewHeader{})
	thumbnailDataOffset := pos
	pos += len(thumbnailData)

	layerHeadersOffset := pos
	pos += len(c.layers) * binary.Size(binCompatLayerHeader{})

	s := c.settings
	header := binCompatFileHeader{
		Magic1:                       0x12FD0019,
		Magic2:                       0x01,
		PlateX:                       s.PlateX,
		PlateY:                       s.PlateY,
		PlateZ:                       s.PlateZ,
		LayerThickness:               s.LayerHeight,
		NormalExposureTime:           s.NormalExposureTime,
		BottomExposureTime:           s.BottomExposureTime,
		OffTime:                      s.OffTime,
		BottomLayers:                 s.BottomLayers,
		ScreenHeight:                 uint32(c.height),
		ScreenWidth:                  uint32(c.width),
		PreviewHeaderOffset:          uint32(previewHeaderOffset),
		LayerHeadersOffset:           uint32(layerHeadersOffset),
		TotalLayers:                  uint32(len(c.layers)),
		PreviewThumbnailHeaderOffset: uint32(thumbnailHeaderOffset),
		LightCuringType:              1,
	}

	previewHeader := binCompatPreviewHeader{
		Width:             previewWidth,
		Height:            previewHeight,
		PreviewDataOffset: uint32(previewDataOffset),
		PreviewDataSize:   uint32(len(previewData)),
	}
	thumbnailHeader := binCompatPreviewHeader{
		Width:             thumbnailWidth,
		Height:            thumbnailHeight,
		PreviewDataOffset: uint32(thumbnailDataOffset),
		PreviewDataSize:   uint32(len(thumbnailData)),
	}

	layerHeaders := make([]binCompatLayerHeader, len(c.layers))
	for i, layer := range c.layers {
		expTime := s.NormalExposureTime
		if i < int(s.BottomLayers) {
			expTime = s.BottomExposureTime
		}
		layerHeaders[i] = binCompatLayerHeader{
			AbsoluteHeight:  float32(i) * s.LayerHeight,
			ExposureTime:    expTime,
			PerLayerOffTime: s.OffTime,
			ImageDataOffset: uint32(pos),
			ImageDataSize:   uint32(len(layer)),
		}
		pos += len(layer)
	}

	for _, v := range []interface{}{
		header,
		previewHeader,
		previewData,
		thumbnailHeader,
		thumbnailData,
		layerHeaders,
	} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("photon header: %w", err)
		}
	}
	for i, layer := range c.layers {
		if _, err := w.Write(layer); err != nil {
			return fmt.Errorf("photon layer %v: %w", i, err)
		}
	}
	return nil
}
