package zipper

import (
	"archive/zip"
	"fmt"
	"os"
	"time"
)

const svxSliceFmt = "density/slice%04d.png"

type svx struct {
	voxelSize float64 // millimeters
	author    string
}

// NewSVX creates an SVX volume at path. The masks become the Z slices of
// a voxel grid with cubic voxels of voxelSize millimeters.
func NewSVX(path string, voxelSize float64, author string) (*Codec, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	c := newCodec(f, f)
	c.svx = &svx{voxelSize: voxelSize, author: author}
	return c, nil
}

func (c *Codec) writeManifest() error {
	fh := &zip.FileHeader{
		Name:     "manifest.xml",
		Modified: time.Now(),
	}
	f, err := c.w.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("Unable to create ZIP file %q: %w", fh.Name, err)
	}

	_, err = fmt.Fprintf(f, manifestFmt,
		c.width,
		c.height,
		c.layers,
		c.svx.voxelSize/1000.0, // voxelSize in meters
		c.svx.author,
		time.Now().Format("2006-01-02"))
	return err
}

var manifestFmt = `<?xml version="1.0"?>

<grid version="1.0" gridSizeX="%v" gridSizeY="%v" gridSizeZ="%v"
   voxelSize="%v" subvoxelBits="8" slicesOrientation="Z" >

    <channels>
        <channel type="DENSITY" bits="8" slices="density/slice%%04d.png" />
    </channels>

    <materials>
        <material id="1" urn="urn:shapeways:materials/1" />
    </materials>

    <metadata>
        <entry key="author" value=%q />
        <entry key="creationDate" value=%q />
    </metadata>
</grid>`
