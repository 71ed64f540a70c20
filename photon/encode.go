package photon

import (
	"image"
	"image/color"
	"math"
)

const (
	// Preview sizes used by ChiTuBox.
	previewWidth  = 0x190
	previewHeight = 0x12c

	thumbnailWidth  = 0xc8
	thumbnailHeight = 0x7d

	// Longest run of one pixel value in a single layer byte.
	maxRun = 0x7d
)

// encodeLayerImageData run-length encodes img column by column. Each byte
// holds a run length in its low 7 bits; the high bit marks lit pixels.
func encodeLayerImageData(img *image.RGBA) []byte {
	const flagSetPixels = 0x80
	var output []byte

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	var run uint8
	var lit bool
	flush := func() {
		if run == 0 {
			return
		}
		if lit {
			output = append(output, run|flagSetPixels)
		} else {
			output = append(output, run)
		}
		run = 0
	}

	for pixelIndex := 0; pixelIndex < width*height; pixelIndex++ {
		y := pixelIndex % height
		x := pixelIndex / height
		here := img.Pix[img.PixOffset(x, y)] != 0
		if here != lit {
			flush()
			lit = here
		}
		run++
		if run >= maxRun {
			flush()
		}
	}
	flush()
	return output
}

func changeRange(fromMin, fromMax, toMin, toMax, number uint32) uint32 {
	return uint32(math.Round(float64(number-fromMin)*float64(toMax-toMin)/float64(fromMax-fromMin) + float64(toMin)))
}

func combineRGB5515(r, g, b uint8, isFill bool) uint16 {
	// Scale colors from the range of 0-255 to 0-31
	rBits := uint16(changeRange(0, 255, 0, 31, uint32(r)))
	gBits := uint16(changeRange(0, 255, 0, 31, uint32(g)))
	bBits := uint16(changeRange(0, 255, 0, 31, uint32(b)))

	var fillBit uint16
	if isFill {
		fillBit = 1
	}

	var x uint16
	x |= (rBits & 0x1F) << 0
	x |= (fillBit & 0x1) << 5
	x |= (gBits & 0x1F) << 6
	x |= (bBits & 0x1F) << 11
	return x
}

// encodePreview scales img to imageWidth x imageHeight and encodes it as
// RGB5515 with runs of three or more equal pixels collapsed.
func encodePreview(imageWidth, imageHeight int, img *image.RGBA) []uint8 {
	var output []uint8

	b := img.Bounds()
	xScale := float32(b.Dx()) / float32(imageWidth)
	yScale := float32(b.Dy()) / float32(imageHeight)
	maxPixelIndex := imageHeight * imageWidth

	pixelAt := func(pi int) color.RGBA {
		if pi >= maxPixelIndex {
			return color.RGBA{}
		}
		x := int(float32(pi%imageWidth) * xScale)
		y := int(float32(pi/imageWidth) * yScale)
		return img.RGBAAt(b.Min.X+x, b.Min.Y+y)
	}
	put := func(v uint16) {
		output = append(output, byte(v&0xFF), byte(v>>8))
	}

	for pixelIndex := 0; pixelIndex < maxPixelIndex; {
		p := pixelAt(pixelIndex)
		if pixelIndex+2 >= maxPixelIndex || p != pixelAt(pixelIndex+1) || p != pixelAt(pixelIndex+2) {
			put(combineRGB5515(p.R, p.G, p.B, false))
			pixelIndex++
			continue
		}

		skipCount := 3
		for skipCount < 0xFFF && pixelIndex+skipCount < maxPixelIndex && p == pixelAt(pixelIndex+skipCount) {
			skipCount++
		}
		put(combineRGB5515(p.R, p.G, p.B, true) | 0x20)
		put(uint16(skipCount-1) | 0x3000)
		pixelIndex += skipCount
	}
	return output
}
