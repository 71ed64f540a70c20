package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gmlewis/stratum-slicer/logger"
)

// ScaleEpsilon is the smallest departure from 1 for which Fit rewrites
// the mesh.
const ScaleEpsilon = 1e-9

// FitScale returns the uniform scale factor that fits the XY extent of b
// into the build plate with paddingPercent (0-100) kept clear on every side.
//
// A model with zero extent on either axis, or a plate with no printable
// area left after padding, yields 1.
func FitScale(b Bounds, buildWidth, buildHeight, paddingPercent float64) float64 {
	size := b.Size()
	if size.X() <= 0 || size.Y() <= 0 {
		return 1
	}

	margin := 1 - 2*paddingPercent/100
	printableWidth := buildWidth * margin
	printableHeight := buildHeight * margin
	if printableWidth <= 0 || printableHeight <= 0 {
		return 1
	}

	return math.Min(printableWidth/size.X(), printableHeight/size.Y())
}

// Fit scales the mesh in place about the XY center of b so that it fits
// the build plate, and returns the scale factor and the new bounds.
// Z is never changed.
func Fit(m *Mesh, b Bounds, buildWidth, buildHeight, paddingPercent float64) (float64, Bounds) {
	scale := FitScale(b, buildWidth, buildHeight, paddingPercent)
	if math.Abs(scale-1) <= ScaleEpsilon {
		logger.Sugar.Debugf("model already fits %vx%v plate, no scaling", buildWidth, buildHeight)
		return 1, b
	}

	c := b.Center()
	remap := func(v mgl64.Vec3) mgl64.Vec3 {
		return mgl64.Vec3{
			c.X() + (v.X()-c.X())*scale,
			c.Y() + (v.Y()-c.Y())*scale,
			v.Z(),
		}
	}
	for i := range m.Triangles {
		t := &m.Triangles[i]
		t.V1, t.V2, t.V3 = remap(t.V1), remap(t.V2), remap(t.V3)
	}

	// Re-scan rather than scaling b: the rounding of each remapped vertex
	// can move the extrema.
	nb := ComputeBounds(m)
	logger.Sugar.Infof("scaled model by %v about (%v,%v), MBB=%v", scale, c.X(), c.Y(), nb)
	return scale, nb
}

// PlateOffset returns the XY translation that moves the center of b onto
// the center of a buildWidth x buildHeight plate whose origin is its
// lower-left corner.
func PlateOffset(b Bounds, buildWidth, buildHeight float64) mgl64.Vec2 {
	c := b.Center()
	return mgl64.Vec2{buildWidth/2 - c.X(), buildHeight/2 - c.Y()}
}
