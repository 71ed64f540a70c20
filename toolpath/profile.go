package toolpath

import "math"

// Profile is the print strategy configuration. It is implemented only by
// LCDProfile and SLAProfile.
type Profile interface {
	validate() error
	layerThickness() float64
}

// LCDProfile configures a masked LCD (MSLA) printer that exposes one full
// layer image at a time.
type LCDProfile struct {
	// Cols and Rows are the screen resolution in pixels.
	Cols, Rows int
	// LEDRadius is half the pixel pitch, in millimeters.
	LEDRadius         float64
	LayerHeight       float64
	PaddingPercentage float64
	// Exposure times in seconds. The first BottomLayers exposed layers use
	// BottomExposure.
	BottomExposure float64
	NormalExposure float64
	BottomLayers   int
	// Intensity is the backlight level, 0-255.
	Intensity    int
	LiftFeedRate float64
	FinalLift    float64
}

// SLAProfile configures a vector laser printer.
type SLAProfile struct {
	SpotRadius  float64
	LayerHeight float64
	// LaserPower is a percentage of full power.
	LaserPower float64
	// Dwell is a pause in seconds after each layer, skipped when zero.
	Dwell        float64
	FeedRate     float64
	LiftFeedRate float64
	FinalLift    float64
}

// DefaultLCDProfile returns settings for a common 2K resin printer.
func DefaultLCDProfile() LCDProfile {
	return LCDProfile{
		Cols:              1440,
		Rows:              2560,
		LEDRadius:         0.02375,
		LayerHeight:       0.05,
		PaddingPercentage: 5,
		BottomExposure:    50,
		NormalExposure:    6,
		BottomLayers:      8,
		Intensity:         255,
		LiftFeedRate:      300,
		FinalLift:         20,
	}
}

// DefaultSLAProfile returns settings for a small galvo laser printer.
func DefaultSLAProfile() SLAProfile {
	return SLAProfile{
		SpotRadius:   0.04,
		LayerHeight:  0.05,
		LaserPower:   80,
		Dwell:        0,
		FeedRate:     1200,
		LiftFeedRate: 150,
		FinalLift:    20,
	}
}

// Pitch returns the size of one screen pixel in millimeters.
func (p LCDProfile) Pitch() float64 { return 2 * p.LEDRadius }

// PlateSize returns the exposure area in millimeters.
func (p LCDProfile) PlateSize() (width, height float64) {
	return float64(p.Cols) * p.Pitch(), float64(p.Rows) * p.Pitch()
}

func (p LCDProfile) layerThickness() float64 { return p.LayerHeight }
func (p SLAProfile) layerThickness() float64 { return p.LayerHeight }

func (p LCDProfile) validate() error {
	switch {
	case p.Cols <= 0:
		return &ConfigError{Field: "Cols", Value: p.Cols, Msg: "must be positive"}
	case p.Rows <= 0:
		return &ConfigError{Field: "Rows", Value: p.Rows, Msg: "must be positive"}
	case !(p.LEDRadius > 0):
		return &ConfigError{Field: "LEDRadius", Value: p.LEDRadius, Msg: "must be positive"}
	case !(p.LayerHeight > 0):
		return &ConfigError{Field: "LayerHeight", Value: p.LayerHeight, Msg: "must be positive"}
	case !(p.PaddingPercentage >= 0 && p.PaddingPercentage < 50):
		return &ConfigError{Field: "PaddingPercentage", Value: p.PaddingPercentage, Msg: "must be in [0,50)"}
	}
	return nil
}

func (p SLAProfile) validate() error {
	switch {
	case !(p.SpotRadius > 0):
		return &ConfigError{Field: "SpotRadius", Value: p.SpotRadius, Msg: "must be positive"}
	case !(p.LayerHeight > 0):
		return &ConfigError{Field: "LayerHeight", Value: p.LayerHeight, Msg: "must be positive"}
	}
	return nil
}

// liftEpsilon is the final lift below which no lift move is emitted.
const liftEpsilon = 1e-9

func needsLift(lift float64) bool { return math.Abs(lift) >= liftEpsilon }
