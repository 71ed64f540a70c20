// Package config handles slicing job configuration loading and management.
package config

import (
	"fmt"

	"github.com/gmlewis/stratum-slicer/toolpath"
)

// Printer types.
const (
	LCD = "lcd"
	SLA = "sla"
)

// Mask output formats for LCD printing.
const (
	MasksPNG    = "png"
	MasksBMP    = "bmp"
	MasksZip    = "zip"
	MasksSVX    = "svx"
	MasksPhoton = "photon"
	MasksBinvox = "binvox"
)

// Config holds all job settings.
type Config struct {
	Printer PrinterConfig `yaml:"printer"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Workers int           `yaml:"workers"`
}

// PrinterConfig selects the printer and holds the settings for each kind.
type PrinterConfig struct {
	Type string    `yaml:"type"` // lcd or sla
	LCD  LCDConfig `yaml:"lcd"`
	SLA  SLAConfig `yaml:"sla"`
}

// LCDConfig holds masked LCD printer settings.
type LCDConfig struct {
	Cols              int     `yaml:"cols"`
	Rows              int     `yaml:"rows"`
	LEDRadius         float64 `yaml:"led_radius"`   // mm
	LayerHeight       float64 `yaml:"layer_height"` // mm
	PaddingPercentage float64 `yaml:"padding_percentage"`
	BottomExposure    float64 `yaml:"bottom_exposure"` // seconds
	NormalExposure    float64 `yaml:"normal_exposure"` // seconds
	BottomLayers      int     `yaml:"bottom_layers"`
	Intensity         int     `yaml:"intensity"` // 0-255
	LiftFeedRate      float64 `yaml:"lift_feed_rate"`
	FinalLift         float64 `yaml:"final_lift"` // mm
}

// SLAConfig holds vector laser printer settings.
type SLAConfig struct {
	SpotRadius   float64 `yaml:"spot_radius"`  // mm
	LayerHeight  float64 `yaml:"layer_height"` // mm
	LaserPower   float64 `yaml:"laser_power"`  // percent
	Dwell        float64 `yaml:"dwell"`        // seconds
	FeedRate     float64 `yaml:"feed_rate"`
	LiftFeedRate float64 `yaml:"lift_feed_rate"`
	FinalLift    float64 `yaml:"final_lift"` // mm
}

// OutputConfig holds output locations.
type OutputConfig struct {
	Dir            string `yaml:"dir"`   // masks and program
	Masks          string `yaml:"masks"` // png, bmp, zip, svx, photon or binvox
	WriteFittedSTL bool   `yaml:"write_fitted_stl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	lcd := toolpath.DefaultLCDProfile()
	sla := toolpath.DefaultSLAProfile()
	return &Config{
		Printer: PrinterConfig{
			Type: LCD,
			LCD: LCDConfig{
				Cols:              lcd.Cols,
				Rows:              lcd.Rows,
				LEDRadius:         lcd.LEDRadius,
				LayerHeight:       lcd.LayerHeight,
				PaddingPercentage: lcd.PaddingPercentage,
				BottomExposure:    lcd.BottomExposure,
				NormalExposure:    lcd.NormalExposure,
				BottomLayers:      lcd.BottomLayers,
				Intensity:         lcd.Intensity,
				LiftFeedRate:      lcd.LiftFeedRate,
				FinalLift:         lcd.FinalLift,
			},
			SLA: SLAConfig{
				SpotRadius:   sla.SpotRadius,
				LayerHeight:  sla.LayerHeight,
				LaserPower:   sla.LaserPower,
				Dwell:        sla.Dwell,
				FeedRate:     sla.FeedRate,
				LiftFeedRate: sla.LiftFeedRate,
				FinalLift:    sla.FinalLift,
			},
		},
		Output: OutputConfig{
			Dir:   "out",
			Masks: MasksPNG,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Workers: 1,
	}
}

// Validate checks the choices that the printer profiles do not cover.
func (c *Config) Validate() error {
	switch c.Printer.Type {
	case LCD, SLA:
	default:
		return fmt.Errorf("printer.type %q: want %q or %q", c.Printer.Type, LCD, SLA)
	}
	switch c.Output.Masks {
	case MasksPNG, MasksBMP, MasksZip, MasksSVX, MasksPhoton, MasksBinvox:
	default:
		return fmt.Errorf("output.masks %q: unknown format", c.Output.Masks)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers %v: must be at least 1", c.Workers)
	}
	return nil
}

// Profile returns the print profile for the configured printer type.
func (c *Config) Profile() (toolpath.Profile, error) {
	switch c.Printer.Type {
	case LCD:
		l := c.Printer.LCD
		return toolpath.LCDProfile{
			Cols:              l.Cols,
			Rows:              l.Rows,
			LEDRadius:         l.LEDRadius,
			LayerHeight:       l.LayerHeight,
			PaddingPercentage: l.PaddingPercentage,
			BottomExposure:    l.BottomExposure,
			NormalExposure:    l.NormalExposure,
			BottomLayers:      l.BottomLayers,
			Intensity:         l.Intensity,
			LiftFeedRate:      l.LiftFeedRate,
			FinalLift:         l.FinalLift,
		}, nil
	case SLA:
		s := c.Printer.SLA
		return toolpath.SLAProfile{
			SpotRadius:   s.SpotRadius,
			LayerHeight:  s.LayerHeight,
			LaserPower:   s.LaserPower,
			Dwell:        s.Dwell,
			FeedRate:     s.FeedRate,
			LiftFeedRate: s.LiftFeedRate,
			FinalLift:    s.FinalLift,
		}, nil
	}
	return nil, fmt.Errorf("printer.type %q: want %q or %q", c.Printer.Type, LCD, SLA)
}
