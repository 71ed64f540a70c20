package config

import "flag"

// Flags are the command-line overrides of a Config.
type Flags struct {
	Config      string
	Debug       bool
	Type        string
	Masks       string
	Dir         string
	LayerHeight float64
	Workers     int
	FittedSTL   bool
	LogFile     string
}

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to YAML job file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Type, "printer", "", "Printer type: lcd or sla")
	fs.StringVar(&f.Masks, "masks", "", "LCD mask format: png, bmp, zip, svx, photon or binvox")
	fs.StringVar(&f.Dir, "out", "", "Output directory")
	fs.Float64Var(&f.LayerHeight, "layer", 0, "Layer height in millimeters")
	fs.IntVar(&f.Workers, "workers", 0, "Number of layers to compute concurrently")
	fs.BoolVar(&f.FittedSTL, "stl", false, "Also write the scaled and centered model as a binary STL")
	fs.StringVar(&f.LogFile, "log", "", "Also log to this file")
	return f
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Type != "" {
		cfg.Printer.Type = f.Type
	}
	if f.Masks != "" {
		cfg.Output.Masks = f.Masks
	}
	if f.Dir != "" {
		cfg.Output.Dir = f.Dir
	}
	if f.LayerHeight > 0 {
		cfg.Printer.LCD.LayerHeight = f.LayerHeight
		cfg.Printer.SLA.LayerHeight = f.LayerHeight
	}
	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}
	if f.FittedSTL {
		cfg.Output.WriteFittedSTL = true
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
