// gcode-stats reads G-code programs written by stratum-slicer and reports
// a summary of each: command counts, the Z range, the number of exposed
// layers and the total exposure time.
//
// Usage:
//
//	gcode-stats part.gcode [more.gcode ...]
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/gmlewis/stratum-slicer/gcode"
	"github.com/gmlewis/stratum-slicer/logger"
)

var (
	debug = flag.Bool("debug", false, "Enable debug logging")
)

// stats summarizes one program.
type stats struct {
	lines    int
	commands map[string]int
	minZ     float64
	maxZ     float64
	masks    int     // M6054 exposures
	exposure float64 // seconds, summed over M6054 P values
	strokes  int     // G1 moves with the laser on
}

func main() {
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	check("logger.Init: %v", logger.Init(level, ""))
	defer logger.Sync()

	for _, arg := range flag.Args() {
		logger.Sugar.Debugf("Reading %q...", arg)
		f, err := os.Open(arg)
		check("Open: %v", err)
		s, err := collect(f)
		f.Close()
		check("%v: %v", arg, err)
		report(os.Stdout, arg, s)
	}
}

// collect parses a program and accumulates its statistics.
func collect(r io.Reader) (*stats, error) {
	prog, err := gcode.Parse(r)
	if err != nil {
		return nil, err
	}

	s := &stats{
		commands: map[string]int{},
		minZ:     math.Inf(1),
		maxZ:     math.Inf(-1),
	}
	var laserOn bool
	for _, in := range prog {
		s.lines++
		s.commands[in.Command]++
		switch in.Command {
		case "G0", "G1":
			if z, ok := in.Arg('Z'); ok && !z.IsString && !z.Bare {
				s.minZ = math.Min(s.minZ, z.Num)
				s.maxZ = math.Max(s.maxZ, z.Num)
			}
			_, hasX := in.Arg('X')
			if in.Command == "G1" && laserOn && hasX {
				s.strokes++
			}
		case "M3":
			laserOn = true
		case "M5":
			laserOn = false
		case "M6054":
			s.masks++
			if p, ok := in.Arg('P'); ok && !p.IsString {
				s.exposure += p.Num
			}
		}
	}
	return s, nil
}

func report(w io.Writer, name string, s *stats) {
	fmt.Fprintf(w, "%v: %v commands\n", name, s.lines)
	if s.lines == 0 {
		return
	}

	cmds := make([]string, 0, len(s.commands))
	for c := range s.commands {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)
	var parts []string
	for _, c := range cmds {
		parts = append(parts, fmt.Sprintf("%v=%v", c, s.commands[c]))
	}
	fmt.Fprintf(w, "\t%v\n", strings.Join(parts, " "))

	if s.minZ <= s.maxZ {
		fmt.Fprintf(w, "\tZ: %v to %v\n", gcode.FormatNum(s.minZ), gcode.FormatNum(s.maxZ))
	}
	if s.masks > 0 {
		fmt.Fprintf(w, "\tmasks: %v, exposure: %vs\n", s.masks, gcode.FormatNum(s.exposure))
	}
	if s.strokes > 0 {
		fmt.Fprintf(w, "\tlaser strokes: %v\n", s.strokes)
	}
}

func check(fmtStr string, args ...interface{}) {
	err := args[len(args)-1]
	if err != nil {
		logger.Sugar.Fatalf(fmtStr, args...)
	}
}
