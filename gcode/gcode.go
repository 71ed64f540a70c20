// Package gcode models the instruction lines sent to a printer and reads
// them back.
//
// A line is either a comment, written as "; text", or a command: a
// mnemonic such as G1 or M6054 followed by space-separated arguments. Each
// argument is an uppercase letter immediately followed by a number, by a
// double-quoted string, or by nothing.
package gcode

import (
	"math"
	"strconv"
	"strings"
)

// Decimals is the number of fractional digits kept when formatting numbers.
const Decimals = 5

// Arg is a single lettered argument of a command.
type Arg struct {
	Letter   byte
	Num      float64
	Str      string
	IsString bool
	// Bare marks a letter with no value, e.g. the X in "G28 X".
	Bare bool
}

// Num returns a numeric argument.
func Num(letter byte, v float64) Arg { return Arg{Letter: letter, Num: v} }

// Str returns a quoted string argument.
func Str(letter byte, s string) Arg { return Arg{Letter: letter, Str: s, IsString: true} }

// Flag returns a letter-only argument.
func Flag(letter byte) Arg { return Arg{Letter: letter, Bare: true} }

func (a Arg) String() string {
	switch {
	case a.Bare:
		return string(a.Letter)
	case a.IsString:
		return string(a.Letter) + `"` + a.Str + `"`
	default:
		return string(a.Letter) + FormatNum(a.Num)
	}
}

// Instruction is one line of a program. When Command is empty the line
// is the comment in Comment.
type Instruction struct {
	Comment string
	Command string
	Args    []Arg
}

// Comment returns a comment line.
func Comment(text string) Instruction { return Instruction{Comment: text} }

// New returns a command line.
func New(command string, args ...Arg) Instruction {
	return Instruction{Command: command, Args: args}
}

// IsComment reports whether the instruction is a comment line.
func (in Instruction) IsComment() bool { return in.Command == "" }

// Arg returns the first argument with the given letter.
func (in Instruction) Arg(letter byte) (Arg, bool) {
	for _, a := range in.Args {
		if a.Letter == letter {
			return a, true
		}
	}
	return Arg{}, false
}

// String renders the instruction as a single line without a newline.
func (in Instruction) String() string {
	if in.IsComment() {
		return "; " + in.Comment
	}
	var sb strings.Builder
	sb.WriteString(in.Command)
	for _, a := range in.Args {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}
	return sb.String()
}

// FormatNum formats v with at most Decimals fractional digits and no
// trailing zeros.
func FormatNum(v float64) string {
	const scale = 1e5
	r := math.Round(v*scale) / scale
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
