package gcode

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   Instruction
		want string
	}{
		{
			name: "comment",
			in:   Comment("**** MSLA Print ****"),
			want: "; **** MSLA Print ****",
		},
		{
			name: "bare command",
			in:   New("G28"),
			want: "G28",
		},
		{
			name: "numbers trimmed",
			in:   New("G1", Num('Z', 0.05), Num('F', 300)),
			want: "G1 Z0.05 F300",
		},
		{
			name: "rounded to five decimals",
			in:   New("G1", Num('X', 1.0/3), Num('Y', 0.1+0.2), Num('Z', -2.000004)),
			want: "G1 X0.33333 Y0.3 Z-2",
		},
		{
			name: "negative zero",
			in:   New("G1", Num('X', -0.000001)),
			want: "G1 X0",
		},
		{
			name: "quoted string and flag",
			in:   New("M6054", Str('F', "layer_00000.png"), Num('P', 2), Num('S', 255), Flag('X')),
			want: `M6054 F"layer_00000.png" P2 S255 X`,
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			if got := tt.in.String(); got != tt.want {
				t.Errorf("String = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Instruction
		wantOK bool
	}{
		{name: "blank", line: "   \t"},
		{name: "comment", line: "; full line comment"},
		{name: "indented comment", line: "   ; leading whitespace comment"},
		{
			name:   "command only",
			line:   "G28",
			want:   Instruction{Command: "G28"},
			wantOK: true,
		},
		{
			name:   "indented with trailing comment",
			line:   "   G1 X1 Y-1.5 ; move",
			want:   New("G1", Num('X', 1), Num('Y', -1.5)),
			wantOK: true,
		},
		{
			name:   "quoted string with semicolon",
			line:   `M6054 F"a;b.png" P2.5`,
			want:   New("M6054", Str('F', "a;b.png"), Num('P', 2.5)),
			wantOK: true,
		},
		{
			name:   "letter only arguments",
			line:   "G28 X Y",
			want:   New("G28", Flag('X'), Flag('Y')),
			wantOK: true,
		},
		{
			name:   "extra spaces",
			line:   "G0  X1   Y2  ",
			want:   New("G0", Num('X', 1), Num('Y', 2)),
			wantOK: true,
		},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			got, ok, err := ParseLine(tt.line)
			if err != nil {
				t.Fatalf("ParseLine: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLine = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "number without letter", line: "G1 10"},
		{name: "unterminated string", line: `M6054 F"layer.png`},
		{name: "bad number", line: "G1 X1.2.3"},
		{name: "letter then garbage", line: "G1 X#"},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			_, _, err := ParseLine(tt.line)
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("ParseLine err = %v, want *SyntaxError", err)
			}
			if se.Text != tt.line {
				t.Errorf("SyntaxError.Text = %q, want %q", se.Text, tt.line)
			}
		})
	}
}

func TestParse(t *testing.T) {
	src := strings.Join([]string{
		"; full line comment",
		"   ; leading whitespace comment",
		"G0 X0 Y0",
		"   G1 X1 Y1",
		"",
	}, "\n")

	got, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Instruction{
		New("G0", Num('X', 0), Num('Y', 0)),
		New("G1", Num('X', 1), Num('Y', 1)),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestParseReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("G28\nG1 X1\nG1 ?\n"))
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("Parse err = %v, want *SyntaxError", err)
	}
	if se.Line != 3 {
		t.Errorf("SyntaxError.Line = %v, want 3", se.Line)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	prog := []Instruction{
		Comment("**** SLA Print ****"),
		New("G90"),
		New("G21"),
		New("G28"),
		New("G1", Num('Z', 0.1), Num('F', 150)),
		New("M3", Num('S', 80)),
		New("G0", Num('X', -1.25), Num('Y', 3.5)),
		New("G1", Num('X', 2), Num('Y', 3.5), Num('F', 1200)),
		New("M6054", Str('F', "layer_00001.png"), Num('P', 2.5), Num('S', 255)),
		New("M5"),
		New("M30"),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, in := range prog {
		if err := w.Write(in); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if w.Lines() != len(prog) {
		t.Errorf("Lines = %v, want %v", w.Lines(), len(prog))
	}

	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// Comments are not commands.
	want := prog[1:]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip =\n%v\nwant\n%v", got, want)
	}
}

func TestInstructionArg(t *testing.T) {
	in := New("G1", Num('X', 1), Num('Z', 2))
	if a, ok := in.Arg('Z'); !ok || a.Num != 2 {
		t.Errorf("Arg('Z') = %v, %v; want Z2, true", a, ok)
	}
	if _, ok := in.Arg('Y'); ok {
		t.Error("Arg('Y') found, want missing")
	}
}
