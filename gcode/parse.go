package gcode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SyntaxError reports a line that is not a valid instruction.
type SyntaxError struct {
	Line int // 1-based; 0 when parsing a lone line
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("gcode line %v %q: %v", e.Line, e.Text, e.Msg)
	}
	return fmt.Sprintf("gcode %q: %v", e.Text, e.Msg)
}

// Parse reads a program and returns its commands. Blank lines, comment
// lines and trailing comments are dropped.
func Parse(r io.Reader) ([]Instruction, error) {
	var result []Instruction
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lineNum int
	for s.Scan() {
		lineNum++
		in, ok, err := ParseLine(s.Text())
		if err != nil {
			if se, ok := err.(*SyntaxError); ok {
				se.Line = lineNum
			}
			return nil, err
		}
		if ok {
			result = append(result, in)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("gcode scan: %w", err)
	}
	return result, nil
}

// ParseLine parses one line of a program. ok is false when the line holds
// no command (it is blank or only a comment).
func ParseLine(line string) (in Instruction, ok bool, err error) {
	text := strings.TrimSpace(stripComment(line))
	if text == "" {
		return Instruction{}, false, nil
	}

	fail := func(format string, args ...interface{}) (Instruction, bool, error) {
		return Instruction{}, false, &SyntaxError{Text: line, Msg: fmt.Sprintf(format, args...)}
	}

	command, rest, _ := strings.Cut(text, " ")
	in.Command = command

	pos := 0
	for {
		for pos < len(rest) && (rest[pos] == ' ' || rest[pos] == '\t') {
			pos++
		}
		if pos >= len(rest) {
			break
		}

		letter := rest[pos]
		if !isLetter(letter) {
			return fail("argument must start with a letter, got %q", letter)
		}
		pos++

		switch {
		case pos >= len(rest) || rest[pos] == ' ' || rest[pos] == '\t':
			in.Args = append(in.Args, Flag(letter))
		case rest[pos] == '"':
			end := strings.IndexByte(rest[pos+1:], '"')
			if end < 0 {
				return fail("unterminated string in argument %c", letter)
			}
			in.Args = append(in.Args, Str(letter, rest[pos+1:pos+1+end]))
			pos += end + 2
		default:
			end := pos
			for end < len(rest) && isNumChar(rest[end]) {
				end++
			}
			v, err := strconv.ParseFloat(rest[pos:end], 64)
			if err != nil {
				return fail("invalid number in argument %c: %q", letter, rest[pos:end])
			}
			in.Args = append(in.Args, Num(letter, v))
			pos = end
		}
	}
	return in, true, nil
}

// stripComment removes everything from the first ';' that is not inside
// a quoted string.
func stripComment(line string) string {
	quoted := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return line[:i]
			}
		}
	}
	return line
}

func isLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func isNumChar(c byte) bool {
	return ('0' <= c && c <= '9') || c == '.' || c == '-' || c == '+'
}
