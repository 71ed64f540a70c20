package mesh

import "fmt"

// IOError reports that a mesh source could not be opened or read.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("mesh %v %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a malformed vertex record. A single bad record
// fails the whole load. Non-finite coordinates are malformed.
type ParseError struct {
	Line int // 1-based text line, or facet number for binary input
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %v: malformed vertex %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
