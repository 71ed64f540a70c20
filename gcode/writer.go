package gcode

import (
	"bufio"
	"fmt"
	"io"
)

// Writer writes instructions one per line.
type Writer struct {
	w     *bufio.Writer
	lines int
}

// NewWriter returns a buffered Writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes in followed by a newline.
func (w *Writer) Write(in Instruction) error {
	if _, err := fmt.Fprintln(w.w, in.String()); err != nil {
		return fmt.Errorf("gcode write line %v: %w", w.lines+1, err)
	}
	w.lines++
	return nil
}

// Lines returns the number of lines written so far.
func (w *Writer) Lines() int { return w.lines }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("gcode flush: %w", err)
	}
	return nil
}
