package toolpath

import "fmt"

// ConfigError reports a profile or option that cannot produce a program.
// It is returned before any instruction is produced.
type ConfigError struct {
	Field string
	Value interface{}
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("toolpath config %v: %v", e.Field, e.Msg)
	}
	return fmt.Sprintf("toolpath config %v=%v: %v", e.Field, e.Value, e.Msg)
}

// EncodeError reports a mask codec failure. It aborts the run.
type EncodeError struct {
	Layer int // slicing layer index
	Name  string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode layer %v mask %q: %v", e.Layer, e.Name, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
