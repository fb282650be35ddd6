// Package domain defines the record types, ports, and errors of the songlake pipeline.
package domain

import "fmt"

// ValidationError indicates invalid configuration or an invalid stage graph.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SourceReadError indicates an input dataset could not be read or parsed.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read source %s: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// SinkWriteError indicates an output table could not be persisted.
type SinkWriteError struct {
	Table       string
	Destination string
	Err         error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("write table %s to %s: %v", e.Table, e.Destination, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrSourceRead wraps err as a SourceReadError for the named source.
func ErrSourceRead(source string, err error) *SourceReadError {
	return &SourceReadError{Source: source, Err: err}
}

// ErrSinkWrite wraps err as a SinkWriteError for the named table.
func ErrSinkWrite(table, destination string, err error) *SinkWriteError {
	return &SinkWriteError{Table: table, Destination: destination, Err: err}
}
