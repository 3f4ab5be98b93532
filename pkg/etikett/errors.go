package etikett

import (
	"errors"
	"fmt"
)

// ErrKind classifies a pipeline stage failure.
type ErrKind string

const (
	ErrDecode    ErrKind = "decode"    // unreadable, corrupt, or unsupported source
	ErrIO        ErrKind = "io"        // read/write/permission failure
	ErrTransport ErrKind = "transport" // inference endpoint unreachable or misbehaving
	ErrMetadata  ErrKind = "metadata"  // metadata tool invocation failure
	ErrInternal  ErrKind = "internal"  // anything else
)

// StageError is a classified failure from a single pipeline stage.
type StageError struct {
	Kind ErrKind
	Path string
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failure for %s: %v", e.Kind, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(kind ErrKind, path string, err error) *StageError {
	return &StageError{Kind: kind, Path: path, Err: err}
}

// KindOf returns the kind carried by err, or ErrInternal for unclassified errors.
func KindOf(err error) ErrKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ErrInternal
}
