package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNodeNotFound is returned when a node key cannot be found in the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrMissingEntryNode is returned when a graph has no "welcome" node.
var ErrMissingEntryNode = errors.New("missing entry node")

// ErrDanglingReference is returned when an option or rule targets a node that does not exist.
var ErrDanglingReference = errors.New("dangling reference")

// ErrDuplicateNode is returned when two node definitions share a key.
var ErrDuplicateNode = errors.New("duplicate node key")

// ErrReservedKey is returned when a node uses a key the engine synthesizes itself.
var ErrReservedKey = errors.New("reserved node key")

// ErrSessionClosed is returned when an operation is attempted on a closed session.
var ErrSessionClosed = errors.New("session closed")

// ReferenceError describes one broken reference found while validating a graph.
type ReferenceError struct {
	From   string // node key or "rule:<name>"
	Target string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s -> %q: %v", e.From, e.Target, ErrDanglingReference)
}

func (e *ReferenceError) Unwrap() error { return ErrDanglingReference }

// GraphError aggregates every integrity violation found in a graph definition.
type GraphError struct {
	Errors []error
}

func (e *GraphError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d graph errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual violations to errors.Is / errors.As.
func (e *GraphError) Unwrap() []error { return e.Errors }

// ErrEmptyInput is returned by host adapters when submitted text is blank.
var ErrEmptyInput = errors.New("empty input")
