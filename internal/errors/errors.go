// Package errors defines VECL's error kinds and the builder-pattern
// VeclError type carried through every core component.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrorType represents the kind of error, per the seven kinds of
// the error handling design: Parse, Definition, Type, Pass, Preimage,
// Link, Runtime.
type ErrorType string

const (
	ParseError      ErrorType = "ParseError"
	DefinitionError ErrorType = "DefinitionError"
	TypeErrorKind   ErrorType = "TypeError"
	PassError       ErrorType = "PassError"
	PreimageError   ErrorType = "PreimageError"
	LinkError       ErrorType = "LinkError"
	RuntimeError    ErrorType = "RuntimeError"
)

// SourceLocation represents a location in source code.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string
	File     string
	Line     int
	Column   int
}

// VeclError is an error with source location information and an
// optional call stack, following the type×message×location shape
// every core operation returns.
type VeclError struct {
	Type      ErrorType
	Message   string
	Location  SourceLocation
	CallStack []StackFrame
	Source    string
	cause     error
}

// Error implements the error interface.
func (e *VeclError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: %s", e.Type, e.Message))
	if e.Location.File != "" {
		sb.WriteString(fmt.Sprintf(" at %s:%d:%d", e.Location.File, e.Location.Line, e.Location.Column))
	}

	if e.Source != "" {
		sb.WriteString(fmt.Sprintf("\n  %d | %s\n", e.Location.Line, e.Source))
		sb.WriteString(strings.Repeat(" ", len(fmt.Sprintf("  %d | ", e.Location.Line))))
		if e.Location.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.Location.Column-1))
		}
		sb.WriteString("^")
	}

	if len(e.CallStack) > 0 {
		sb.WriteString("\nCall Stack:\n")
		for _, frame := range e.CallStack {
			if frame.Function != "" {
				sb.WriteString(fmt.Sprintf("  at %s (%s:%d:%d)\n", frame.Function, frame.File, frame.Line, frame.Column))
			} else {
				sb.WriteString(fmt.Sprintf("  at %s:%d:%d\n", frame.File, frame.Line, frame.Column))
			}
		}
	}

	return sb.String()
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *VeclError) Unwrap() error { return e.cause }

func newError(t ErrorType, message string) *VeclError {
	return &VeclError{Type: t, Message: message}
}

func New(t ErrorType, message string) *VeclError { return newError(t, message) }

func NewParseError(message, file string, line, column int) *VeclError {
	e := newError(ParseError, message)
	e.Location = SourceLocation{File: file, Line: line, Column: column}
	return e
}

func NewDefinitionError(message string) *VeclError { return newError(DefinitionError, message) }

func NewTypeError(message string) *VeclError { return newError(TypeErrorKind, message) }

func NewPassError(pass, message string) *VeclError {
	return newError(PassError, fmt.Sprintf("pass %q: %s", pass, message))
}

func NewPreimageError(message string) *VeclError { return newError(PreimageError, message) }

func NewLinkError(message string) *VeclError { return newError(LinkError, message) }

func NewRuntimeError(message string, line int) *VeclError {
	e := newError(RuntimeError, message)
	e.Location.Line = line
	return e
}

// WithSource adds a source code snippet to the error.
func (e *VeclError) WithSource(source string) *VeclError {
	e.Source = source
	return e
}

// WithStack attaches a call stack.
func (e *VeclError) WithStack(stack []StackFrame) *VeclError {
	e.CallStack = stack
	return e
}

// AddStackFrame appends a single stack frame.
func (e *VeclError) AddStackFrame(function, file string, line, column int) *VeclError {
	e.CallStack = append(e.CallStack, StackFrame{Function: function, File: file, Line: line, Column: column})
	return e
}

// Wrap annotates err with a pass label and a stack trace via
// pkg/errors without discarding its cause. Nothing in this module
// calls it: the pipeline labels pass errors with NewPassError.
func Wrap(err error, pass string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(err, pass)
}

// AtLine annotates an otherwise-unlocated error with the current
// lexer/pre-image line position, matching the propagation rule in
// the error handling design ("<message> at <file>:<line>").
func AtLine(err error, file string, line int) error {
	if err == nil {
		return nil
	}
	if ve, ok := err.(*VeclError); ok && ve.Location.File == "" {
		ve.Location.File = file
		ve.Location.Line = line
		return ve
	}
	return fmt.Errorf("%w at %s:%d", err, file, line)
}
