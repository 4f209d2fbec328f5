// Package diagnostics carries fatal per-declaration errors through the
// pipeline. Errors are classified by code and anchored to a source range;
// message formatting is left to the caller.
package diagnostics

import (
	"errors"
	"fmt"

	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
)

// ErrorCode classifies a fatal diagnostic.
type ErrorCode int

const (
	ErrorCodeDecoratorArityWrong      ErrorCode = 1002
	ErrorCodeDecoratorArgNotLiteral   ErrorCode = 1003
	ErrorCodeValueHasWrongType        ErrorCode = 1010
	ErrorCodeComponentMissingTemplate ErrorCode = 2001
	ErrorCodeComponentResourceNotFound ErrorCode = 2008
	ErrorCodeTemplateParseError       ErrorCode = 5002
)

// FatalError aborts compilation of one declaration without failing the whole
// run. It carries the code and the originating range so the driver can attach
// a precise diagnostic location.
type FatalError struct {
	Code    ErrorCode
	Range   reflection.SourceRange
	Message string
}

// NewFatalError creates a new FatalError
func NewFatalError(code ErrorCode, rng reflection.SourceRange, message string) *FatalError {
	return &FatalError{Code: code, Range: rng, Message: message}
}

// Error implements the error interface
func (e *FatalError) Error() string {
	return fmt.Sprintf("NG%04d: %s", int(e.Code), e.Message)
}

// IsFatalError reports whether err is (or wraps) a FatalError.
func IsFatalError(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// CodeOf returns the error code of a fatal error, or 0 when err is not one.
func CodeOf(err error) ErrorCode {
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return fatal.Code
	}
	return 0
}
