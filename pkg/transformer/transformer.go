// Package transformer converts values between their domain representation
// and what form widgets submit and display.
package transformer

import (
	"errors"
	"fmt"
)

// DataTransformer maps a value in both directions. Transform goes from the
// model side towards the widget, ReverseTransform goes back. Implementations
// must round trip every valid model value and return a
// *TransformationFailedError for input of the wrong shape.
type DataTransformer interface {
	Transform(value any) (any, error)
	ReverseTransform(value any) (any, error)
}

// ErrTransformationFailed matches every *TransformationFailedError through
// errors.Is.
var ErrTransformationFailed = errors.New("transformer: transformation failed")

// TransformationFailedError reports input the transformer cannot convert. The
// form layer turns it into a field error instead of failing the request.
type TransformationFailedError struct {
	Message string
	Value   any
	Cause   error
}

func (e *TransformationFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transformer: %s: %v", e.Message, e.Cause)
	}
	return "transformer: " + e.Message
}

func (e *TransformationFailedError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrTransformationFailed) match.
func (e *TransformationFailedError) Is(target error) bool {
	return target == ErrTransformationFailed
}

// Failed builds a TransformationFailedError.
func Failed(value any, format string, args ...any) *TransformationFailedError {
	return &TransformationFailedError{
		Message: fmt.Sprintf(format, args...),
		Value:   value,
	}
}

func unexpectedType(value any, want string) *TransformationFailedError {
	return Failed(value, "expected %s, got %T", want, value)
}

// Chain applies transformers in order on Transform and in reverse order on
// ReverseTransform.
type Chain []DataTransformer

func (c Chain) Transform(value any) (any, error) {
	var err error
	for _, t := range c {
		if value, err = t.Transform(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (c Chain) ReverseTransform(value any) (any, error) {
	var err error
	for i := len(c) - 1; i >= 0; i-- {
		if value, err = c[i].ReverseTransform(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// Funcs adapts a pair of functions to DataTransformer.
type Funcs struct {
	To   func(any) (any, error)
	From func(any) (any, error)
}

func (f Funcs) Transform(value any) (any, error) {
	if f.To == nil {
		return value, nil
	}
	return f.To(value)
}

func (f Funcs) ReverseTransform(value any) (any, error) {
	if f.From == nil {
		return value, nil
	}
	return f.From(value)
}
