package metar

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decode failure.
type ErrorKind string

const (
	// StructuralError: the station or observation time is missing or malformed.
	StructuralError ErrorKind = "structural"
	// UnexpectedTrailingInput: every field matched but text remains.
	UnexpectedTrailingInput ErrorKind = "unexpected_trailing_input"
	// FieldShapeError: the leftover text partially matched a field grammar.
	FieldShapeError ErrorKind = "field_shape"
)

// Sentinels for errors.Is. A *ParseError matches the one for its Kind.
var (
	ErrStructural    = errors.New("metar: structural error")
	ErrTrailingInput = errors.New("metar: unexpected trailing input")
	ErrFieldShape    = errors.New("metar: malformed field")
)

// ParseError is the single terminal error returned by Decode.
type ParseError struct {
	Kind    ErrorKind
	Offset  int    // byte offset into Input
	Element string // grammar element being matched
	Input   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("metar: %s at offset %d (%s): %q", e.Kind, e.Offset, e.Element, e.near())
}

// near returns a short excerpt of the input starting at the offset.
func (e *ParseError) near() string {
	if e.Offset >= len(e.Input) {
		return ""
	}
	s := e.Input[e.Offset:]
	if len(s) > 20 {
		s = s[:20]
	}
	return s
}

func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrStructural:
		return e.Kind == StructuralError
	case ErrTrailingInput:
		return e.Kind == UnexpectedTrailingInput
	case ErrFieldShape:
		return e.Kind == FieldShapeError
	}
	return false
}
