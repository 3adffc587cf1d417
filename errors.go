package scroll

import (
	"errors"
	"fmt"

	"github.com/zoobzio/scroll/event"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrTrailingCharacters is reserved for input left over after a complete
	// document. Trailing content is reported as ErrUnexpectedElement.
	ErrTrailingCharacters = errors.New("trailing characters")

	// ErrType indicates the input has the wrong shape for the requested type.
	ErrType = errors.New("invalid type")

	// ErrUnexpectedElement indicates an event arrived where the decoder expected another.
	ErrUnexpectedElement = errors.New("unexpected element")

	// ErrNumberParse indicates a scalar could not be parsed as the requested number type.
	ErrNumberParse = errors.New("invalid number")

	// ErrBoolParse indicates a scalar is not a recognised boolean literal.
	ErrBoolParse = errors.New("invalid boolean")

	// ErrEarlyTermination indicates the event stream ended before the value was complete.
	ErrEarlyTermination = errors.New("unexpected end of stream")

	// ErrScan indicates the lexical layer rejected the input.
	ErrScan = errors.New("scan failed")

	// ErrCustom indicates a failure raised by type-specific decode or encode logic.
	ErrCustom = errors.New("custom error")

	// ErrInvalidUnion indicates a union registration was rejected.
	ErrInvalidUnion = errors.New("invalid union")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrUnsupportedType indicates a Go type has no scroll representation.
	ErrUnsupportedType = errors.New("unsupported type")
)

func at(span event.Span) string {
	if span.IsZero() {
		return ""
	}
	return " at " + span.String()
}

// TypeError reports a value of the wrong shape.
type TypeError struct {
	Msg  string
	Span event.Span
}

func (e *TypeError) Error() string {
	if e.Msg == "" {
		return "invalid type" + at(e.Span)
	}
	return "invalid type: " + e.Msg + at(e.Span)
}

func (e *TypeError) Unwrap() error {
	return ErrType
}

// UnexpectedElementError reports an event that did not fit the grammar at
// the point it was read. Context names the operation that was reading.
type UnexpectedElementError struct {
	Event   event.Event
	Context string
}

func (e *UnexpectedElementError) Error() string {
	return fmt.Sprintf("unexpected element %s while reading %s%s", e.Event, e.Context, at(e.Event.Span))
}

func (e *UnexpectedElementError) Unwrap() error {
	return ErrUnexpectedElement
}

// NumberParseError reports a scalar that is not a valid number of Type.
// Err is the underlying cause, such as strconv.ErrRange.
type NumberParseError struct {
	Text string
	Type string
	Err  error
	Span event.Span
}

func (e *NumberParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s%s: %v", e.Text, e.Type, at(e.Span), e.Err)
}

func (e *NumberParseError) Unwrap() []error {
	return []error{ErrNumberParse, e.Err}
}

// BoolParseError reports a scalar that is not a boolean literal.
type BoolParseError struct {
	Text string
	Span event.Span
}

func (e *BoolParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as bool%s", e.Text, at(e.Span))
}

func (e *BoolParseError) Unwrap() error {
	return ErrBoolParse
}

// ScanError wraps a failure from the event source.
type ScanError struct {
	Err  error
	Span event.Span
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan failed%s: %v", at(e.Span), e.Err)
}

func (e *ScanError) Unwrap() []error {
	return []error{ErrScan, e.Err}
}

// CustomError carries a free-form message from a visitor, a framework
// rule such as a missing field, or an encoder misuse.
type CustomError struct {
	Msg  string
	Span event.Span
}

func (e *CustomError) Error() string {
	return e.Msg + at(e.Span)
}

func (e *CustomError) Unwrap() error {
	return ErrCustom
}

// Custom returns a CustomError with the given message.
func Custom(msg string) error {
	return &CustomError{Msg: msg}
}

// Customf returns a CustomError with a formatted message.
func Customf(format string, args ...any) error {
	return &CustomError{Msg: fmt.Sprintf(format, args...)}
}

// UnionError represents a union registration error.
type UnionError struct {
	Err     error  // Underlying sentinel error (ErrInvalidUnion)
	Union   string // Interface type being registered
	Variant string // Variant that triggered the error, if any
	Reason  string
}

func (e *UnionError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("%s %s: variant %q: %s", e.Err.Error(), e.Union, e.Variant, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Err.Error(), e.Union, e.Reason)
}

func (e *UnionError) Unwrap() error {
	return e.Err
}

// TagError reports an invalid struct tag.
type TagError struct {
	Type  string
	Field string
	Tag   string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%s: %s.%s: %q", ErrInvalidTag.Error(), e.Type, e.Field, e.Tag)
}

func (e *TagError) Unwrap() error {
	return ErrInvalidTag
}

func newUnexpected(ev event.Event, context string) error {
	return &UnexpectedElementError{Event: ev, Context: context}
}

func newUnionError(union, variant, reason string) error {
	return &UnionError{
		Err:     ErrInvalidUnion,
		Union:   union,
		Variant: variant,
		Reason:  reason,
	}
}

func newUnsupported(typ fmt.Stringer) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}
