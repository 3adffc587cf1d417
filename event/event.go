// Package event defines the parse events a scroll decoder consumes and the
// Source/Driver contract that lexical front ends implement.
//
// A Source yields a well-nested stream:
//
//	StreamStart (DocumentStart node DocumentEnd)* StreamEnd
//
// where a node is a Scalar, a SequenceStart node* SequenceEnd, or a
// MappingStart (node node)* MappingEnd. After StreamEnd a Source returns io.EOF.
package event

import (
	"fmt"
	"strconv"
)

// Kind classifies an Event.
type Kind int

// Event kinds.
const (
	StreamStart Kind = iota
	StreamEnd
	DocumentStart
	DocumentEnd
	Scalar
	SequenceStart
	SequenceEnd
	MappingStart
	MappingEnd
)

var kindNames = map[Kind]string{
	StreamStart:   "StreamStart",
	StreamEnd:     "StreamEnd",
	DocumentStart: "DocumentStart",
	DocumentEnd:   "DocumentEnd",
	Scalar:        "Scalar",
	SequenceStart: "SequenceStart",
	SequenceEnd:   "SequenceEnd",
	MappingStart:  "MappingStart",
	MappingEnd:    "MappingEnd",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsStart reports whether k opens a collection.
func (k Kind) IsStart() bool {
	return k == SequenceStart || k == MappingStart
}

// IsEnd reports whether k closes a collection.
func (k Kind) IsEnd() bool {
	return k == SequenceEnd || k == MappingEnd
}

// Closer returns the end kind matching a start kind, or k itself otherwise.
func (k Kind) Closer() Kind {
	switch k {
	case SequenceStart:
		return SequenceEnd
	case MappingStart:
		return MappingEnd
	case StreamStart:
		return StreamEnd
	case DocumentStart:
		return DocumentEnd
	}
	return k
}

// Style records how a scalar or collection was written in the source text.
// Decoding never depends on it.
type Style int

// Presentation styles.
const (
	Plain Style = iota
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
	Flow
)

// Mark is a position in the input. Line and Column are 1-based; a zero
// Line means the position is unknown.
type Mark struct {
	Line   int
	Column int
	Offset int
}

// Span is the range of input an event was produced from.
type Span struct {
	Start Mark
	End   Mark
}

// At returns a span covering a single position.
func At(line, column int) Span {
	m := Mark{Line: line, Column: column, Offset: -1}
	return Span{Start: m, End: m}
}

// IsZero reports whether the span carries no position.
func (s Span) IsZero() bool {
	return s.Start.Line == 0
}

func (s Span) String() string {
	if s.IsZero() {
		return "unknown position"
	}
	if s.Start.Column == 0 {
		return fmt.Sprintf("line %d", s.Start.Line)
	}
	return fmt.Sprintf("line %d, column %d", s.Start.Line, s.Start.Column)
}

// Event is one unit of the parse stream. Value is set for scalars only.
type Event struct {
	Kind  Kind
	Value string
	Tag   string
	Style Style
	Span  Span
}

func (e Event) String() string {
	if e.Kind == Scalar {
		return fmt.Sprintf("Scalar(%q)", e.Value)
	}
	return e.Kind.String()
}

// Source yields events one at a time. Next returns io.EOF once the stream
// is exhausted; lexical failures should be reported as *Error.
type Source interface {
	Next() (Event, error)
}

// Driver builds Sources over raw input.
type Driver interface {
	Name() string
	NewBytes(data []byte) Source
}

// Error is a positioned lexical failure reported by a Source.
type Error struct {
	Err  error
	Span Span
}

func (e *Error) Error() string {
	if e.Span.IsZero() {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Span, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
