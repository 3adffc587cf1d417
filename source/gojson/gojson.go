// Package gojson provides a scroll driver for JSON input, built on
// github.com/goccy/go-json.
//
// JSON is a subset of the flow form, so every JSON text maps to one
// document. Token positions are not tracked; events carry empty spans.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
	"github.com/zoobzio/scroll/event"
)

type driver struct{}

// Driver returns the go-json driver.
func Driver() event.Driver {
	return driver{}
}

func (driver) Name() string { return "go-json" }

func (driver) NewBytes(data []byte) event.Source {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &source{dec: dec}
}

type state int

const (
	stateInit state = iota
	stateBetween
	stateInDocument
	stateEnded
)

type source struct {
	dec   *j.Decoder
	state state
	depth int
	err   error
	// pending holds a token read ahead while opening a document.
	pending any
	hasTok  bool
}

func (s *source) Next() (event.Event, error) {
	if s.err != nil {
		return event.Event{}, s.err
	}
	switch s.state {
	case stateInit:
		s.state = stateBetween
		return event.Event{Kind: event.StreamStart}, nil
	case stateEnded:
		return event.Event{}, io.EOF
	case stateBetween:
		tok, err := s.dec.Token()
		if errors.Is(err, io.EOF) {
			s.state = stateEnded
			return event.Event{Kind: event.StreamEnd}, nil
		}
		if err != nil {
			return event.Event{}, s.fail(err)
		}
		s.pending, s.hasTok = tok, true
		s.state = stateInDocument
		return event.Event{Kind: event.DocumentStart}, nil
	}

	var tok any
	if s.hasTok {
		tok, s.hasTok = s.pending, false
	} else {
		if s.depth == 0 {
			s.state = stateBetween
			return event.Event{Kind: event.DocumentEnd}, nil
		}
		var err error
		tok, err = s.dec.Token()
		if errors.Is(err, io.EOF) {
			return event.Event{}, s.fail(io.ErrUnexpectedEOF)
		}
		if err != nil {
			return event.Event{}, s.fail(err)
		}
	}
	return s.convert(tok)
}

func (s *source) convert(tok any) (event.Event, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.depth++
			return event.Event{Kind: event.MappingStart, Style: event.Flow}, nil
		case '}':
			s.depth--
			return event.Event{Kind: event.MappingEnd}, nil
		case '[':
			s.depth++
			return event.Event{Kind: event.SequenceStart, Style: event.Flow}, nil
		case ']':
			s.depth--
			return event.Event{Kind: event.SequenceEnd}, nil
		}
		return event.Event{}, s.fail(errors.New("unexpected delimiter " + string(rune(v))))
	case string:
		return event.Event{Kind: event.Scalar, Value: v, Style: event.DoubleQuoted}, nil
	case j.Number:
		return event.Event{Kind: event.Scalar, Value: v.String()}, nil
	case float64:
		return event.Event{Kind: event.Scalar, Value: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case bool:
		return event.Event{Kind: event.Scalar, Value: strconv.FormatBool(v)}, nil
	case nil:
		return event.Event{Kind: event.Scalar, Value: "null"}, nil
	}
	return event.Event{}, s.fail(errors.New("unexpected token"))
}

func (s *source) fail(err error) error {
	s.err = &event.Error{Err: err}
	return s.err
}
