// Package yamlv3 provides the default scroll driver, built on gopkg.in/yaml.v3.
//
// Each document is parsed into a yaml.Node tree and flattened into events.
// Aliases are rejected; anchors and comments are dropped.
package yamlv3

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/zoobzio/scroll/event"
	"gopkg.in/yaml.v3"
)

// ErrAlias is reported for alias nodes, which scroll does not resolve.
var ErrAlias = errors.New("aliases are not supported")

var lineMessage = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

type driver struct{}

// Driver returns the yaml.v3 driver.
func Driver() event.Driver {
	return driver{}
}

func (driver) Name() string { return "yaml.v3" }

func (driver) NewBytes(data []byte) event.Source {
	return &source{dec: yaml.NewDecoder(bytes.NewReader(data))}
}

// item is a pending node or a pre-built end event.
type item struct {
	node *yaml.Node
	end  *event.Event
}

type source struct {
	dec     *yaml.Decoder
	started bool
	done    bool
	err     error
	stack   []item
}

func (s *source) Next() (event.Event, error) {
	if !s.started {
		s.started = true
		return event.Event{Kind: event.StreamStart, Span: event.At(1, 1)}, nil
	}
	for len(s.stack) == 0 {
		if s.err != nil {
			return event.Event{}, s.err
		}
		if s.done {
			return event.Event{}, io.EOF
		}
		var doc yaml.Node
		err := s.dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			s.done = true
			return event.Event{Kind: event.StreamEnd}, nil
		}
		if err != nil {
			s.err = convert(err)
			return event.Event{}, s.err
		}
		s.pushDocument(&doc)
	}

	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	if top.end != nil {
		return *top.end, nil
	}
	return s.open(top.node)
}

func (s *source) pushDocument(doc *yaml.Node) {
	span := event.At(doc.Line, doc.Column)
	content := &yaml.Node{Kind: yaml.ScalarNode, Line: doc.Line, Column: doc.Column}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		content = doc.Content[0]
	} else if doc.Kind != yaml.DocumentNode {
		content = doc
	}
	s.push(event.Event{Kind: event.DocumentEnd, Span: span})
	s.stack = append(s.stack, item{node: content})
	s.push(event.Event{Kind: event.DocumentStart, Span: span})
}

func (s *source) push(ev event.Event) {
	s.stack = append(s.stack, item{end: &ev})
}

// open emits the event for n and schedules its children.
func (s *source) open(n *yaml.Node) (event.Event, error) {
	span := event.At(n.Line, n.Column)
	switch n.Kind {
	case yaml.ScalarNode:
		return event.Event{Kind: event.Scalar, Value: n.Value, Tag: n.Tag, Style: style(n.Style), Span: span}, nil
	case yaml.SequenceNode:
		s.children(n, event.SequenceEnd, span)
		return event.Event{Kind: event.SequenceStart, Tag: n.Tag, Style: style(n.Style), Span: span}, nil
	case yaml.MappingNode:
		s.children(n, event.MappingEnd, span)
		return event.Event{Kind: event.MappingStart, Tag: n.Tag, Style: style(n.Style), Span: span}, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return event.Event{Kind: event.Scalar, Span: span}, nil
		}
		return s.open(n.Content[0])
	case yaml.AliasNode:
		s.err = &event.Error{Err: ErrAlias, Span: span}
		s.stack = nil
		return event.Event{}, s.err
	}
	s.err = &event.Error{Err: errors.New("unknown node kind " + strconv.Itoa(int(n.Kind))), Span: span}
	s.stack = nil
	return event.Event{}, s.err
}

func (s *source) children(n *yaml.Node, end event.Kind, span event.Span) {
	s.push(event.Event{Kind: end, Span: span})
	for i := len(n.Content) - 1; i >= 0; i-- {
		s.stack = append(s.stack, item{node: n.Content[i]})
	}
}

func style(st yaml.Style) event.Style {
	switch {
	case st&yaml.DoubleQuotedStyle != 0:
		return event.DoubleQuoted
	case st&yaml.SingleQuotedStyle != 0:
		return event.SingleQuoted
	case st&yaml.LiteralStyle != 0:
		return event.Literal
	case st&yaml.FoldedStyle != 0:
		return event.Folded
	case st&yaml.FlowStyle != 0:
		return event.Flow
	}
	return event.Plain
}

// convert lifts yaml.v3's "yaml: line N: msg" errors into positioned errors.
func convert(err error) error {
	msg := err.Error()
	if m := lineMessage.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &event.Error{Err: errors.New(m[2]), Span: event.At(line, 0)}
	}
	return &event.Error{Err: errors.New(strings.TrimPrefix(msg, "yaml: "))}
}
