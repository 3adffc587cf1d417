// Package goyaml provides a scroll driver built on github.com/goccy/go-yaml.
//
// The whole input is parsed into an AST on the first call to Next and then
// walked document by document. Aliases are rejected.
package goyaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
	"github.com/zoobzio/scroll/event"
)

// ErrAlias is reported for alias nodes, which scroll does not resolve.
var ErrAlias = errors.New("aliases are not supported")

type driver struct{}

// Driver returns the goccy/go-yaml driver.
func Driver() event.Driver {
	return driver{}
}

func (driver) Name() string { return "go-yaml" }

func (driver) NewBytes(data []byte) event.Source {
	return &source{data: data}
}

type item struct {
	node ast.Node
	tag  string
	end  *event.Event
}

type source struct {
	data    []byte
	started bool
	parsed  bool
	ended   bool
	err     error
	docs    []*ast.DocumentNode
	stack   []item
}

// tokenError matches the syntax errors go-yaml reports.
type tokenError interface {
	GetToken() *token.Token
}

func (s *source) Next() (event.Event, error) {
	if s.err != nil {
		return event.Event{}, s.err
	}
	if !s.started {
		s.started = true
		return event.Event{Kind: event.StreamStart, Span: event.At(1, 1)}, nil
	}
	if !s.parsed {
		s.parsed = true
		file, err := parser.ParseBytes(s.data, 0)
		if err != nil {
			return event.Event{}, s.fail(convert(err))
		}
		s.docs = file.Docs
	}
	for len(s.stack) == 0 {
		if len(s.docs) == 0 {
			if s.ended {
				return event.Event{}, io.EOF
			}
			s.ended = true
			return event.Event{Kind: event.StreamEnd}, nil
		}
		doc := s.docs[0]
		s.docs = s.docs[1:]
		s.pushDocument(doc)
	}

	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	if top.end != nil {
		return *top.end, nil
	}
	return s.open(top.node, top.tag)
}

func (s *source) fail(err error) error {
	s.err = err
	s.stack = nil
	return err
}

func (s *source) pushDocument(doc *ast.DocumentNode) {
	span := spanOf(doc.Start)
	s.push(event.Event{Kind: event.DocumentEnd, Span: span})
	s.stack = append(s.stack, item{node: doc.Body})
	s.push(event.Event{Kind: event.DocumentStart, Span: span})
}

func (s *source) push(ev event.Event) {
	s.stack = append(s.stack, item{end: &ev})
}

// open emits the event for n and schedules its children. A nil node or an
// implicit null is an empty scalar.
func (s *source) open(n ast.Node, tag string) (event.Event, error) {
	if n == nil {
		return event.Event{Kind: event.Scalar, Tag: tag}, nil
	}
	span := spanOf(n.GetToken())
	switch n := n.(type) {
	case *ast.MappingNode:
		s.push(event.Event{Kind: event.MappingEnd, Span: span})
		for i := len(n.Values) - 1; i >= 0; i-- {
			s.entry(n.Values[i])
		}
		return event.Event{Kind: event.MappingStart, Tag: tag, Style: flow(n.IsFlowStyle), Span: span}, nil
	case *ast.MappingValueNode:
		s.push(event.Event{Kind: event.MappingEnd, Span: span})
		s.entry(n)
		return event.Event{Kind: event.MappingStart, Tag: tag, Span: span}, nil
	case *ast.SequenceNode:
		s.push(event.Event{Kind: event.SequenceEnd, Span: span})
		for i := len(n.Values) - 1; i >= 0; i-- {
			if _, comment := n.Values[i].(*ast.CommentGroupNode); comment {
				continue
			}
			s.stack = append(s.stack, item{node: n.Values[i]})
		}
		return event.Event{Kind: event.SequenceStart, Tag: tag, Style: flow(n.IsFlowStyle), Span: span}, nil
	case *ast.TagNode:
		return s.open(n.Value, n.Start.Value)
	case *ast.AnchorNode:
		return s.open(n.Value, tag)
	case *ast.MappingKeyNode:
		return s.open(n.Value, tag)
	case *ast.CommentGroupNode:
		return event.Event{Kind: event.Scalar, Tag: tag, Span: span}, nil
	case *ast.AliasNode:
		return event.Event{}, s.fail(&event.Error{Err: ErrAlias, Span: span})
	case *ast.LiteralNode:
		st := event.Literal
		if n.Start != nil && n.Start.Type == token.FoldedType {
			st = event.Folded
		}
		value := ""
		if n.Value != nil {
			value = n.Value.Value
		}
		return event.Event{Kind: event.Scalar, Value: value, Tag: tag, Style: st, Span: span}, nil
	case *ast.NullNode:
		value := ""
		if tok := n.GetToken(); tok != nil && tok.Type != token.ImplicitNullType {
			value = tok.Value
		}
		return event.Event{Kind: event.Scalar, Value: value, Tag: tag, Span: span}, nil
	case *ast.StringNode:
		return event.Event{Kind: event.Scalar, Value: n.Value, Tag: tag, Style: quoting(n.GetToken()), Span: span}, nil
	}
	value := ""
	if tok := n.GetToken(); tok != nil {
		value = tok.Value
	}
	return event.Event{Kind: event.Scalar, Value: value, Tag: tag, Span: span}, nil
}

// entry schedules a key and its value, key first.
func (s *source) entry(mv *ast.MappingValueNode) {
	s.stack = append(s.stack, item{node: mv.Value})
	s.stack = append(s.stack, item{node: mv.Key})
}

func spanOf(tok *token.Token) event.Span {
	if tok == nil || tok.Position == nil {
		return event.Span{}
	}
	m := event.Mark{Line: tok.Position.Line, Column: tok.Position.Column, Offset: tok.Position.Offset}
	return event.Span{Start: m, End: m}
}

func flow(isFlow bool) event.Style {
	if isFlow {
		return event.Flow
	}
	return event.Plain
}

func quoting(tok *token.Token) event.Style {
	if tok == nil {
		return event.Plain
	}
	switch tok.Type {
	case token.DoubleQuoteType:
		return event.DoubleQuoted
	case token.SingleQuoteType:
		return event.SingleQuoted
	}
	return event.Plain
}

func convert(err error) error {
	var te tokenError
	if errors.As(err, &te) {
		return &event.Error{Err: err, Span: spanOf(te.GetToken())}
	}
	return &event.Error{Err: err}
}
