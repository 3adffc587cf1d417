package scroll

import (
	"errors"
	"io"

	"github.com/zoobzio/scroll/event"
)

type pending struct {
	ev  event.Event
	err error
}

// Cursor wraps an event.Source with single-event lookahead.
//
// A failure from the source is deferred until the event it replaces is
// consumed: Peek reports it only as "nothing available".
type Cursor struct {
	src    event.Source
	peeked *pending
	last   event.Span
}

// NewCursor returns a Cursor reading from src.
func NewCursor(src event.Source) *Cursor {
	return &Cursor{src: src}
}

// Next consumes and returns the next event. Exhaustion of the source is
// reported as ErrEarlyTermination.
func (c *Cursor) Next() (event.Event, error) {
	var p pending
	if c.peeked != nil {
		p = *c.peeked
		c.peeked = nil
	} else {
		p.ev, p.err = c.src.Next()
	}
	if p.err != nil {
		return event.Event{}, c.wrap(p.err)
	}
	if !p.ev.Span.IsZero() {
		c.last = p.ev.Span
	}
	return p.ev, nil
}

// Peek returns the next event without consuming it. The boolean is false
// when the source is exhausted or has failed; the failure surfaces on the
// following Next.
func (c *Cursor) Peek() (event.Event, bool) {
	if c.peeked == nil {
		ev, err := c.src.Next()
		c.peeked = &pending{ev: ev, err: err}
	}
	if c.peeked.err != nil {
		return event.Event{}, false
	}
	return c.peeked.ev, true
}

// Span returns the position of the most recently consumed event.
func (c *Cursor) Span() event.Span {
	return c.last
}

func (c *Cursor) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrEarlyTermination
	}
	var se *ScanError
	if errors.As(err, &se) {
		return err
	}
	var pe *event.Error
	if errors.As(err, &pe) {
		span := pe.Span
		if span.IsZero() {
			span = c.last
		}
		return &ScanError{Err: pe.Err, Span: span}
	}
	return &ScanError{Err: err, Span: c.last}
}

// Expect consumes the next event and requires it to be of kind k.
func (c *Cursor) Expect(k event.Kind, context string) (event.Event, error) {
	ev, err := c.Next()
	if err != nil {
		return ev, err
	}
	if ev.Kind != k {
		return ev, newUnexpected(ev, context)
	}
	return ev, nil
}

// ExpectStreamStart consumes a StreamStart event.
func (c *Cursor) ExpectStreamStart(context string) error {
	_, err := c.Expect(event.StreamStart, context)
	return err
}

// ExpectStreamEnd consumes a StreamEnd event.
func (c *Cursor) ExpectStreamEnd(context string) error {
	_, err := c.Expect(event.StreamEnd, context)
	return err
}

// ExpectDocumentStart consumes a DocumentStart event.
func (c *Cursor) ExpectDocumentStart(context string) error {
	_, err := c.Expect(event.DocumentStart, context)
	return err
}

// ExpectDocumentEnd consumes a DocumentEnd event.
func (c *Cursor) ExpectDocumentEnd(context string) error {
	_, err := c.Expect(event.DocumentEnd, context)
	return err
}

// ExpectSequenceStart consumes a SequenceStart event.
func (c *Cursor) ExpectSequenceStart(context string) error {
	_, err := c.Expect(event.SequenceStart, context)
	return err
}

// ExpectSequenceEnd consumes a SequenceEnd event.
func (c *Cursor) ExpectSequenceEnd(context string) error {
	_, err := c.Expect(event.SequenceEnd, context)
	return err
}

// ExpectMappingStart consumes a MappingStart event.
func (c *Cursor) ExpectMappingStart(context string) error {
	_, err := c.Expect(event.MappingStart, context)
	return err
}

// ExpectMappingEnd consumes a MappingEnd event.
func (c *Cursor) ExpectMappingEnd(context string) error {
	_, err := c.Expect(event.MappingEnd, context)
	return err
}

// Skip consumes one complete node: a scalar, or a collection with all of
// its contents.
func (c *Cursor) Skip() error {
	return c.node(nil)
}

// Record consumes one complete node and returns its events.
func (c *Cursor) Record() ([]event.Event, error) {
	var events []event.Event
	if err := c.node(&events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Cursor) node(rec *[]event.Event) error {
	depth := 0
	for {
		ev, err := c.Next()
		if err != nil {
			return err
		}
		switch {
		case ev.Kind.IsStart():
			depth++
		case ev.Kind.IsEnd():
			depth--
			if depth < 0 {
				return newUnexpected(ev, "node")
			}
		case ev.Kind != event.Scalar:
			return newUnexpected(ev, "node")
		}
		if rec != nil {
			*rec = append(*rec, ev)
		}
		if depth == 0 {
			return nil
		}
	}
}

// ConsumeToSequenceEnd skips the remaining elements of the open sequence
// and consumes its end.
func (c *Cursor) ConsumeToSequenceEnd() error {
	return c.drain(event.SequenceEnd, "sequence")
}

// ConsumeToMappingEnd skips the remaining entries of the open mapping and
// consumes its end.
func (c *Cursor) ConsumeToMappingEnd() error {
	return c.drain(event.MappingEnd, "mapping")
}

func (c *Cursor) drain(end event.Kind, context string) error {
	for {
		ev, ok := c.Peek()
		if ok && ev.Kind.IsEnd() {
			if _, err := c.Next(); err != nil {
				return err
			}
			if ev.Kind != end {
				return newUnexpected(ev, context)
			}
			return nil
		}
		if err := c.node(nil); err != nil {
			return err
		}
	}
}
