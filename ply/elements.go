package ply

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// fixedWidth returns the record size of an element without list properties.
func fixedWidth(e Element) (int, bool) {
	n := 0
	for _, p := range e.Properties {
		if p.List {
			return 0, false
		}
		n += p.Type.Width()
	}
	return n, true
}

func checkSizable(e Element) error {
	for _, p := range e.Properties {
		if p.Type.Width() == 0 || (p.List && p.CountType.Width() == 0) {
			return fmt.Errorf("%w: element %s: property %s has an unknown type", ErrMalformedHeader, e.Name, p.Name)
		}
	}
	return nil
}

// skipElement advances over the binary data of every item of e.
func (c *byteCursor) skipElement(e Element) error {
	if err := checkSizable(e); err != nil {
		return err
	}
	if w, ok := fixedWidth(e); ok {
		if w == 0 || e.Count == 0 {
			return nil
		}
		if e.Count > (len(c.data)-c.pos)/w {
			return io.ErrUnexpectedEOF
		}
		c.pos += e.Count * w
		return nil
	}
	for i := 0; i < e.Count; i++ {
		for _, p := range e.Properties {
			if !p.List {
				if err := c.skip(p.Type.Width()); err != nil {
					return err
				}
				continue
			}
			n, err := c.readCount(p.CountType)
			if err != nil {
				return err
			}
			if n > (len(c.data)-c.pos)/p.Type.Width() {
				return io.ErrUnexpectedEOF
			}
			c.pos += n * p.Type.Width()
		}
	}
	return nil
}

func truncated(e Element, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: element %s", ErrTruncatedPayload, e.Name)
	}
	return err
}

// binaryBody rebuilds a binary payload: elements declared before and after
// the vertex element are copied verbatim around the re-encoded vertex block.
func binaryBody(h *Header, payload []byte, plan Plan, workers int) ([]byte, error) {
	order := h.Format.ByteOrder()
	c := newByteCursor(payload, order)
	for _, e := range h.Elements[:h.VertexElement] {
		if err := c.skipElement(e); err != nil {
			return nil, truncated(e, err)
		}
	}
	vStart := c.pos

	block, err := TransformBinaryParallel(payload[vStart:], h.Vertex.Properties, plan, h.Vertex.Count, order, workers)
	if err != nil {
		return nil, err
	}

	c.pos = vStart + h.Vertex.Count*h.Vertex.RecordSize()
	vEnd := c.pos
	for _, e := range h.Elements[h.VertexElement+1:] {
		if err := c.skipElement(e); err != nil {
			return nil, truncated(e, err)
		}
	}

	out := make([]byte, 0, vStart+len(block)+c.pos-vEnd)
	out = append(out, payload[:vStart]...)
	out = append(out, block...)
	out = append(out, payload[vEnd:c.pos]...)
	return out, nil
}

// textBody is binaryBody for ASCII payloads; every element item is one line.
func textBody(h *Header, payload []byte, plan Plan) ([]byte, error) {
	r := newLineReader(payload)
	var buf bytes.Buffer
	copyLines := func(e Element) error {
		for i := 0; i < e.Count; i++ {
			line, err := r.next()
			if err != nil {
				return fmt.Errorf("%w: element %s: %d of %d lines present", ErrTruncatedPayload, e.Name, i, e.Count)
			}
			buf.Write(line)
			buf.WriteByte('\n')
		}
		return nil
	}

	for _, e := range h.Elements[:h.VertexElement] {
		if err := copyLines(e); err != nil {
			return nil, err
		}
	}
	block, err := transformText(r, len(h.Vertex.Properties), plan, h.Vertex.Count)
	if err != nil {
		return nil, err
	}
	buf.Write(block)
	for _, e := range h.Elements[h.VertexElement+1:] {
		if err := copyLines(e); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
