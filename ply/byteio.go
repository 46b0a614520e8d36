package ply

import (
	"bytes"
	"encoding/binary"
	"io"
)

// byteCursor walks a binary payload without copying it.
type byteCursor struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func newByteCursor(b []byte, order binary.ByteOrder) *byteCursor {
	return &byteCursor{data: b, order: order}
}

func (c *byteCursor) skip(n int) error {
	if n < 0 || len(c.data)-c.pos < n {
		return io.ErrUnexpectedEOF
	}
	c.pos += n
	return nil
}

// readCount reads a list length of type t.
func (c *byteCursor) readCount(t ScalarType) (int, error) {
	w := t.Width()
	if len(c.data)-c.pos < w {
		return 0, io.ErrUnexpectedEOF
	}
	v := t.Decode(c.data[c.pos:], c.order)
	c.pos += w
	n := v.Int64()
	if n < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	return int(n), nil
}

// lineReader yields the non-blank lines of a text payload with any trailing
// carriage return removed.
type lineReader struct {
	data []byte
	pos  int
}

func newLineReader(b []byte) *lineReader { return &lineReader{data: b} }

func (r *lineReader) next() ([]byte, error) {
	for r.pos < len(r.data) {
		rest := r.data[r.pos:]
		nl := bytes.IndexByte(rest, '\n')
		var line []byte
		if nl < 0 {
			line = rest
			r.pos = len(r.data)
		} else {
			line = rest[:nl]
			r.pos += nl + 1
		}
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		return line, nil
	}
	return nil, io.ErrUnexpectedEOF
}
