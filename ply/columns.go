package ply

import (
	"bytes"
	"fmt"
	"strconv"
)

// ReadColumns decodes the named vertex properties of a PLY file into one
// float64 slice per name, in vertex order.
func ReadColumns(data []byte, names ...string) (map[string][]float64, error) {
	h, payload, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = -1
		for j, p := range h.Vertex.Properties {
			if p.Name == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingProperty, name)
		}
	}

	// Every vertex takes at least one payload byte, so the header count
	// alone never sizes an allocation.
	capHint := min(h.Vertex.Count, len(payload))
	cols := make([][]float64, len(names))
	for i := range cols {
		cols[i] = make([]float64, 0, capHint)
	}
	if h.Format.IsBinary() {
		err = readBinaryColumns(h, payload, idx, cols)
	} else {
		err = readTextColumns(h, payload, idx, cols)
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string][]float64, len(names))
	for i, name := range names {
		out[name] = cols[i]
	}
	return out, nil
}

func readBinaryColumns(h *Header, payload []byte, idx []int, cols [][]float64) error {
	order := h.Format.ByteOrder()
	c := newByteCursor(payload, order)
	for _, e := range h.Elements[:h.VertexElement] {
		if err := c.skipElement(e); err != nil {
			return truncated(e, err)
		}
	}
	props := h.Vertex.Properties
	size := h.Vertex.RecordSize()
	block := payload[c.pos:]
	if h.Vertex.Count > len(block)/size {
		return fmt.Errorf("%w: %d vertices of %d bytes, have %d bytes", ErrTruncatedPayload, h.Vertex.Count, size, len(block))
	}
	vals := make([]Value, 0, len(props))
	for _, rec := range Records(block, size, h.Vertex.Count) {
		vals = DecodeRecord(rec, props, order, vals)
		for i, k := range idx {
			cols[i] = append(cols[i], vals[k].Float64())
		}
	}
	return nil
}

func readTextColumns(h *Header, payload []byte, idx []int, cols [][]float64) error {
	r := newLineReader(payload)
	for _, e := range h.Elements[:h.VertexElement] {
		for i := 0; i < e.Count; i++ {
			if _, err := r.next(); err != nil {
				return fmt.Errorf("%w: element %s", ErrTruncatedPayload, e.Name)
			}
		}
	}
	nprops := len(h.Vertex.Properties)
	for v := 0; v < h.Vertex.Count; v++ {
		line, err := r.next()
		if err != nil {
			return fmt.Errorf("%w: %d of %d vertex lines present", ErrTruncatedPayload, v, h.Vertex.Count)
		}
		tokens := bytes.Fields(line)
		if len(tokens) < nprops {
			return fmt.Errorf("%w: vertex %d has %d values, want %d", ErrTruncatedPayload, v, len(tokens), nprops)
		}
		for i, k := range idx {
			f, err := strconv.ParseFloat(string(tokens[k]), 64)
			if err != nil {
				return fmt.Errorf("vertex %d: property %s: %w", v, h.Vertex.Properties[k].Name, err)
			}
			cols[i] = append(cols[i], f)
		}
	}
	return nil
}
