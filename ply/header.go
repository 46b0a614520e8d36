package ply

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Format is the payload encoding declared by the header's format line.
type Format uint8

const (
	FormatASCII Format = iota
	FormatBinaryLittleEndian
	FormatBinaryBigEndian
)

func (f Format) IsBinary() bool { return f != FormatASCII }

// ByteOrder returns the order of a binary payload, nil for ASCII.
func (f Format) ByteOrder() binary.ByteOrder {
	switch f {
	case FormatBinaryLittleEndian:
		return binary.LittleEndian
	case FormatBinaryBigEndian:
		return binary.BigEndian
	}
	return nil
}

func (f Format) String() string {
	switch f {
	case FormatBinaryLittleEndian:
		return "binary_little_endian"
	case FormatBinaryBigEndian:
		return "binary_big_endian"
	}
	return "ascii"
}

// Property is one scalar field of every vertex record.
type Property struct {
	Name string
	Type ScalarType
}

// ElementProperty is a property of any element. For list properties Type is
// the item type and CountType the type of the leading length field.
type ElementProperty struct {
	Name      string
	Type      ScalarType
	List      bool
	CountType ScalarType
}

// Element is a declared element block, in header order.
type Element struct {
	Name       string
	Count      int
	Properties []ElementProperty
}

// Vertex describes the first element named "vertex". It is built once by
// ParseHeader and not mutated afterwards.
type Vertex struct {
	Count      int
	Properties []Property
	Format     Format
}

// RecordSize is the packed byte size of one binary vertex record.
func (v Vertex) RecordSize() int {
	n := 0
	for _, p := range v.Properties {
		n += p.Type.Width()
	}
	return n
}

// Header is a parsed PLY header. Lines holds every raw header line with its
// terminator so the header can be reproduced byte for byte.
type Header struct {
	Format   Format
	Version  string
	Comments []string
	ObjInfo  []string
	Elements []Element
	Vertex   Vertex

	// VertexElement is the index of the vertex element in Elements.
	VertexElement int

	Lines []string

	// propLines[i] is the index in Lines of vertex property i.
	propLines []int
}

// Bytes returns the header exactly as it was read.
func (h *Header) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range h.Lines {
		buf.WriteString(l)
	}
	return buf.Bytes()
}

// ParseHeader parses the header at the front of data and returns it with the
// payload slice that follows end_header. Nothing after end_header is inspected.
func ParseHeader(data []byte) (*Header, []byte, error) {
	h := &Header{VertexElement: -1}
	pos := 0
	lineNo := 0
	cur := -1 // element receiving property lines
	inVertex := false
	for {
		nl := bytes.IndexByte(data[pos:], '\n')
		if nl < 0 {
			return nil, nil, fmt.Errorf("%w: missing end_header", ErrMalformedHeader)
		}
		raw := string(data[pos : pos+nl+1])
		pos += nl + 1
		lineNo++
		fields := strings.Fields(raw)

		if lineNo == 1 {
			if len(fields) != 1 || fields[0] != "ply" {
				return nil, nil, fmt.Errorf("%w: missing ply magic", ErrMalformedHeader)
			}
			h.Lines = append(h.Lines, raw)
			continue
		}
		if len(fields) == 0 {
			h.Lines = append(h.Lines, raw)
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) > 1 {
				switch fields[1] {
				case "binary_little_endian":
					h.Format = FormatBinaryLittleEndian
				case "binary_big_endian":
					h.Format = FormatBinaryBigEndian
				default:
					h.Format = FormatASCII
				}
			}
			if len(fields) > 2 {
				h.Version = fields[2]
			}
		case "comment":
			h.Comments = append(h.Comments, restOf(raw, "comment"))
		case "obj_info":
			h.ObjInfo = append(h.ObjInfo, restOf(raw, "obj_info"))
		case "element":
			if len(fields) != 3 {
				return nil, nil, fmt.Errorf("%w: line %d: expected element <name> <count>", ErrMalformedHeader, lineNo)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, nil, fmt.Errorf("%w: line %d: invalid count %q for element %s", ErrMalformedHeader, lineNo, fields[2], fields[1])
			}
			h.Elements = append(h.Elements, Element{Name: fields[1], Count: count})
			cur = len(h.Elements) - 1
			// Only the first vertex element is special; a repeated one is opaque.
			inVertex = fields[1] == "vertex" && h.VertexElement < 0
			if inVertex {
				h.VertexElement = cur
				h.Vertex.Count = count
			}
		case "property":
			if cur < 0 {
				return nil, nil, fmt.Errorf("%w: line %d: property before any element", ErrMalformedHeader, lineNo)
			}
			ep, err := parseProperty(fields, inVertex)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrMalformedHeader, lineNo, err)
			}
			h.Elements[cur].Properties = append(h.Elements[cur].Properties, ep)
			if inVertex {
				h.Vertex.Properties = append(h.Vertex.Properties, Property{Name: ep.Name, Type: ep.Type})
				h.propLines = append(h.propLines, len(h.Lines))
			}
		case "end_header":
			h.Lines = append(h.Lines, raw)
			if err := h.validate(); err != nil {
				return nil, nil, err
			}
			h.Vertex.Format = h.Format
			return h, data[pos:], nil
		}
		h.Lines = append(h.Lines, raw)
	}
}

func parseProperty(fields []string, strict bool) (ElementProperty, error) {
	if len(fields) >= 2 && fields[1] == "list" {
		if strict {
			return ElementProperty{}, fmt.Errorf("list property in vertex element")
		}
		if len(fields) != 5 {
			return ElementProperty{}, fmt.Errorf("expected property list <count-type> <item-type> <name>")
		}
		// Unknown types outside the vertex element stay Invalid; they only
		// matter if the element has to be sized.
		ct, _ := LookupType(fields[2])
		it, _ := LookupType(fields[3])
		return ElementProperty{Name: fields[4], Type: it, List: true, CountType: ct}, nil
	}
	if len(fields) != 3 {
		return ElementProperty{}, fmt.Errorf("expected property <type> <name>")
	}
	t, ok := LookupType(fields[1])
	if !ok && strict {
		return ElementProperty{}, fmt.Errorf("unknown property type %q", fields[1])
	}
	return ElementProperty{Name: fields[2], Type: t}, nil
}

func (h *Header) validate() error {
	if h.VertexElement < 0 {
		return fmt.Errorf("%w: no vertex element", ErrMalformedHeader)
	}
	if len(h.Vertex.Properties) == 0 {
		return fmt.Errorf("%w: vertex element has no properties", ErrMalformedHeader)
	}
	return nil
}

func restOf(raw, keyword string) string {
	s := strings.TrimSpace(raw)
	return strings.TrimSpace(strings.TrimPrefix(s, keyword))
}
