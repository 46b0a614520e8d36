package ply

import (
	"encoding/binary"
	"math"
)

// ScalarType is one of the fixed-width scalar types a PLY property can declare.
type ScalarType uint8

const (
	Invalid ScalarType = iota // zero value, never produced by the parser
	Float32
	Float64
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
)

type scalarInfo struct {
	name   string // canonical header spelling
	width  int
	signed bool
	float  bool
}

var scalarTable = [...]scalarInfo{
	Invalid: {name: "invalid"},
	Float32: {name: "float", width: 4, float: true},
	Float64: {name: "double", width: 8, float: true},
	Uint8:   {name: "uchar", width: 1},
	Int8:    {name: "char", width: 1, signed: true},
	Uint16:  {name: "ushort", width: 2},
	Int16:   {name: "short", width: 2, signed: true},
	Uint32:  {name: "uint", width: 4},
	Int32:   {name: "int", width: 4, signed: true},
}

// typeNames maps every spelling accepted in a header to its type.
// Both the classic names and the sized aliases are valid PLY.
var typeNames = map[string]ScalarType{
	"float":   Float32,
	"float32": Float32,
	"double":  Float64,
	"float64": Float64,
	"uchar":   Uint8,
	"uint8":   Uint8,
	"char":    Int8,
	"int8":    Int8,
	"ushort":  Uint16,
	"uint16":  Uint16,
	"short":   Int16,
	"int16":   Int16,
	"uint":    Uint32,
	"uint32":  Uint32,
	"int":     Int32,
	"int32":   Int32,
}

// LookupType resolves a header type name. The second result is false for
// anything outside the registry.
func LookupType(name string) (ScalarType, bool) {
	t, ok := typeNames[name]
	return t, ok
}

func (t ScalarType) valid() bool { return t > Invalid && int(t) < len(scalarTable) }

// Width is the packed byte width of the type, 0 for Invalid.
func (t ScalarType) Width() int {
	if !t.valid() {
		return 0
	}
	return scalarTable[t].width
}

func (t ScalarType) IsFloat() bool  { return t.valid() && scalarTable[t].float }
func (t ScalarType) IsSigned() bool { return t.valid() && (scalarTable[t].signed || scalarTable[t].float) }

func (t ScalarType) String() string {
	if !t.valid() {
		return "invalid"
	}
	return scalarTable[t].name
}

// Value is one decoded scalar. The raw bits are kept so that encoding a
// decoded value always reproduces the original bytes, NaN payloads included.
type Value struct {
	Type ScalarType
	bits uint64
}

// Decode reads one value of type t from the front of b.
// b must hold at least t.Width() bytes.
func (t ScalarType) Decode(b []byte, order binary.ByteOrder) Value {
	v := Value{Type: t}
	switch t.Width() {
	case 1:
		v.bits = uint64(b[0])
	case 2:
		v.bits = uint64(order.Uint16(b))
	case 4:
		v.bits = uint64(order.Uint32(b))
	case 8:
		v.bits = order.Uint64(b)
	}
	return v
}

// Put encodes v into the front of b with its declared width and the given
// byte order. b must hold at least v.Type.Width() bytes.
func (v Value) Put(b []byte, order binary.ByteOrder) {
	switch v.Type.Width() {
	case 1:
		b[0] = byte(v.bits)
	case 2:
		order.PutUint16(b, uint16(v.bits))
	case 4:
		order.PutUint32(b, uint32(v.bits))
	case 8:
		order.PutUint64(b, v.bits)
	}
}

func (v Value) Float64() float64 {
	switch v.Type {
	case Float32:
		return float64(math.Float32frombits(uint32(v.bits)))
	case Float64:
		return math.Float64frombits(v.bits)
	case Int8, Int16, Int32:
		return float64(v.Int64())
	}
	return float64(v.bits)
}

// Int64 returns the value sign-extended from its declared width.
// Floats are truncated toward zero.
func (v Value) Int64() int64 {
	switch v.Type {
	case Int8:
		return int64(int8(v.bits))
	case Int16:
		return int64(int16(v.bits))
	case Int32:
		return int64(int32(v.bits))
	case Float32, Float64:
		return int64(v.Float64())
	}
	return int64(v.bits)
}

func (v Value) Uint64() uint64 {
	if v.Type.IsFloat() {
		return uint64(v.Float64())
	}
	return v.bits
}

// Bits exposes the raw stored bits, zero-extended from the declared width.
func (v Value) Bits() uint64 { return v.bits }
