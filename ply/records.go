package ply

import (
	"encoding/binary"
	"iter"
)

// Records yields the fixed-size records at the front of payload, at most
// count of them and never past the end of payload. The sequence is lazy and
// can be ranged over more than once.
func Records(payload []byte, recordSize, count int) iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		if recordSize <= 0 {
			return
		}
		if fit := len(payload) / recordSize; count > fit {
			count = fit
		}
		for i := 0; i < count; i++ {
			off := i * recordSize
			if !yield(i, payload[off:off+recordSize:off+recordSize]) {
				return
			}
		}
	}
}

// DecodeRecord decodes every field of rec in declared order into dst.
func DecodeRecord(rec []byte, props []Property, order binary.ByteOrder, dst []Value) []Value {
	dst = dst[:0]
	off := 0
	for _, p := range props {
		dst = append(dst, p.Type.Decode(rec[off:], order))
		off += p.Type.Width()
	}
	return dst
}
