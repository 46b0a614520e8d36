package ply

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// binaryLayout is the precomputed record geometry for one plan.
type binaryLayout struct {
	props   []Property
	kept    []int
	inSize  int
	outSize int
}

func newBinaryLayout(props []Property, plan Plan) (binaryLayout, error) {
	l := binaryLayout{props: props, kept: plan.Kept}
	for _, p := range props {
		if p.Type.Width() == 0 {
			return l, fmt.Errorf("%w: property %s has no fixed width", ErrMalformedHeader, p.Name)
		}
		l.inSize += p.Type.Width()
	}
	for _, k := range plan.Kept {
		if k < 0 || k >= len(props) {
			return l, fmt.Errorf("plan index %d out of range for %d properties", k, len(props))
		}
		l.outSize += props[k].Type.Width()
	}
	return l, nil
}

func (l binaryLayout) check(payload []byte, count int) error {
	if count < 0 || count > len(payload)/l.inSize {
		return fmt.Errorf("%w: %d vertices of %d bytes, have %d bytes",
			ErrTruncatedPayload, count, l.inSize, len(payload))
	}
	return nil
}

// project re-encodes count records from in into out, which must be sized
// count*outSize.
func (l binaryLayout) project(out, in []byte, count int, order binary.ByteOrder) {
	vals := make([]Value, 0, len(l.props))
	off := 0
	for _, rec := range Records(in, l.inSize, count) {
		vals = DecodeRecord(rec, l.props, order, vals)
		for _, k := range l.kept {
			v := vals[k]
			v.Put(out[off:], order)
			off += v.Type.Width()
		}
	}
}

// TransformBinary re-encodes count packed vertex records laid out as props,
// keeping only the plan's properties, in the same byte order. The output is
// exactly count*plan.RecordSize() bytes.
func TransformBinary(payload []byte, props []Property, plan Plan, count int, order binary.ByteOrder) ([]byte, error) {
	l, err := newBinaryLayout(props, plan)
	if err != nil {
		return nil, err
	}
	if err := l.check(payload, count); err != nil {
		return nil, err
	}
	out := make([]byte, count*l.outSize)
	l.project(out, payload, count, order)
	return out, nil
}

// minParallelRecords keeps small payloads on the sequential path.
const minParallelRecords = 4096

// TransformBinaryParallel is TransformBinary split across workers goroutines,
// each owning a contiguous record range. Output is identical to TransformBinary.
func TransformBinaryParallel(payload []byte, props []Property, plan Plan, count int, order binary.ByteOrder, workers int) ([]byte, error) {
	if workers <= 1 || count < minParallelRecords {
		return TransformBinary(payload, props, plan, count, order)
	}
	l, err := newBinaryLayout(props, plan)
	if err != nil {
		return nil, err
	}
	if err := l.check(payload, count); err != nil {
		return nil, err
	}
	out := make([]byte, count*l.outSize)
	per := (count + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < count; start += per {
		end := min(start+per, count)
		g.Go(func() error {
			l.project(out[start*l.outSize:end*l.outSize], payload[start*l.inSize:end*l.inSize], end-start, order)
			return nil
		})
	}
	return out, g.Wait()
}
