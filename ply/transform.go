package ply

import "fmt"

// Options configures Transform.
type Options struct {
	// Keep selects the vertex properties to retain. Nil means KeepDirectColor.
	Keep Predicate
	// Workers > 1 splits large binary vertex blocks across goroutines.
	Workers int
}

func (o Options) keep() Predicate {
	if o.Keep == nil {
		return KeepDirectColor
	}
	return o.Keep
}

// Result describes a completed transform.
type Result struct {
	Header      *Header
	Plan        Plan
	HeaderBytes int
	Output      []byte
}

// WouldChange reports whether Transform with keep would remove at least one
// vertex property. Only the header is parsed.
func WouldChange(data []byte, keep Predicate) (bool, error) {
	h, _, err := ParseHeader(data)
	if err != nil {
		return false, err
	}
	if keep == nil {
		keep = KeepDirectColor
	}
	return NewPlan(h.Vertex.Properties, keep).Changes(), nil
}

// Transform removes the vertex properties rejected by opts.Keep and returns
// the new file. It returns ErrNoChange, and no output, when nothing would be
// removed, and ErrNothingKept when every vertex property would be. The input
// is never modified.
func Transform(data []byte, opts Options) ([]byte, error) {
	res, err := TransformResult(data, opts)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// TransformResult is Transform returning the parsed header and plan as well.
func TransformResult(data []byte, opts Options) (*Result, error) {
	h, payload, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	plan := NewPlan(h.Vertex.Properties, opts.keep())
	if !plan.Changes() {
		return nil, ErrNoChange
	}
	if len(plan.Kept) == 0 {
		return nil, fmt.Errorf("%w: %d properties", ErrNothingKept, plan.Removed())
	}
	header, err := h.Rewrite(plan)
	if err != nil {
		return nil, err
	}

	var body []byte
	if h.Format.IsBinary() {
		body, err = binaryBody(h, payload, plan, opts.Workers)
	} else {
		body, err = textBody(h, payload, plan)
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(header)+len(body))
	out = append(out, header...)
	out = append(out, body...)
	return &Result{Header: h, Plan: plan, HeaderBytes: len(header), Output: out}, nil
}
