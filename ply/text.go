package ply

import (
	"bytes"
	"fmt"
)

// TransformText projects the first count non-blank lines of an ASCII payload
// onto the plan. Tokens are copied as written, never reparsed, and joined with
// single spaces; every output line ends in '\n'.
func TransformText(payload []byte, props []Property, plan Plan, count int) ([]byte, error) {
	return transformText(newLineReader(payload), len(props), plan, count)
}

func transformText(r *lineReader, nprops int, plan Plan, count int) ([]byte, error) {
	var buf bytes.Buffer
	for i := 0; i < count; i++ {
		line, err := r.next()
		if err != nil {
			return nil, fmt.Errorf("%w: %d of %d vertex lines present", ErrTruncatedPayload, i, count)
		}
		tokens := bytes.Fields(line)
		if len(tokens) < nprops {
			return nil, fmt.Errorf("%w: vertex %d has %d values, want %d", ErrTruncatedPayload, i, len(tokens), nprops)
		}
		for j, k := range plan.Kept {
			if j > 0 {
				buf.WriteByte(' ')
			}
			buf.Write(tokens[k])
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
