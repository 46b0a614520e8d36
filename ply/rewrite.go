package ply

import (
	"bytes"
	"fmt"
)

// Rewrite returns the header with the vertex element's property lines
// replaced by plan.Properties. Kept property lines and every other line
// (format, comments, other elements, end_header) are copied unchanged.
func (h *Header) Rewrite(plan Plan) ([]byte, error) {
	if plan.total != len(h.Vertex.Properties) {
		return nil, fmt.Errorf("plan covers %d properties, header declares %d", plan.total, len(h.Vertex.Properties))
	}
	drop := make(map[int]bool, len(h.propLines))
	for _, li := range h.propLines {
		drop[li] = true
	}
	for _, k := range plan.Kept {
		delete(drop, h.propLines[k])
	}

	var buf bytes.Buffer
	for i, l := range h.Lines {
		if drop[i] {
			continue
		}
		buf.WriteString(l)
	}
	return buf.Bytes(), nil
}
