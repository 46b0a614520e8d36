package ply

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var splatNames = []string{"x", "y", "z", "f_dc_0", "f_rest_0", "f_rest_1"}

func floatProps(names ...string) []Property {
	props := make([]Property, len(names))
	for i, n := range names {
		props[i] = Property{Name: n, Type: Float32}
	}
	return props
}

// buildHeader renders a minimal header. extra lines go after the vertex
// properties, before end_header.
func buildHeader(format string, count int, props []Property, extra ...string) string {
	var b strings.Builder
	b.WriteString("ply\n")
	fmt.Fprintf(&b, "format %s 1.0\n", format)
	b.WriteString("comment made by hand\n")
	fmt.Fprintf(&b, "element vertex %d\n", count)
	for _, p := range props {
		fmt.Fprintf(&b, "property %s %s\n", p.Type, p.Name)
	}
	for _, l := range extra {
		b.WriteString(l + "\n")
	}
	b.WriteString("end_header\n")
	return b.String()
}

func packRows(t *testing.T, order binary.ByteOrder, rows ...any) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, r := range rows {
		require.NoError(t, binary.Write(&buf, order, r))
	}
	return buf.Bytes()
}

func propNames(props []Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Name
	}
	return out
}
