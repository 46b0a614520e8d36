package ply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformText(t *testing.T) {
	props := floatProps(splatNames...)
	plan := NewPlan(props, KeepDirectColor)

	tests := []struct {
		name    string
		payload string
		count   int
		want    string
	}{
		{"single line", "1.0 2.0 3.0 0.5 9.9 9.9\n", 1, "1.0 2.0 3.0 0.5\n"},
		{"tokens kept as written", "1e0 -0.000 3 .5 9 9\n", 1, "1e0 -0.000 3 .5\n"},
		{"whitespace collapsed", "  1\t2   3 4 5 6  \n", 1, "1 2 3 4\n"},
		{"crlf", "1 2 3 4 5 6\r\n7 8 9 10 11 12\r\n", 2, "1 2 3 4\n7 8 9 10\n"},
		{"no final newline", "1 2 3 4 5 6", 1, "1 2 3 4\n"},
		{"blank lines skipped", "\n1 2 3 4 5 6\n\n  \n7 8 9 10 11 12\n", 2, "1 2 3 4\n7 8 9 10\n"},
		{"extra lines ignored", "1 2 3 4 5 6\n3 4\n", 1, "1 2 3 4\n"},
		{"extra tokens ignored", "1 2 3 4 5 6 7 8\n", 1, "1 2 3 4\n"},
		{"zero vertices", "", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := TransformText([]byte(tt.payload), props, plan, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestTransformText_Truncated(t *testing.T) {
	props := floatProps(splatNames...)
	plan := NewPlan(props, KeepDirectColor)

	tests := []struct {
		name    string
		payload string
		count   int
	}{
		{"missing lines", "1 2 3 4 5 6\n", 2},
		{"empty payload", "", 1},
		{"only blank lines", "\n\n\n", 1},
		{"short line", "1 2 3 4 5\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TransformText([]byte(tt.payload), props, plan, tt.count)
			require.ErrorIs(t, err, ErrTruncatedPayload)
		})
	}
}

func TestTransformText_InterleavedKeep(t *testing.T) {
	props := floatProps("f_rest_0", "x", "f_rest_1", "y")
	out, err := TransformText([]byte("a b c d\n"), props, NewPlan(props, KeepDirectColor), 1)
	require.NoError(t, err)
	assert.Equal(t, "b d\n", string(out))
}
