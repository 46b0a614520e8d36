package ply

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type splatRow struct {
	X, Y, Z, DC, R0, R1 float32
}

type directRow struct {
	X, Y, Z, DC float32
}

func TestTransformBinary_DropsHigherOrder(t *testing.T) {
	props := floatProps(splatNames...)
	plan := NewPlan(props, KeepDirectColor)
	payload := packRows(t, binary.LittleEndian,
		splatRow{1, 2, 3, 0.5, 9.9, 9.9},
		splatRow{-1, -2, -3, 0.25, 7, 7},
	)

	out, err := TransformBinary(payload, props, plan, 2, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, out, 32)
	assert.Equal(t, packRows(t, binary.LittleEndian,
		directRow{1, 2, 3, 0.5},
		directRow{-1, -2, -3, 0.25},
	), out)
}

func TestTransformBinary_Truncated(t *testing.T) {
	props := floatProps("x", "y", "z", "f_rest_0")
	plan := NewPlan(props, KeepDirectColor)

	_, err := TransformBinary(make([]byte, 20), props, plan, 2, binary.LittleEndian)
	require.ErrorIs(t, err, ErrTruncatedPayload)
}

func TestTransformBinary_IgnoresTrailingBytes(t *testing.T) {
	props := floatProps("x", "f_rest_0")
	plan := NewPlan(props, KeepDirectColor)
	payload := append(packRows(t, binary.LittleEndian, []float32{4, 5}), 0xAA, 0xBB)

	out, err := TransformBinary(payload, props, plan, 1, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, packRows(t, binary.LittleEndian, float32(4)), out)
}

func TestTransformBinary_ZeroVertices(t *testing.T) {
	props := floatProps(splatNames...)
	out, err := TransformBinary(nil, props, NewPlan(props, KeepDirectColor), 0, binary.LittleEndian)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTransformBinary_MixedTypesBigEndian(t *testing.T) {
	type row struct {
		X     float64
		Rest  float32
		Red   uint8
		Label int16
		Rest2 float32
		ID    uint32
		Temp  int8
	}
	type kept struct {
		X     float64
		Red   uint8
		Label int16
		ID    uint32
		Temp  int8
	}
	props := []Property{
		{Name: "x", Type: Float64},
		{Name: "f_rest_0", Type: Float32},
		{Name: "red", Type: Uint8},
		{Name: "label", Type: Int16},
		{Name: "f_rest_1", Type: Float32},
		{Name: "id", Type: Uint32},
		{Name: "temp", Type: Int8},
	}
	plan := NewPlan(props, KeepDirectColor)
	rows := []row{
		{math.Pi, 1, 255, -300, 2, 0xDEADBEEF, -7},
		{-0.0, 3, 0, 32767, 4, 1, 127},
	}
	payload := packRows(t, binary.BigEndian, rows)

	out, err := TransformBinary(payload, props, plan, len(rows), binary.BigEndian)
	require.NoError(t, err)
	want := packRows(t, binary.BigEndian, []kept{
		{math.Pi, 255, -300, 0xDEADBEEF, -7},
		{-0.0, 0, 32767, 1, 127},
	})
	assert.Equal(t, want, out)
}

func TestTransformBinary_NaNBitsPreserved(t *testing.T) {
	props := floatProps("x", "f_rest_0")
	plan := NewPlan(props, KeepDirectColor)
	payload := []byte{0x01, 0x00, 0x80, 0x7f, 0, 0, 0, 0}

	out, err := TransformBinary(payload, props, plan, 1, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, payload[:4], out)
}

func TestTransformBinary_UnsizedProperty(t *testing.T) {
	props := []Property{{Name: "x", Type: Float32}, {Name: "q", Type: Invalid}}
	_, err := TransformBinary(make([]byte, 16), props, NewPlan(props, KeepDirectColor), 1, binary.LittleEndian)
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestTransformBinaryParallel_MatchesSequential(t *testing.T) {
	props := floatProps(splatNames...)
	plan := NewPlan(props, KeepDirectColor)
	const count = minParallelRecords*3 + 17
	rows := make([]splatRow, count)
	for i := range rows {
		f := float32(i)
		rows[i] = splatRow{f, f + 0.5, -f, f / 3, f * 2, f * 4}
	}
	payload := packRows(t, binary.LittleEndian, rows)

	seq, err := TransformBinary(payload, props, plan, count, binary.LittleEndian)
	require.NoError(t, err)
	for _, workers := range []int{0, 1, 2, 3, 8} {
		par, err := TransformBinaryParallel(payload, props, plan, count, binary.LittleEndian, workers)
		require.NoError(t, err)
		assert.Equal(t, seq, par, "workers=%d", workers)
	}
}

func TestTransformBinaryParallel_Truncated(t *testing.T) {
	props := floatProps(splatNames...)
	plan := NewPlan(props, KeepDirectColor)
	payload := make([]byte, minParallelRecords*24-1)

	_, err := TransformBinaryParallel(payload, props, plan, minParallelRecords, binary.LittleEndian, 4)
	require.ErrorIs(t, err, ErrTruncatedPayload)
}

func TestRecords(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7}

	var got [][]byte
	for i, rec := range Records(payload, 2, 10) {
		assert.Equal(t, len(got), i)
		got = append(got, rec)
	}
	assert.Equal(t, [][]byte{{1, 2}, {3, 4}, {5, 6}}, got)

	// restartable
	n := 0
	for range Records(payload, 2, 10) {
		n++
	}
	assert.Equal(t, 3, n)

	// early stop
	n = 0
	for range Records(payload, 1, 7) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)

	for range Records(payload, 0, 5) {
		t.Fatal("zero record size must yield nothing")
	}
}

func TestRecords_CapacityLimited(t *testing.T) {
	for _, rec := range Records([]byte{1, 2, 3, 4}, 2, 2) {
		assert.Equal(t, 2, cap(rec))
	}
}

func TestDecodeRecord(t *testing.T) {
	props := []Property{{Name: "a", Type: Int16}, {Name: "b", Type: Float32}, {Name: "c", Type: Uint8}}
	rec := packRows(t, binary.LittleEndian, int16(-2), float32(1.5), uint8(9))

	vals := DecodeRecord(rec, props, binary.LittleEndian, nil)
	require.Len(t, vals, 3)
	assert.Equal(t, int64(-2), vals[0].Int64())
	assert.Equal(t, 1.5, vals[1].Float64())
	assert.Equal(t, uint64(9), vals[2].Uint64())

	// dst is reused
	again := DecodeRecord(rec, props, binary.LittleEndian, vals)
	assert.Equal(t, vals, again)
}

func TestTransformBinary_HugeCountMessage(t *testing.T) {
	props := floatProps("x", "f_rest_0")
	plan := NewPlan(props, KeepDirectColor)

	_, err := TransformBinary(make([]byte, 8), props, plan, int(^uint(0)>>1), binary.LittleEndian)
	require.ErrorIs(t, err, ErrTruncatedPayload)
	assert.NotContains(t, err.Error(), "-")
	assert.Contains(t, err.Error(), "have 8 bytes")
}
