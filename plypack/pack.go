package plypack

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compression indicates the compression used for the pack content section.
type Compression uint8

const (
	CompNone Compression = 0
	CompZlib Compression = 1
	CompZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompZlib:
		return "zlib"
	case CompZstd:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// ParseCompression maps a flag value to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompNone, nil
	case "zlib":
		return CompZlib, nil
	case "zstd":
		return CompZstd, nil
	}
	return 0, fmt.Errorf("%w: compression %q", ErrUnsupported, s)
}

const (
	packMagicStr = "PLYPACK\x00"
	packVersion1 = 1
	headerSize   = len(packMagicStr) + 2
	maxNameLen   = 0xFFFF
)

var (
	// ErrNotPack indicates the input does not start with the pack magic.
	ErrNotPack = errors.New("not a plypack")
	// ErrUnsupported indicates an unknown version or compression code.
	ErrUnsupported = errors.New("unsupported plypack")
	// ErrCorrupt indicates the content section is short or fails its checksum.
	ErrCorrupt = errors.New("corrupt plypack")
)

// Entry is one named PLY blob.
type Entry struct {
	Name string
	Data []byte
}

// Pack is an ordered list of entries. Entries with identical data are
// stored once.
type Pack struct {
	Entries []Entry
}

// Marshal encodes the pack. Identical blobs share one stored copy keyed by
// their xxhash digest.
//
// Content layout (little endian):
//
//	u32 blobCount, then per blob: u64 xxhash, u32 len, bytes
//	u32 entryCount, then per entry: u16 nameLen, name, u32 blobIndex
func (p *Pack) Marshal(comp Compression) ([]byte, error) {
	blobs, refs := dedup(p.Entries)

	var content bytes.Buffer
	_ = binary.Write(&content, binary.LittleEndian, uint32(len(blobs)))
	for _, b := range blobs {
		_ = binary.Write(&content, binary.LittleEndian, xxhash.Sum64(b))
		_ = binary.Write(&content, binary.LittleEndian, uint32(len(b)))
		_, _ = content.Write(b)
	}
	_ = binary.Write(&content, binary.LittleEndian, uint32(len(p.Entries)))
	for i, e := range p.Entries {
		nb := []byte(e.Name)
		if len(nb) > maxNameLen {
			return nil, fmt.Errorf("entry name too long: %.32s...", e.Name)
		}
		_ = binary.Write(&content, binary.LittleEndian, uint16(len(nb)))
		_, _ = content.Write(nb)
		_ = binary.Write(&content, binary.LittleEndian, uint32(refs[i]))
	}

	var finalContent []byte
	switch comp {
	case CompNone:
		finalContent = content.Bytes()
	case CompZlib:
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(content.Bytes()); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		finalContent = buf.Bytes()
	case CompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		finalContent = enc.EncodeAll(content.Bytes(), nil)
		_ = enc.Close()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, comp)
	}

	out := make([]byte, 0, headerSize+len(finalContent))
	out = append(out, packMagicStr...)
	out = append(out, packVersion1, byte(comp))
	out = append(out, finalContent...)
	return out, nil
}

// dedup returns the distinct blobs in first-seen order and, for each entry,
// the index of its blob.
func dedup(entries []Entry) ([][]byte, []int) {
	blobs := make([][]byte, 0, len(entries))
	index := make(map[uint64][]int, len(entries))
	refs := make([]int, len(entries))
	for i, e := range entries {
		h := xxhash.Sum64(e.Data)
		found := -1
		for _, idx := range index[h] {
			if bytes.Equal(blobs[idx], e.Data) {
				found = idx
				break
			}
		}
		if found < 0 {
			found = len(blobs)
			blobs = append(blobs, e.Data)
			index[h] = append(index[h], found)
		}
		refs[i] = found
	}
	return blobs, refs
}

// IsPack reports whether data starts with the pack magic.
func IsPack(data []byte) bool {
	return len(data) >= headerSize && string(data[:len(packMagicStr)]) == packMagicStr
}

// Unmarshal parses a pack and returns it with the compression it used.
// Entries sharing a blob share the same backing slice.
func Unmarshal(data []byte) (*Pack, Compression, error) {
	if !IsPack(data) {
		return nil, 0, ErrNotPack
	}
	version := data[len(packMagicStr)]
	comp := Compression(data[len(packMagicStr)+1])
	if version != packVersion1 {
		return nil, 0, fmt.Errorf("%w: version %d", ErrUnsupported, version)
	}
	content := data[headerSize:]
	switch comp {
	case CompNone:
	case CompZlib:
		zr, err := zlib.NewReader(bytes.NewReader(content))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		defer zr.Close()
		b, err := io.ReadAll(zr)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		content = b
	case CompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, 0, err
		}
		defer dec.Close()
		b, err := dec.DecodeAll(content, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		content = b
	default:
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupported, comp)
	}

	pack, err := decodeContent(content)
	if err != nil {
		return nil, 0, err
	}
	return pack, comp, nil
}

func decodeContent(content []byte) (*Pack, error) {
	r := &reader{data: content}
	nBlobs := r.u32()
	if uint64(nBlobs) > uint64(r.remaining()/12) {
		return nil, fmt.Errorf("%w: %d blobs declared", ErrCorrupt, nBlobs)
	}
	blobs := make([][]byte, nBlobs)
	for i := range blobs {
		sum := r.u64()
		b := r.bytes(int(r.u32()))
		if r.err != nil {
			return nil, r.err
		}
		if xxhash.Sum64(b) != sum {
			return nil, fmt.Errorf("%w: blob %d checksum mismatch", ErrCorrupt, i)
		}
		blobs[i] = b
	}

	nEntries := r.u32()
	if uint64(nEntries) > uint64(r.remaining()/6) {
		return nil, fmt.Errorf("%w: %d entries declared", ErrCorrupt, nEntries)
	}
	pack := &Pack{Entries: make([]Entry, nEntries)}
	for i := range pack.Entries {
		name := r.bytes(int(r.u16()))
		idx := r.u32()
		if r.err != nil {
			return nil, r.err
		}
		if idx >= nBlobs {
			return nil, fmt.Errorf("%w: entry %d references blob %d of %d", ErrCorrupt, i, idx, nBlobs)
		}
		pack.Entries[i] = Entry{Name: string(name), Data: blobs[idx]}
	}
	return pack, nil
}

// reader decodes little-endian fields and remembers the first short read.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.remaining() < n {
		r.err = fmt.Errorf("%w: %w", ErrCorrupt, io.ErrUnexpectedEOF)
		return nil
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u16() uint16 {
	if b := r.bytes(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.bytes(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *reader) u64() uint64 {
	if b := r.bytes(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}
