package api

import (
	"github.com/voxelsplace/plyslim/ply"
)

// Transform removes the higher-order SH coefficients (f_rest_*) from a PLY
// file given as bytes and returns the new file. zstd-compressed input is
// accepted; the output is always uncompressed. ply.ErrNoChange is returned
// when there is nothing to remove.
func Transform(input []byte) ([]byte, error) {
	return TransformWith(input, ply.Options{})
}

// TransformWith is Transform with an explicit predicate and worker count.
func TransformWith(input []byte, opts ply.Options) ([]byte, error) {
	res, err := TransformResult(input, opts)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// WouldChange reports whether Transform would remove anything. Input that
// cannot be parsed reports false.
func WouldChange(input []byte) bool {
	data, err := maybeDecompress(input)
	if err != nil {
		return false
	}
	ok, err := ply.WouldChange(data, nil)
	return err == nil && ok
}

// PropertyInfo describes one vertex property for Inspect.
type PropertyInfo struct {
	Name      string `yaml:"name" json:"name"`
	Type      string `yaml:"type" json:"type"`
	Removable bool   `yaml:"removable" json:"removable"`
}

// ElementInfo describes one declared element for Inspect.
type ElementInfo struct {
	Name       string `yaml:"name" json:"name"`
	Count      int    `yaml:"count" json:"count"`
	Properties int    `yaml:"properties" json:"properties"`
}

// Info summarizes a PLY file without touching its payload.
type Info struct {
	Format       string         `yaml:"format" json:"format"`
	Version      string         `yaml:"version" json:"version"`
	Compressed   bool           `yaml:"compressed" json:"compressed"`
	Vertices     int            `yaml:"vertices" json:"vertices"`
	RecordSize   int            `yaml:"record_size" json:"record_size"`
	Properties   []PropertyInfo `yaml:"properties" json:"properties"`
	Removable    int            `yaml:"removable" json:"removable"`
	Elements     []ElementInfo  `yaml:"elements" json:"elements"`
	Comments     []string       `yaml:"comments,omitempty" json:"comments,omitempty"`
	HeaderBytes  int            `yaml:"header_bytes" json:"header_bytes"`
	PayloadBytes int            `yaml:"payload_bytes" json:"payload_bytes"`
	Fingerprint  string         `yaml:"fingerprint" json:"fingerprint"`
}

// Inspect parses the header of input and reports what keep would remove.
// A nil keep means ply.KeepDirectColor.
func Inspect(input []byte, keep ply.Predicate) (*Info, *ply.Header, error) {
	data, err := maybeDecompress(input)
	if err != nil {
		return nil, nil, err
	}
	h, payload, err := ply.ParseHeader(data)
	if err != nil {
		return nil, nil, err
	}
	if keep == nil {
		keep = ply.KeepDirectColor
	}
	info := &Info{
		Format:       h.Format.String(),
		Version:      h.Version,
		Compressed:   IsCompressed(input),
		Vertices:     h.Vertex.Count,
		RecordSize:   h.Vertex.RecordSize(),
		Comments:     h.Comments,
		HeaderBytes:  len(data) - len(payload),
		PayloadBytes: len(payload),
		Fingerprint:  Fingerprint(data),
	}
	for _, p := range h.Vertex.Properties {
		removable := !keep(p)
		if removable {
			info.Removable++
		}
		info.Properties = append(info.Properties, PropertyInfo{Name: p.Name, Type: p.Type.String(), Removable: removable})
	}
	for _, e := range h.Elements {
		info.Elements = append(info.Elements, ElementInfo{Name: e.Name, Count: e.Count, Properties: len(e.Properties)})
	}
	return info, h, nil
}

// TransformResult is TransformWith returning the parsed header and plan too.
func TransformResult(input []byte, opts ply.Options) (*ply.Result, error) {
	data, err := maybeDecompress(input)
	if err != nil {
		return nil, err
	}
	return ply.TransformResult(data, opts)
}
