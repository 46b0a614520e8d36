// Package ply parses PLY headers and rewrites PLY files with a subset of
// their vertex properties.
//
// The package works on in-memory byte slices only. ParseHeader splits a file
// into its header and payload, NewPlan selects the vertex properties to keep,
// Header.Rewrite renders the reduced header, and TransformBinary or
// TransformText re-encodes the vertex records. Transform runs the whole
// pipeline:
//
//	out, err := ply.Transform(data, ply.Options{Keep: ply.KeepDirectColor})
//	if errors.Is(err, ply.ErrNoChange) {
//	    // nothing to remove
//	}
//
// Kept values are copied bit for bit (binary) or token for token (ASCII);
// nothing is ever rounded or reformatted.
package ply
