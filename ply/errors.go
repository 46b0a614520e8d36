package ply

import "errors"

// Sentinel errors returned by the parser and the payload codecs.
// Callers distinguish them with errors.Is; the wrapped message carries
// the line or record that failed.
var (
	// ErrMalformedHeader indicates the header is missing a required field,
	// declares an unknown type, or has no end_header marker.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrTruncatedPayload indicates the payload holds fewer records, lines
	// or tokens than the header declares.
	ErrTruncatedPayload = errors.New("truncated payload")

	// ErrNoChange is not a failure: the predicate kept every property, so
	// there is nothing to transform.
	ErrNoChange = errors.New("no properties to remove")

	// ErrNothingKept indicates the predicate rejected every vertex property.
	// The result would declare a vertex element with no properties, which
	// is not a valid PLY file.
	ErrNothingKept = errors.New("every vertex property would be removed")

	// ErrMissingProperty indicates a requested vertex property is not declared.
	ErrMissingProperty = errors.New("missing vertex property")
)
