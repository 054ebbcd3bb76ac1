// Package record implements the signed record envelope for the name system:
// canonical signing payloads, the wire codec, and the cross-version
// validator.
//
// Two signature schemes coexist on the wire. The legacy scheme signs a
// fixed-order concatenation of the record fields; the current scheme signs a
// domain-separated canonical CBOR blob and additionally carries the legacy
// fields and signature so legacy-only verifiers keep working. Writers always
// emit both; readers accept either.
package record

import (
	"time"
)

const (
	// ValidityEOL is the only legal validity type: the record expires at an
	// absolute deadline. Records carrying any other value are rejected, not
	// coerced.
	ValidityEOL uint64 = 0

	// ValidityFormat is the fixed-width RFC 3339 layout validity deadlines
	// are encoded with. Verifiers compare validity bytes literally, so the
	// sub-second width must not vary with the timestamp.
	ValidityFormat = "2006-01-02T15:04:05.000000000Z"
)

// sigV2Prefix domain-separates current-scheme signatures from legacy ones.
const sigV2Prefix = "ipns-signature:"

// Record is the logical, scheme-independent content of a name record.
type Record struct {
	// Value is the opaque pointer the name resolves to, commonly a
	// path-like content address.
	Value []byte

	// ValidityType must equal ValidityEOL.
	ValidityType uint64

	// Validity is the RFC 3339 UTC deadline after which the record is
	// expired. Kept as bytes so it stays bit-exact across encodings.
	Validity []byte

	// Sequence strictly increases with each update to the same name.
	Sequence uint64

	// TTL is the advisory cache lifetime in nanoseconds, independent of
	// Validity.
	TTL uint64
}

// FormatValidity renders t in the protocol's validity layout.
func FormatValidity(t time.Time) []byte {
	return []byte(t.UTC().Format(ValidityFormat))
}

// ParseValidity parses validity bytes back into a deadline.
func ParseValidity(b []byte) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, string(b))
	if err != nil {
		return time.Time{}, wrapError(KindMalformed, "NAMES-REC-003", "invalid validity timestamp", err)
	}
	return t, nil
}
