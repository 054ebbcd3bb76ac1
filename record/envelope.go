package record

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Envelope is the wire-level signed form of a Record. The legacy portion
// (record fields plus SignatureV1) is always present on records written by
// this implementation; Data and SignatureV2 are present on records produced
// by current-scheme writers.
type Envelope struct {
	Record Record

	// SignatureV1 covers LegacyPayload(Record).
	SignatureV1 []byte

	// PubKey is the encoded public key of the signer (see package keys).
	PubKey []byte

	// Data is the canonical data blob covered by SignatureV2.
	Data []byte

	// SignatureV2 covers SignaturePayloadV2(Data).
	SignatureV2 []byte
}

// HasV2 reports whether the envelope carries a syntactically complete
// current-scheme portion.
func (e *Envelope) HasV2() bool {
	return len(e.SignatureV2) > 0 && len(e.Data) > 0
}

// Wire field numbers of the envelope container. The layout is fixed by the
// interoperating name service.
const (
	fieldValue        = 1
	fieldSignatureV1  = 2
	fieldValidityType = 3
	fieldValidity     = 4
	fieldSequence     = 5
	fieldTTL          = 6
	fieldPubKey       = 7
	fieldSignatureV2  = 8
	fieldData         = 9
)

// Encode serializes the envelope into its length-delimited wire container.
// Zero-valued scalar fields are omitted, matching existing producers.
func (e *Envelope) Encode() []byte {
	var b []byte
	b = appendBytesField(b, fieldValue, e.Record.Value)
	b = appendBytesField(b, fieldSignatureV1, e.SignatureV1)
	b = appendVarintField(b, fieldValidityType, e.Record.ValidityType)
	b = appendBytesField(b, fieldValidity, e.Record.Validity)
	b = appendVarintField(b, fieldSequence, e.Record.Sequence)
	b = appendVarintField(b, fieldTTL, e.Record.TTL)
	b = appendBytesField(b, fieldPubKey, e.PubKey)
	b = appendBytesField(b, fieldSignatureV2, e.SignatureV2)
	b = appendBytesField(b, fieldData, e.Data)
	return b
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// Decode parses a wire container into an Envelope.
//
// Containers holding only the legacy portion are accepted; so are containers
// with unknown trailing fields. Decode returns typed errors (KindTruncated,
// KindFieldMismatch, KindUnknownVersion) and never partially mutates caller
// state: on failure no Envelope is returned.
func Decode(b []byte) (*Envelope, error) {
	e := &Envelope{}
	for len(b) > 0 {
		num, wt, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, truncErr(protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldValue, fieldSignatureV1, fieldValidity, fieldPubKey, fieldSignatureV2, fieldData:
			if wt != protowire.BytesType {
				return nil, newError(KindFieldMismatch, "NAMES-ENV-002",
					fmt.Sprintf("field %d: unexpected wire type %d", num, wt))
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, truncErr(protowire.ParseError(n))
			}
			cp := append([]byte(nil), v...)
			switch num {
			case fieldValue:
				e.Record.Value = cp
			case fieldSignatureV1:
				e.SignatureV1 = cp
			case fieldValidity:
				e.Record.Validity = cp
			case fieldPubKey:
				e.PubKey = cp
			case fieldSignatureV2:
				e.SignatureV2 = cp
			case fieldData:
				e.Data = cp
			}
			b = b[n:]
		case fieldValidityType, fieldSequence, fieldTTL:
			if wt != protowire.VarintType {
				return nil, newError(KindFieldMismatch, "NAMES-ENV-002",
					fmt.Sprintf("field %d: unexpected wire type %d", num, wt))
			}
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, truncErr(protowire.ParseError(n))
			}
			switch num {
			case fieldValidityType:
				e.Record.ValidityType = v
			case fieldSequence:
				e.Record.Sequence = v
			case fieldTTL:
				e.Record.TTL = v
			}
			b = b[n:]
		default:
			// Unknown fields are skipped for forward compatibility.
			n := protowire.ConsumeFieldValue(num, wt, b)
			if n < 0 {
				return nil, truncErr(protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	if len(e.SignatureV1) == 0 && !e.HasV2() {
		return nil, newError(KindUnknownVersion, "NAMES-ENV-003",
			"envelope carries no recognizable signature scheme")
	}
	return e, nil
}

func truncErr(cause error) error {
	return wrapError(KindTruncated, "NAMES-ENV-001", "truncated envelope", cause)
}
