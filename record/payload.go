package record

import (
	"github.com/fxamacker/cbor/v2"
)

// signedData is the canonical data blob covered by the current-scheme
// signature. Field names and casing are fixed by the protocol; interoperating
// verifiers match them literally, so the cbor tags below are a compatibility
// contract, not a style choice.
type signedData struct {
	Value        []byte `cbor:"Value"`
	Validity     []byte `cbor:"Validity"`
	ValidityType uint64 `cbor:"ValidityType"`
	Sequence     uint64 `cbor:"Sequence"`
	TTL          uint64 `cbor:"TTL"`
}

var canonicalEnc cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	canonicalEnc = em
}

// LegacyPayload returns the legacy-scheme signing payload: the fixed-order
// concatenation of value, the "EOL" validity-type marker and validity bytes.
// The byte grammar is mandated by the interoperating name service.
func LegacyPayload(rec *Record) []byte {
	buf := make([]byte, 0, len(rec.Value)+3+len(rec.Validity))
	buf = append(buf, rec.Value...)
	buf = append(buf, "EOL"...)
	buf = append(buf, rec.Validity...)
	return buf
}

// CanonicalData returns the deterministic CBOR encoding of rec: a map with
// canonical (length-first) key ordering. The same logical record always
// yields identical bytes.
func CanonicalData(rec *Record) ([]byte, error) {
	b, err := canonicalEnc.Marshal(&signedData{
		Value:        rec.Value,
		Validity:     rec.Validity,
		ValidityType: rec.ValidityType,
		Sequence:     rec.Sequence,
		TTL:          rec.TTL,
	})
	if err != nil {
		return nil, wrapError(KindMalformed, "NAMES-REC-001", "canonical data encoding failed", err)
	}
	return b, nil
}

// SignaturePayloadV2 returns the domain-separated bytes covered by the
// current-scheme signature.
func SignaturePayloadV2(data []byte) []byte {
	buf := make([]byte, 0, len(sigV2Prefix)+len(data))
	buf = append(buf, sigV2Prefix...)
	buf = append(buf, data...)
	return buf
}

// DecodeCanonicalData parses a canonical data blob back into a Record.
func DecodeCanonicalData(data []byte) (*Record, error) {
	var sd signedData
	if err := cbor.Unmarshal(data, &sd); err != nil {
		return nil, wrapError(KindMalformed, "NAMES-REC-002", "canonical data decoding failed", err)
	}
	return &Record{
		Value:        sd.Value,
		ValidityType: sd.ValidityType,
		Validity:     sd.Validity,
		Sequence:     sd.Sequence,
		TTL:          sd.TTL,
	}, nil
}
