package record

import (
	"xdao.co/names/keys"
)

// NewEnvelope signs rec under both schemes and assembles the wire envelope.
//
// Outgoing records always carry the superset encoding: legacy verifiers check
// SignatureV1 against the concatenated fields, current verifiers check
// SignatureV2 against the embedded canonical blob. Emitting both is what
// keeps a record readable across producer generations.
func NewEnvelope(rec *Record, priv keys.PrivateKey) (*Envelope, error) {
	if rec.ValidityType != ValidityEOL {
		return nil, newError(KindValidityType, "NAMES-SIG-001", "unsupported validity type")
	}

	sigV1, err := priv.Sign(LegacyPayload(rec))
	if err != nil {
		return nil, wrapError(KindKey, "NAMES-SIG-002", "legacy signing failed", err)
	}

	data, err := CanonicalData(rec)
	if err != nil {
		return nil, err
	}
	sigV2, err := priv.Sign(SignaturePayloadV2(data))
	if err != nil {
		return nil, wrapError(KindKey, "NAMES-SIG-003", "current-scheme signing failed", err)
	}

	pubKey, err := keys.MarshalPublicKey(priv.Public())
	if err != nil {
		return nil, wrapError(KindKey, "NAMES-SIG-004", "encoding public key failed", err)
	}

	return &Envelope{
		Record:      *rec,
		SignatureV1: sigV1,
		PubKey:      pubKey,
		Data:        data,
		SignatureV2: sigV2,
	}, nil
}
