package record

import (
	"bytes"
	"fmt"
	"time"

	"xdao.co/names/keys"
)

// Result classifies the outcome of validating an envelope.
type Result int

const (
	// Malformed: the envelope is structurally unusable (e.g. no legacy
	// signature at all).
	Malformed Result = iota

	// InvalidSignature: the legacy signature is present but does not verify.
	InvalidSignature

	// InvalidSequence: the record does not advance past the supplied
	// previous sequence (stale or replayed).
	InvalidSequence

	// InvalidValidityType: the validity type is not ValidityEOL.
	InvalidValidityType

	// Expired: signatures verified but the validity deadline has passed.
	// Expired is not invalid; callers decide whether to still use the record.
	Expired

	// ValidLegacyOnly: the legacy signature verified but the current-scheme
	// portion is absent or inconsistent.
	ValidLegacyOnly

	// Valid: both schemes verified and the canonical blob matches the legacy
	// fields byte for byte.
	Valid
)

func (r Result) String() string {
	switch r {
	case Valid:
		return "Valid"
	case ValidLegacyOnly:
		return "ValidLegacyOnly"
	case Expired:
		return "Expired"
	case InvalidSignature:
		return "InvalidSignature"
	case InvalidSequence:
		return "InvalidSequence"
	case InvalidValidityType:
		return "InvalidValidityType"
	default:
		return "Malformed"
	}
}

// Accepted reports whether the result denotes a record whose signatures
// verified under at least one scheme and that is safe to build updates on.
func (r Result) Accepted() bool {
	return r == Valid || r == ValidLegacyOnly
}

// Options control the optional validation stages.
type Options struct {
	// PreviousSequence, when set, enforces strict sequence growth over a
	// previously accepted record (the update path).
	PreviousSequence *uint64

	// Now, when non-zero, enables the expiry check against the record's
	// validity deadline.
	Now time.Time
}

// Validate checks env against pub.
//
// Stages, in order: validity-type enforcement, legacy signature (always
// required), current-scheme signature plus cross-consistency between the
// canonical blob and the legacy fields, sequence monotonicity, expiry. A
// current-scheme failure demotes the envelope to ValidLegacyOnly rather than
// rejecting it: a tampered dual envelope whose legacy portion still verifies
// is the recoverable case the update flow must handle.
//
// The returned error carries detail for non-accepted results and is nil for
// Valid, ValidLegacyOnly and Expired.
func Validate(env *Envelope, pub keys.PublicKey, opts Options) (Result, error) {
	rec := &env.Record

	if rec.ValidityType != ValidityEOL {
		return InvalidValidityType, newError(KindValidityType, "NAMES-VAL-001",
			fmt.Sprintf("validity type %d is not EOL", rec.ValidityType))
	}

	if len(env.SignatureV1) == 0 {
		return Malformed, newError(KindMalformed, "NAMES-VAL-002", "missing legacy signature")
	}
	if !pub.Verify(LegacyPayload(rec), env.SignatureV1) {
		return InvalidSignature, newError(KindSignature, "NAMES-VAL-003", "legacy signature did not verify")
	}

	res := ValidLegacyOnly
	if env.HasV2() && verifyV2(env, pub) {
		res = Valid
	}

	if opts.PreviousSequence != nil && rec.Sequence <= *opts.PreviousSequence {
		return InvalidSequence, newError(KindSequence, "NAMES-VAL-005",
			fmt.Sprintf("sequence %d does not advance past %d", rec.Sequence, *opts.PreviousSequence))
	}

	if !opts.Now.IsZero() {
		deadline, err := ParseValidity(rec.Validity)
		if err != nil {
			return Malformed, err
		}
		if opts.Now.After(deadline) {
			return Expired, nil
		}
	}

	return res, nil
}

// verifyV2 checks the current-scheme portion: the secondary signature over
// the domain-separated data blob, and byte-equality between the embedded
// blob and the blob recomputed from the legacy fields. The recomputation is
// the cross-consistency invariant that stops mixed or tampered dual
// envelopes from validating as fully current.
func verifyV2(env *Envelope, pub keys.PublicKey) bool {
	if !pub.Verify(SignaturePayloadV2(env.Data), env.SignatureV2) {
		return false
	}
	expect, err := CanonicalData(&env.Record)
	if err != nil {
		return false
	}
	return bytes.Equal(expect, env.Data)
}
