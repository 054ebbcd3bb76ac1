package record

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindMalformed covers structural failures: undecodable fields,
	// missing required portions, unparseable validity bytes.
	KindMalformed Kind = "Malformed"

	// KindTruncated covers wire containers that end mid-field.
	KindTruncated Kind = "Truncated"

	// KindFieldMismatch covers known fields carried with the wrong wire type.
	KindFieldMismatch Kind = "FieldMismatch"

	// KindUnknownVersion covers containers recognizable as neither scheme.
	KindUnknownVersion Kind = "UnknownEnvelopeVersion"

	KindValidityType Kind = "ValidityType"
	KindSignature    Kind = "Signature"
	KindSequence     Kind = "Sequence"
	KindKey          Kind = "Key"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g., NAMES-ENV-001, NAMES-VAL-003) that
// names the violated invariant. Message is intended for humans; do not match
// on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
