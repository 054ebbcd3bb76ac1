package naming

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	// CodeCorruptExistingRecord: the record currently published under the
	// name fails every verification path. Fatal for updates; the system
	// never overwrites a record it cannot first validate.
	CodeCorruptExistingRecord ErrorCode = "CORRUPT_EXISTING_RECORD"

	// CodeSequenceConflict: the store rejected the write because its current
	// sequence moved past ours. Retryable: refetch, recompute, resign.
	CodeSequenceConflict ErrorCode = "SEQUENCE_CONFLICT"

	// CodeKey: the signing key does not work, or does not match the name.
	CodeKey ErrorCode = "KEY_ERROR"

	// CodeStoreUnavailable: the store collaborator failed to answer.
	CodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// CodeInvalidRecord: a fetched record failed decoding or validation on
	// the read path.
	CodeInvalidRecord ErrorCode = "INVALID_RECORD"

	// CodeExpiredRecord: the record verified but its validity deadline has
	// passed. Returned alongside the revision so callers can still use it.
	CodeExpiredRecord ErrorCode = "EXPIRED_RECORD"

	// CodeNotFound: no record is published under the name.
	CodeNotFound ErrorCode = "NOT_FOUND"
)

// CodedError is a stable error with a machine-readable code and a human
// message.
type CodedError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

func WrapError(code ErrorCode, message string, cause error) *CodedError {
	return &CodedError{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether err is (or wraps) a *CodedError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *CodedError
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
