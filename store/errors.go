package store

import "errors"

var (
	ErrNotFound    = errors.New("store: not found")
	ErrConflict    = errors.New("store: sequence conflict")
	ErrUnavailable = errors.New("store: unavailable")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
