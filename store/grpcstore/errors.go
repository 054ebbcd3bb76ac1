package grpcstore

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/names/store"
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return store.ErrNotFound
	case codes.FailedPrecondition:
		// Server uses FailedPrecondition for sequence conflicts.
		return store.ErrConflict
	case codes.Unavailable:
		return store.ErrUnavailable
	default:
		// Best-effort: if the server sent a known store error message, preserve it.
		switch st.Message() {
		case store.ErrNotFound.Error():
			return store.ErrNotFound
		case store.ErrConflict.Error():
			return store.ErrConflict
		case store.ErrUnavailable.Error():
			return store.ErrUnavailable
		default:
			return err
		}
	}
}
