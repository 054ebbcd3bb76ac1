package grpcstore

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/names/keys"
	"xdao.co/names/naming"
	"xdao.co/names/record"
	"xdao.co/names/store"
)

// Server exposes a store.Store over the NameStore gRPC service.
//
// The server re-validates every incoming record before accepting it: clients
// are not trusted to enforce the signing or sequence rules. A record is
// stored under the name derived from its embedded public key, and only when
// its sequence advances past the one currently held.
type Server struct {
	UnimplementedNameStoreServer
	Store store.Store
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	b := in.GetValue()

	env, err := record.Decode(b)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("malformed record: %v", err))
	}
	if len(env.PubKey) == 0 {
		return nil, status.Error(codes.InvalidArgument, "record does not embed its public key")
	}
	pub, err := keys.UnmarshalPublicKey(env.PubKey)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid embedded public key")
	}
	name, err := naming.FromPublicKey(pub)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "cannot derive name from embedded key")
	}

	opts := record.Options{Now: time.Now()}
	if prev, gerr := s.Store.Get(ctx, name.String()); gerr == nil {
		if prevEnv, derr := record.Decode(prev); derr == nil {
			seq := prevEnv.Record.Sequence
			opts.PreviousSequence = &seq
		}
	} else if !store.IsNotFound(gerr) {
		return nil, mapErr(gerr)
	}

	res, _ := record.Validate(env, pub, opts)
	switch res {
	case record.Valid, record.ValidLegacyOnly:
	case record.InvalidSequence:
		return nil, status.Error(codes.FailedPrecondition, store.ErrConflict.Error())
	case record.Expired:
		return nil, status.Error(codes.InvalidArgument, "record already expired")
	default:
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("record rejected (%s)", res))
	}

	if err := s.Store.Put(ctx, name.String(), b, env.Record.Sequence); err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(name.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	name, err := naming.Parse(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	b, err := s.Store.Get(ctx, name.String())
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	name, err := naming.Parse(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	_, err = s.Store.Get(ctx, name.String())
	if err != nil {
		if store.IsNotFound(err) {
			return wrapperspb.Bool(false), nil
		}
		return nil, mapErr(err)
	}
	return wrapperspb.Bool(true), nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case store.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case store.IsConflict(err):
		return status.Error(codes.FailedPrecondition, err.Error())
	case store.IsUnavailable(err):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
