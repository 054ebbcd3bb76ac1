package naming

import (
	"context"
	"fmt"
	"time"

	"xdao.co/names/keys"
	"xdao.co/names/record"
	"xdao.co/names/store"
)

// System orchestrates record construction and validation against a name
// store. It holds no per-name state between calls: the authoritative
// sequence number always comes from the freshest fetched record, so multiple
// independent publishers stay safe as long as the store serializes
// conflicting writes by sequence.
type System struct {
	store    store.Store
	validity time.Duration
}

type Option func(*System)

// WithValidity overrides how far in the future published records expire.
func WithValidity(d time.Duration) Option {
	return func(s *System) { s.validity = d }
}

func NewSystem(st store.Store, opts ...Option) *System {
	s := &System{store: st, validity: DefaultValidity}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve fetches and verifies the current revision of name.
//
// An expired record is returned together with a CodeExpiredRecord error so
// the caller can decide whether to still use it.
func (s *System) Resolve(ctx context.Context, name Name) (*Revision, error) {
	b, err := s.store.Get(ctx, name.String())
	if err != nil {
		if store.IsNotFound(err) {
			return nil, NewError(CodeNotFound, fmt.Sprintf("no record published for %s", name))
		}
		return nil, WrapError(CodeStoreUnavailable, "fetching current record", err)
	}

	env, err := record.Decode(b)
	if err != nil {
		return nil, WrapError(CodeInvalidRecord, "decoding fetched record", err)
	}
	pub, err := publicKeyFor(name, env)
	if err != nil {
		return nil, WrapError(CodeKey, "record key does not match this name", err)
	}

	res, verr := record.Validate(env, pub, record.Options{Now: time.Now()})
	switch res {
	case record.Valid, record.ValidLegacyOnly:
		return revisionFromEnvelope(name, env)
	case record.Expired:
		rev, err := revisionFromEnvelope(name, env)
		if err != nil {
			return nil, err
		}
		return rev, NewError(CodeExpiredRecord, fmt.Sprintf("record for %s expired %s", name, rev.Validity().Format(record.ValidityFormat)))
	default:
		return nil, WrapError(CodeInvalidRecord, fmt.Sprintf("fetched record failed validation (%s)", res), verr)
	}
}

// Publish signs value as the next revision of the name derived from priv and
// hands it to the store.
//
// The update flow is fetch, validate, increment, resign: the current record
// is fetched through the store (sequence 0 when none exists), accepted when
// it validates under either scheme, and the outgoing envelope always carries
// both signatures regardless of which scheme produced its predecessor.
func (s *System) Publish(ctx context.Context, priv keys.PrivateKey, value string) (*Revision, error) {
	name, err := FromPublicKey(priv.Public())
	if err != nil {
		return nil, WrapError(CodeKey, "deriving name from key", err)
	}

	rev, err := s.nextRevision(ctx, name, value)
	if err != nil {
		return nil, err
	}

	env, err := record.NewEnvelope(rev.record(), priv)
	if err != nil {
		if record.IsKind(err, record.KindKey) {
			return nil, WrapError(CodeKey, "signing record", err)
		}
		return nil, WrapError(CodeInvalidRecord, "building record", err)
	}

	if err := s.store.Put(ctx, name.String(), env.Encode(), rev.Sequence()); err != nil {
		if store.IsConflict(err) {
			return nil, WrapError(CodeSequenceConflict, "store holds a newer sequence; refetch and retry", err)
		}
		return nil, WrapError(CodeStoreUnavailable, "publishing record", err)
	}
	return rev, nil
}

func (s *System) nextRevision(ctx context.Context, name Name, value string) (*Revision, error) {
	b, err := s.store.Get(ctx, name.String())
	if err != nil {
		if store.IsNotFound(err) {
			return NewRevision(name, value, time.Now().Add(s.validity), 0), nil
		}
		return nil, WrapError(CodeStoreUnavailable, "fetching current record", err)
	}

	env, err := record.Decode(b)
	if err != nil {
		return nil, WrapError(CodeCorruptExistingRecord, "existing record does not decode", err)
	}
	pub, err := publicKeyFor(name, env)
	if err != nil {
		return nil, WrapError(CodeCorruptExistingRecord, "existing record key does not match this name", err)
	}
	// No expiry check here: an expired record still seeds the next sequence.
	res, verr := record.Validate(env, pub, record.Options{})
	if !res.Accepted() {
		return nil, WrapError(CodeCorruptExistingRecord,
			fmt.Sprintf("existing record failed validation (%s)", res), verr)
	}
	prev, err := revisionFromEnvelope(name, env)
	if err != nil {
		return nil, WrapError(CodeCorruptExistingRecord, "existing record fields unusable", err)
	}
	return NewRevision(name, value, time.Now().Add(s.validity), prev.Sequence()+1), nil
}

// publicKeyFor picks the verifying key for an envelope: the embedded key when
// it derives to name, otherwise the key inlined in the name itself.
func publicKeyFor(name Name, env *record.Envelope) (keys.PublicKey, error) {
	if len(env.PubKey) > 0 {
		pub, err := keys.UnmarshalPublicKey(env.PubKey)
		if err == nil {
			derived, derr := FromPublicKey(pub)
			if derr == nil && derived.Equal(name) {
				return pub, nil
			}
		}
	}
	return name.PublicKey()
}
