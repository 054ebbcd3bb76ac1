// Package naming ties the record envelope machinery to names and a name
// store: deriving names from public keys, resolving current revisions and
// publishing updates.
package naming

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"

	"xdao.co/names/keys"
)

// Name identifies a publishing key: a CIDv1 with the libp2p-key codec over
// the encoded public key, rendered in base36.
type Name struct {
	c cid.Cid
}

// maxInlineKeyLength bounds the encoded key size that is inlined into the
// name with an identity multihash; larger keys are hashed instead.
const maxInlineKeyLength = 42

// FromPublicKey derives the name a key publishes under. The derivation is
// deterministic: the same key always yields the same name.
func FromPublicKey(pub keys.PublicKey) (Name, error) {
	enc, err := keys.MarshalPublicKey(pub)
	if err != nil {
		return Name{}, err
	}
	code := uint64(multihash.SHA2_256)
	if len(enc) <= maxInlineKeyLength {
		code = multihash.IDENTITY
	}
	sum, err := multihash.Sum(enc, code, -1)
	if err != nil {
		return Name{}, err
	}
	return Name{c: cid.NewCidV1(cid.Libp2pKey, sum)}, nil
}

// Parse parses the string form of a name.
func Parse(s string) (Name, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return Name{}, fmt.Errorf("naming: invalid name %q: %w", s, err)
	}
	if c.Prefix().Codec != cid.Libp2pKey {
		return Name{}, fmt.Errorf("naming: %q is not a libp2p-key name", s)
	}
	return Name{c: c}, nil
}

func (n Name) Defined() bool { return n.c.Defined() }

func (n Name) Equal(o Name) bool { return n.c.Equals(o.c) }

func (n Name) String() string {
	if !n.c.Defined() {
		return ""
	}
	s, err := n.c.StringOfBase(multibase.Base36)
	if err != nil {
		return n.c.String()
	}
	return s
}

// PublicKey recovers the public key inlined into the name. It fails for
// names whose key was too large to inline; those resolve through the key
// embedded in the record instead.
func (n Name) PublicKey() (keys.PublicKey, error) {
	dec, err := multihash.Decode(n.c.Hash())
	if err != nil {
		return nil, err
	}
	if dec.Code != multihash.IDENTITY {
		return nil, fmt.Errorf("naming: name %s does not inline its public key", n)
	}
	return keys.UnmarshalPublicKey(dec.Digest)
}
