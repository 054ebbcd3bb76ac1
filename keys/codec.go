package keys

import (
	"crypto/ed25519"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"google.golang.org/protobuf/encoding/protowire"
)

// Encoded keys are a two-field length-delimited container: a varint key type
// followed by the algorithm-specific key bytes. The layout matches the key
// encoding embedded in published records, so a key extracted from an envelope
// and a key read from disk decode identically.
const (
	keyFieldType = 1
	keyFieldData = 2
)

func marshalKey(t Type, data []byte) []byte {
	var b []byte
	b = protowire.AppendTag(b, keyFieldType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t))
	b = protowire.AppendTag(b, keyFieldData, protowire.BytesType)
	b = protowire.AppendBytes(b, data)
	return b
}

func unmarshalKey(b []byte) (Type, []byte, error) {
	var (
		typ     Type
		data    []byte
		sawType bool
		sawData bool
	)
	for len(b) > 0 {
		num, wt, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, nil, fmt.Errorf("%w: %v", ErrKeyMaterial, protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == keyFieldType && wt == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, nil, fmt.Errorf("%w: %v", ErrKeyMaterial, protowire.ParseError(n))
			}
			typ = Type(v)
			sawType = true
			b = b[n:]
		case num == keyFieldData && wt == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, nil, fmt.Errorf("%w: %v", ErrKeyMaterial, protowire.ParseError(n))
			}
			data = append([]byte(nil), v...)
			sawData = true
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, wt, b)
			if n < 0 {
				return 0, nil, fmt.Errorf("%w: %v", ErrKeyMaterial, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	if !sawType || !sawData {
		return 0, nil, fmt.Errorf("%w: missing key fields", ErrKeyMaterial)
	}
	return typ, data, nil
}

// MarshalPublicKey encodes pub into its wire container.
func MarshalPublicKey(pub PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: nil public key", ErrKeyMaterial)
	}
	return marshalKey(pub.Type(), pub.Raw()), nil
}

// UnmarshalPublicKey decodes a wire container, dispatching on the key type.
func UnmarshalPublicKey(b []byte) (PublicKey, error) {
	typ, data, err := unmarshalKey(b)
	if err != nil {
		return nil, err
	}
	switch typ {
	case Ed25519:
		if len(data) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("%w: ed25519 public key must be %d bytes", ErrKeyMaterial, ed25519.PublicKeySize)
		}
		return &ed25519PublicKey{k: ed25519.PublicKey(data)}, nil
	case Dilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyMaterial, err)
		}
		return &dilithium3PublicKey{k: &pk}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported key type %d", ErrKeyMaterial, typ)
	}
}

// MarshalPrivateKey encodes priv into its wire container.
func MarshalPrivateKey(priv PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: nil private key", ErrKeyMaterial)
	}
	return marshalKey(priv.Type(), priv.Raw()), nil
}

// UnmarshalPrivateKey decodes a wire container, dispatching on the key type.
func UnmarshalPrivateKey(b []byte) (PrivateKey, error) {
	typ, data, err := unmarshalKey(b)
	if err != nil {
		return nil, err
	}
	switch typ {
	case Ed25519:
		if len(data) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("%w: ed25519 private key must be %d bytes", ErrKeyMaterial, ed25519.PrivateKeySize)
		}
		return &ed25519PrivateKey{k: ed25519.PrivateKey(data)}, nil
	case Dilithium3:
		var sk mode3.PrivateKey
		if err := sk.UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyMaterial, err)
		}
		return &dilithium3PrivateKey{k: &sk}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported key type %d", ErrKeyMaterial, typ)
	}
}
