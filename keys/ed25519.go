package keys

import (
	"crypto/ed25519"
	"fmt"
	"io"
)

type ed25519PrivateKey struct {
	k ed25519.PrivateKey
}

type ed25519PublicKey struct {
	k ed25519.PublicKey
}

// GenerateEd25519 returns a new Ed25519 signing key read from rand.
func GenerateEd25519(rand io.Reader) (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	return &ed25519PrivateKey{k: priv}, nil
}

func (p *ed25519PrivateKey) Type() Type { return Ed25519 }

func (p *ed25519PrivateKey) Raw() []byte { return append([]byte(nil), p.k...) }

func (p *ed25519PrivateKey) Public() PublicKey {
	return &ed25519PublicKey{k: p.k.Public().(ed25519.PublicKey)}
}

func (p *ed25519PrivateKey) Sign(msg []byte) ([]byte, error) {
	if len(p.k) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 private key must be %d bytes", ErrKeyMaterial, ed25519.PrivateKeySize)
	}
	return ed25519.Sign(p.k, msg), nil
}

func (p *ed25519PublicKey) Type() Type { return Ed25519 }

func (p *ed25519PublicKey) Raw() []byte { return append([]byte(nil), p.k...) }

func (p *ed25519PublicKey) Verify(msg, sig []byte) bool {
	if len(p.k) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(p.k, msg, sig)
}
