package keys

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"
)

// Dilithium3 signatures cover a sha3-256 digest of the message rather than
// the message itself, keeping the signed payload size independent of record
// size.

type dilithium3PrivateKey struct {
	k *mode3.PrivateKey
}

type dilithium3PublicKey struct {
	k *mode3.PublicKey
}

// GenerateDilithium3 returns a new Dilithium3 signing key read from rand.
func GenerateDilithium3(rand io.Reader) (PrivateKey, error) {
	_, priv, err := mode3.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	return &dilithium3PrivateKey{k: priv}, nil
}

func (p *dilithium3PrivateKey) Type() Type { return Dilithium3 }

func (p *dilithium3PrivateKey) Raw() []byte {
	if p.k == nil {
		return nil
	}
	b, err := p.k.MarshalBinary()
	if err != nil {
		return nil
	}
	return b
}

func (p *dilithium3PrivateKey) Public() PublicKey {
	return &dilithium3PublicKey{k: p.k.Public().(*mode3.PublicKey)}
}

func (p *dilithium3PrivateKey) Sign(msg []byte) ([]byte, error) {
	if p.k == nil {
		return nil, fmt.Errorf("%w: missing dilithium3 private key", ErrKeyMaterial)
	}
	digest := sha3.Sum256(msg)
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(p.k, digest[:], sig)
	return sig, nil
}

func (p *dilithium3PublicKey) Type() Type { return Dilithium3 }

func (p *dilithium3PublicKey) Raw() []byte {
	if p.k == nil {
		return nil
	}
	b, err := p.k.MarshalBinary()
	if err != nil {
		return nil
	}
	return b
}

func (p *dilithium3PublicKey) Verify(msg, sig []byte) bool {
	if p.k == nil || len(sig) != mode3.SignatureSize {
		return false
	}
	digest := sha3.Sum256(msg)
	return mode3.Verify(p.k, digest[:], sig)
}
