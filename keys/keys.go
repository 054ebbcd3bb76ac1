package keys

import (
	"errors"
	"fmt"
)

// Type tags the signature algorithm a key belongs to. Values for well-known
// algorithms match the registry used by interoperating name-system
// implementations, so encoded keys round-trip across tools.
type Type int32

const (
	Ed25519    Type = 1
	Dilithium3 Type = 4
)

func (t Type) String() string {
	switch t {
	case Ed25519:
		return "ed25519"
	case Dilithium3:
		return "dilithium3"
	default:
		return fmt.Sprintf("unknown(%d)", int32(t))
	}
}

// ErrKeyMaterial reports structurally invalid key material. Signing is the
// only operation that fails this way; verification never errors, it returns
// false.
var ErrKeyMaterial = errors.New("keys: invalid key material")

// PublicKey is the verifying capability bound to a key type.
type PublicKey interface {
	Type() Type

	// Raw returns the algorithm-specific public key bytes.
	Raw() []byte

	// Verify reports whether sig is a valid signature over msg. It returns
	// false on any mismatch, including malformed signatures.
	Verify(msg, sig []byte) bool
}

// PrivateKey is the signing capability bound to a key type.
type PrivateKey interface {
	Type() Type

	// Raw returns the algorithm-specific private key bytes.
	Raw() []byte

	Public() PublicKey

	// Sign returns a signature over msg. It fails only when the key material
	// itself is unusable.
	Sign(msg []byte) ([]byte, error)
}
