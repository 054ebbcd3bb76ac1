package naming

import (
	"strings"
	"testing"

	"xdao.co/names/keys"
)

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func testKey(t *testing.T) keys.PrivateKey {
	t.Helper()
	priv, err := keys.GenerateEd25519(&deterministicReader{b: 0x42})
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	return priv
}

func TestFromPublicKey_Deterministic(t *testing.T) {
	priv := testKey(t)

	a, err := FromPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	b, err := FromPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("same key derived two names: %s and %s", a, b)
	}

	other, err := keys.GenerateEd25519(&deterministicReader{b: 0x99})
	if err != nil {
		t.Fatalf("GenerateEd25519: %v", err)
	}
	c, err := FromPublicKey(other.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	if a.Equal(c) {
		t.Fatal("distinct keys derived the same name")
	}
}

func TestName_StringIsBase36(t *testing.T) {
	priv := testKey(t)
	name, err := FromPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	if !strings.HasPrefix(name.String(), "k") {
		t.Fatalf("name %q is not base36 (expected multibase prefix k)", name)
	}
	if strings.ToLower(name.String()) != name.String() {
		t.Fatalf("name %q is not case-uniform", name)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	priv := testKey(t)
	name, err := FromPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	got, err := Parse(name.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !got.Equal(name) {
		t.Fatalf("parse changed the name: %s != %s", got, name)
	}
}

func TestParse_Rejects(t *testing.T) {
	if _, err := Parse("not a name"); err == nil {
		t.Fatal("expected error for garbage input")
	}
	// A well-formed CID with the wrong codec is not a name.
	if _, err := Parse("bafkreiem4twkqzsq2aj4shbycd4yvoj2cx72vezicletlhi7dijjciqpui"); err == nil {
		t.Fatal("expected error for a non-libp2p-key CID")
	}
}

func TestName_PublicKeyRecovery(t *testing.T) {
	priv := testKey(t)
	name, err := FromPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	pub, err := name.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	derived, err := FromPublicKey(pub)
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	if !derived.Equal(name) {
		t.Fatal("recovered key does not derive back to the same name")
	}
}

func TestName_PublicKeyNotInlined(t *testing.T) {
	priv, err := keys.GenerateDilithium3(&deterministicReader{b: 0x07})
	if err != nil {
		t.Fatalf("GenerateDilithium3: %v", err)
	}
	name, err := FromPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	if _, err := name.PublicKey(); err == nil {
		t.Fatal("expected recovery to fail for a hashed (non-inlined) key")
	}
}

func TestRevision_Increment(t *testing.T) {
	priv := testKey(t)
	name, err := FromPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}

	r0 := V0(name, "/ipfs/first")
	if r0.Sequence() != 0 {
		t.Fatalf("initial revision has sequence %d", r0.Sequence())
	}
	r1 := r0.Increment("/ipfs/second")
	if r1.Sequence() != 1 {
		t.Fatalf("incremented revision has sequence %d", r1.Sequence())
	}
	if r1.Value() != "/ipfs/second" {
		t.Fatalf("incremented revision has value %q", r1.Value())
	}
	if !r1.Name().Equal(name) {
		t.Fatal("incremented revision changed names")
	}
}
