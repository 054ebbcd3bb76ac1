package record

import (
	"bytes"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

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

func signedEnvelope(t *testing.T, rec *Record, priv keys.PrivateKey) *Envelope {
	t.Helper()
	env, err := NewEnvelope(rec, priv)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	return env
}

// legacyOnlyEnvelope builds an envelope the way a pre-migration producer
// would: legacy fields and signature only, no canonical blob.
func legacyOnlyEnvelope(t *testing.T, rec *Record, priv keys.PrivateKey) *Envelope {
	t.Helper()
	sig, err := priv.Sign(LegacyPayload(rec))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	pubKey, err := keys.MarshalPublicKey(priv.Public())
	if err != nil {
		t.Fatalf("MarshalPublicKey: %v", err)
	}
	return &Envelope{Record: *rec, SignatureV1: sig, PubKey: pubKey}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	priv := testKey(t)
	rec := fixtureRecord()
	rec.Sequence = 3
	rec.TTL = 60000000000
	env := signedEnvelope(t, rec, priv)

	back, err := Decode(env.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(back.Record.Value, rec.Value) ||
		!bytes.Equal(back.Record.Validity, rec.Validity) ||
		back.Record.ValidityType != rec.ValidityType ||
		back.Record.Sequence != rec.Sequence ||
		back.Record.TTL != rec.TTL {
		t.Fatalf("record fields did not round trip: %+v != %+v", back.Record, rec)
	}
	if !bytes.Equal(back.SignatureV1, env.SignatureV1) ||
		!bytes.Equal(back.SignatureV2, env.SignatureV2) ||
		!bytes.Equal(back.Data, env.Data) ||
		!bytes.Equal(back.PubKey, env.PubKey) {
		t.Fatalf("envelope portions did not round trip")
	}
	if !back.HasV2() {
		t.Fatalf("expected round-tripped envelope to carry the current scheme")
	}
}

func TestDecode_LegacyOnly(t *testing.T) {
	priv := testKey(t)
	env := legacyOnlyEnvelope(t, fixtureRecord(), priv)

	back, err := Decode(env.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.HasV2() {
		t.Fatalf("legacy-only envelope must not report a current-scheme portion")
	}
	if len(back.SignatureV1) == 0 {
		t.Fatalf("legacy signature lost in round trip")
	}
}

func TestDecode_Truncated(t *testing.T) {
	priv := testKey(t)
	env := signedEnvelope(t, fixtureRecord(), priv)
	b := env.Encode()

	_, err := Decode(b[:len(b)-1])
	if err == nil {
		t.Fatalf("expected error for truncated envelope")
	}
	if !IsKind(err, KindTruncated) {
		t.Fatalf("expected KindTruncated, got %v (rule %s)", err, RuleID(err))
	}
}

func TestDecode_NoScheme(t *testing.T) {
	_, err := Decode(nil)
	if err == nil {
		t.Fatalf("expected error for empty envelope")
	}
	if !IsKind(err, KindUnknownVersion) {
		t.Fatalf("expected KindUnknownVersion, got %v", err)
	}
}

func TestDecode_FieldMismatch(t *testing.T) {
	// Field 1 (value) must be length-delimited; carry it as a varint.
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)

	_, err := Decode(b)
	if err == nil {
		t.Fatalf("expected error for mistyped field")
	}
	if !IsKind(err, KindFieldMismatch) {
		t.Fatalf("expected KindFieldMismatch, got %v", err)
	}
}

func TestDecode_SkipsUnknownFields(t *testing.T) {
	priv := testKey(t)
	env := signedEnvelope(t, fixtureRecord(), priv)
	b := env.Encode()
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("future extension"))

	back, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode with unknown field: %v", err)
	}
	if !bytes.Equal(back.Record.Value, env.Record.Value) {
		t.Fatalf("known fields corrupted by unknown field")
	}
}

func TestNewEnvelope_RejectsBadValidityType(t *testing.T) {
	rec := fixtureRecord()
	rec.ValidityType = 1
	_, err := NewEnvelope(rec, testKey(t))
	if err == nil {
		t.Fatalf("expected error for non-EOL validity type")
	}
	if !IsKind(err, KindValidityType) {
		t.Fatalf("expected KindValidityType, got %v", err)
	}
}
