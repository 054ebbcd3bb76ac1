package record

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func fixtureRecord() *Record {
	return &Record{
		Value:        []byte("/ipfs/x"),
		ValidityType: ValidityEOL,
		Validity:     []byte("2030-01-01T00:00:00.000000000Z"),
		Sequence:     0,
		TTL:          0,
	}
}

func TestLegacyPayload_ExactBytes(t *testing.T) {
	rec := fixtureRecord()
	got := LegacyPayload(rec)
	want := []byte("/ipfs/x" + "EOL" + "2030-01-01T00:00:00.000000000Z")
	if !bytes.Equal(got, want) {
		t.Fatalf("legacy payload mismatch:\n got %q\nwant %q", got, want)
	}
}

// TestCanonicalData_ExactBytes pins the full canonical encoding, byte for
// byte: map ordering is length-first and the field names carry the exact
// casing interoperating verifiers match literally. A passing signature over a
// blob with different bytes would still be rejected by the name service, so
// this fixture is the interop contract.
func TestCanonicalData_ExactBytes(t *testing.T) {
	rec := fixtureRecord()
	got, err := CanonicalData(rec)
	if err != nil {
		t.Fatalf("CanonicalData: %v", err)
	}

	validityHex := hex.EncodeToString([]byte("2030-01-01T00:00:00.000000000Z"))
	wantHex := "a5" + // map, 5 entries
		"6354544c" + "00" + // "TTL": 0
		"6556616c7565" + "472f697066732f78" + // "Value": b"/ipfs/x"
		"6853657175656e6365" + "00" + // "Sequence": 0
		"6856616c6964697479" + "581e" + validityHex + // "Validity": 30-byte string
		"6c56616c696469747954797065" + "00" // "ValidityType": 0

	if hex.EncodeToString(got) != wantHex {
		t.Fatalf("canonical data mismatch:\n got %s\nwant %s", hex.EncodeToString(got), wantHex)
	}
}

func TestCanonicalData_FieldCasing(t *testing.T) {
	data, err := CanonicalData(fixtureRecord())
	if err != nil {
		t.Fatalf("CanonicalData: %v", err)
	}
	for _, key := range []string{"Value", "Validity", "ValidityType", "Sequence", "TTL"} {
		if !bytes.Contains(data, []byte(key)) {
			t.Fatalf("canonical data is missing key %q", key)
		}
	}
	for _, bad := range []string{"value", "validityType", "sequence", "ttl"} {
		if bytes.Contains(data, []byte(bad)) {
			t.Fatalf("canonical data contains wrongly cased key %q", bad)
		}
	}
}

func TestCanonicalData_Deterministic(t *testing.T) {
	rec := &Record{
		Value:        []byte("/ipfs/baguqeerav7qzu4nyltd53bjfbtvsl7kmbuktjvkywlvlw6mrvjf47mhuxnkq"),
		ValidityType: ValidityEOL,
		Validity:     []byte("2027-06-15T12:34:56.789000000Z"),
		Sequence:     42,
		TTL:          3600000000000,
	}
	a, err := CanonicalData(rec)
	if err != nil {
		t.Fatalf("CanonicalData: %v", err)
	}
	b, err := CanonicalData(rec)
	if err != nil {
		t.Fatalf("CanonicalData: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("canonical encoding is not deterministic")
	}
}

func TestDecodeCanonicalData_RoundTrip(t *testing.T) {
	rec := &Record{
		Value:        []byte("/ipfs/bafkreiem4twkqzsq2aj4shbycd4yvoj2cx72vezicletlhi7dijjciqpui"),
		ValidityType: ValidityEOL,
		Validity:     []byte("2027-06-15T12:34:56.789000000Z"),
		Sequence:     7,
		TTL:          60000000000,
	}
	data, err := CanonicalData(rec)
	if err != nil {
		t.Fatalf("CanonicalData: %v", err)
	}
	back, err := DecodeCanonicalData(data)
	if err != nil {
		t.Fatalf("DecodeCanonicalData: %v", err)
	}
	if !bytes.Equal(back.Value, rec.Value) || !bytes.Equal(back.Validity, rec.Validity) ||
		back.ValidityType != rec.ValidityType || back.Sequence != rec.Sequence || back.TTL != rec.TTL {
		t.Fatalf("round trip mismatch: %+v != %+v", back, rec)
	}
}

func TestSignaturePayloadV2_DomainSeparation(t *testing.T) {
	data := []byte{0xa5, 0x01}
	got := SignaturePayloadV2(data)
	want := append([]byte("ipns-signature:"), data...)
	if !bytes.Equal(got, want) {
		t.Fatalf("v2 payload mismatch: got %q want %q", got, want)
	}
}
